package mailbatch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mrz1836/postmark"
)

// DevSender implements BatchSender for local development.
// It saves emails as HTML and JSON files to a specified directory
// instead of sending them through an email service.
type DevSender struct {
	dir string
}

// NewDevSender creates a development batch sender that saves emails to disk.
// The directory will be created if it doesn't exist.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

// emailMetadata contains the email data saved to JSON (excluding HTML content).
type emailMetadata struct {
	Timestamp string `json:"timestamp"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

// SendEmailBatch saves each email as HTML plus metadata JSON to the
// configured directory. The returned responses carry the base filename as
// MessageID so the files are easy to find.
func (d *DevSender) SendEmailBatch(ctx context.Context, emails []postmark.Email) ([]postmark.EmailResponse, error) {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	now := time.Now()
	timestamp := now.Format("2006_01_02_150405")

	responses := make([]postmark.EmailResponse, 0, len(emails))
	for i, email := range emails {
		// Use tag if available, otherwise use subject
		identifier := email.Tag
		if identifier == "" {
			identifier = email.Subject
		}

		// The index keeps filenames unique within one batch; a whole batch
		// lands in the same second.
		baseFilename := fmt.Sprintf("%s_%03d_%s", timestamp, i, sanitizeFilename(identifier))

		htmlPath := filepath.Join(d.dir, baseFilename+".html")
		if err := os.WriteFile(htmlPath, []byte(email.HTMLBody), 0644); err != nil {
			return nil, fmt.Errorf("%w: failed to write HTML file: %v", ErrFailedToSendEmail, err)
		}

		metadata := emailMetadata{
			Timestamp: now.Format(time.RFC3339),
			SendTo:    email.To,
			Subject:   email.Subject,
			Tag:       email.Tag,
		}
		jsonData, err := json.MarshalIndent(metadata, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSendEmail, err)
		}
		jsonPath := filepath.Join(d.dir, baseFilename+".json")
		if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
			return nil, fmt.Errorf("%w: failed to write JSON file: %v", ErrFailedToSendEmail, err)
		}

		responses = append(responses, postmark.EmailResponse{
			To:          email.To,
			SubmittedAt: now,
			MessageID:   baseFilename,
		})
	}

	return responses, nil
}

// sanitizeRegex matches characters that are not alphanumeric, dash, underscore, or dot
var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename converts a string into a safe filename.
// It replaces spaces with underscores, removes special characters,
// and truncates to a reasonable length.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}

	if s == "" {
		s = "email"
	}

	return strings.ToLower(s)
}
