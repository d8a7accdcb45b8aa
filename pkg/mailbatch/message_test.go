package mailbatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/batchkit/pkg/mailbatch"
)

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     mailbatch.Message
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid message",
			msg: mailbatch.Message{
				SendTo:   "user@example.com",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
				Tag:      "test",
			},
			wantErr: false,
		},
		{
			name: "valid message without tag",
			msg: mailbatch.Message{
				SendTo:   "user@example.com",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: false,
		},
		{
			name: "empty SendTo",
			msg: mailbatch.Message{
				SendTo:   "",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: true,
			errMsg:  "SendTo is required",
		},
		{
			name: "whitespace only SendTo",
			msg: mailbatch.Message{
				SendTo:   "   ",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: true,
			errMsg:  "SendTo is required",
		},
		{
			name: "invalid email format",
			msg: mailbatch.Message{
				SendTo:   "invalid-email",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: true,
			errMsg:  "SendTo must be a valid email address",
		},
		{
			name: "invalid email missing domain",
			msg: mailbatch.Message{
				SendTo:   "user@",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: true,
			errMsg:  "SendTo must be a valid email address",
		},
		{
			name: "invalid email missing local part",
			msg: mailbatch.Message{
				SendTo:   "@example.com",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: true,
			errMsg:  "SendTo must be a valid email address",
		},
		{
			name: "empty Subject",
			msg: mailbatch.Message{
				SendTo:   "user@example.com",
				Subject:  "",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: true,
			errMsg:  "Subject is required",
		},
		{
			name: "empty BodyHTML",
			msg: mailbatch.Message{
				SendTo:   "user@example.com",
				Subject:  "Test Subject",
				BodyHTML: "",
			},
			wantErr: true,
			errMsg:  "BodyHTML is required",
		},
		{
			name: "complex valid email",
			msg: mailbatch.Message{
				SendTo:   "test.user+tag@sub.example.com",
				Subject:  "Test Subject",
				BodyHTML: "<p>Test body</p>",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.msg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, mailbatch.ErrInvalidParams)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
