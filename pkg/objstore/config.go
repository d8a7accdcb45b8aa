package objstore

// Config holds S3 connection parameters with environment variable mapping.
// AccessKeyID and SecretKey are optional; when empty the default AWS
// credential chain is used.
type Config struct {
	Bucket         string `env:"S3_BUCKET,required"`
	Region         string `env:"S3_REGION,required"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`                            // Optional: for S3-compatible services
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"` // For S3-compatible services like MinIO
}
