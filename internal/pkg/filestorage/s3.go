package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// S3Config holds object storage settings
type S3Config struct {
	Region    string
	Endpoint  string // Optional: custom S3-compatible endpoint
	AccessKey string
	SecretKey string
}

// PutObjectAPI is the slice of the S3 client used for uploads
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage uploads export files to s3://bucket/key locations.
type S3Storage struct {
	client PutObjectAPI
}

// NewS3Storage wraps an existing client
func NewS3Storage(client PutObjectAPI) *S3Storage {
	return &S3Storage{client: client}
}

// NewS3Client creates an S3 client from the given configuration
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(creds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // For S3-compatible services
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// ParseS3URL splits s3://bucket/key into its parts
func ParseS3URL(url string) (bucket, key string, err error) {
	rest := url[len("s3://"):]
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: invalid S3 URL %q", apperrors.ErrInvalidDestination, url)
	}
	return parts[0], parts[1], nil
}

// Save renders into memory and uploads the result in one PutObject call.
func (ss *S3Storage) Save(ctx context.Context, name string, write func(w io.Writer) error) (string, error) {
	if !IsS3URL(name) {
		return "", fmt.Errorf("%w: %q is not an s3:// URL", apperrors.ErrInvalidDestination, name)
	}
	bucket, key, err := ParseS3URL(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(buf.Bytes()),
	}
	if contentType := mime.TypeByExtension(path.Ext(key)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := ss.client.PutObject(ctx, input); err != nil {
		logger.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("Failed to upload export")
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	logger.Debug().Str("bucket", bucket).Str("key", key).Int("bytes", buf.Len()).Msg("Export uploaded")
	return "s3://" + bucket + "/" + key, nil
}
