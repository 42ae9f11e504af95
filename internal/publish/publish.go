package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

var ErrInvalidURL = errors.New("invalid s3 url")

// Uploader is the part of manager.Uploader the publisher needs.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Publisher pushes exports to S3.
type Publisher struct {
	uploader Uploader
}

// New builds a publisher from the default AWS credential chain
// (environment, shared config, instance role).
func New(ctx context.Context) (*Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("publish: loading aws config: %w", err)
	}
	return NewWithUploader(manager.NewUploader(s3.NewFromConfig(cfg))), nil
}

func NewWithUploader(u Uploader) *Publisher {
	return &Publisher{uploader: u}
}

// Upload streams body to bucket/key and returns the object location.
func (p *Publisher) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, err := p.uploader.Upload(ctx, input)
	if err != nil {
		return "", fmt.Errorf("publish: uploading s3://%s/%s: %w", bucket, key, err)
	}

	log.Debug().Str("bucket", bucket).Str("key", key).Str("location", out.Location).Msg("uploaded export")
	return out.Location, nil
}

// ParseS3URL splits s3://bucket/key into its bucket and key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("%w: %q must start with s3://", ErrInvalidURL, raw)
	}

	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: %q needs a bucket and an object key", ErrInvalidURL, raw)
	}
	return bucket, key, nil
}
