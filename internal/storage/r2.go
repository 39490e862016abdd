// Package storage keeps answer attachments in a Cloudflare R2 bucket through
// the S3 API.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "github.com/muhammadolammi/careeradvisor/internal/config"
)

type objectClient interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type R2 struct {
	client   objectClient
	bucket   string
	attempts int
	wait     time.Duration
}

func NewR2(ctx context.Context, cfg appconfig.R2Config) (*R2, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	})
	return newR2(client, cfg.Bucket), nil
}

func newR2(client objectClient, bucket string) *R2 {
	return &R2{client: client, bucket: bucket, attempts: 3, wait: 500 * time.Millisecond}
}

// ObjectKey builds a unique key for a session attachment.
func ObjectKey(sessionID, filename string) string {
	return path.Join("sessions", sessionID, uuid.NewString()+"-"+path.Base(filename))
}

// Put uploads data under key, retrying transient failures.
func (r *R2) Put(ctx context.Context, key, mime string, data []byte) error {
	_, err := retry(ctx, r.attempts, r.wait, func() (*s3.PutObjectOutput, error) {
		return r.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(r.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(mime),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

// Delete removes the object under key.
func (r *R2) Delete(ctx context.Context, key string) error {
	_, err := retry(ctx, r.attempts, r.wait, func() (*s3.DeleteObjectOutput, error) {
		return r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(key),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// retry calls fn up to attempts times with linear backoff.
func retry[T any](ctx context.Context, attempts int, wait time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(wait * time.Duration(i+1)):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
