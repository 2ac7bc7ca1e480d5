package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"
)

// S3Config carries connection settings for an S3-compatible endpoint.
// ForcePathStyle is required for MinIO.
type S3Config struct {
	Endpoint       string
	Region         string
	AccessKey      string
	SecretKey      string
	Bucket         string
	PublicBaseURL  string // base URL objects are served from; derived from Endpoint when empty
	ForcePathStyle bool
}

// S3Store implements Store against an S3-compatible backend.
type S3Store struct {
	client *s3.Client
	config S3Config
}

var _ Store = (*S3Store)(nil)

// NewS3Store builds an S3 client from static credentials and verifies the
// bucket exists, creating it when it does not.
// PRE: config has a non-empty Endpoint, Bucket, and credentials
// POST: Returns a ready store; the bucket exists
func NewS3Store(ctx context.Context, config S3Config) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(config.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKey, config.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(config.Endpoint)
		o.UsePathStyle = config.ForcePathStyle
	})

	store := &S3Store{client: client, config: config}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %q: %w", config.Bucket, err)
	}
	return store, nil
}

// ensureBucket creates the bucket when it does not already exist.
func (s *S3Store) ensureBucket(ctx context.Context) error {
	bucket := s.config.Bucket
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &bucket}); err == nil {
		return nil
	}

	in := &s3.CreateBucketInput{Bucket: &bucket}
	if s.config.Region != "" && s.config.Region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.config.Region),
		}
	}

	_, err := s.client.CreateBucket(ctx, in)
	if err == nil {
		return nil
	}

	// Already-exists is success for our purposes.
	var ae smithy.APIError
	if errors.As(err, &ae) {
		code := ae.ErrorCode()
		if code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}
	}
	return err
}

// Upload writes the object with a sniffed content type and returns its
// public URL.
// PRE: key is non-empty, data is the full object body
// POST: object stored under key with detected Content-Type
func (s *S3Store) Upload(ctx context.Context, key string, data []byte) (string, error) {
	contentType := mimetype.Detect(data).String()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.config.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %q: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// Delete removes the object. Deleting a missing key is not an error on S3.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.config.Bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

// PublicURL returns the URL a key is served from. With path-style
// addressing (MinIO) this is endpoint/bucket/key.
func (s *S3Store) PublicURL(key string) string {
	base := strings.TrimRight(s.config.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(s.config.Endpoint, "/") + "/" + s.config.Bucket
	}
	return base + "/" + key
}
