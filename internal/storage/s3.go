// Package storage wraps the blob store used for user avatars. The rest of
// the system only ever sees the returned public URL as a plain string.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"ritmo-vivo/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// BlobStore stores a binary object and returns a public URL for it.
type BlobStore interface {
	Put(ctx context.Context, folder string, body io.Reader, contentType string) (string, error)
}

// S3Store implements BlobStore on an S3 bucket with public-read objects.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

var _ BlobStore = (*S3Store)(nil)

// NewS3Store builds a store for the given bucket. Static credentials are
// optional; when empty the default AWS credential chain is used.
func NewS3Store(ctx context.Context, bucket, region, accessKey, secretKey string) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// Put stores body under a generated key inside folder and returns the
// object's public URL.
func (s *S3Store) Put(ctx context.Context, folder string, body io.Reader, contentType string) (string, error) {
	key := path.Join(folder, uuid.New().String())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", utils.NewStoreError("put blob", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
