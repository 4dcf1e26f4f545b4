package files

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Store загружает файлы резюме в бакет S3.
type S3Store struct {
	client s3iface.S3API
	bucket string
	region string
}

// NewS3Store builds a client from the default credential chain
// (AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY, shared config, instance role).
func NewS3Store(region, bucket string) (*S3Store, error) {
	if region == "" || bucket == "" {
		return nil, fmt.Errorf("s3 store: region and bucket are required")
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return NewS3StoreWithClient(s3.New(sess), region, bucket), nil
}

func NewS3StoreWithClient(client s3iface.S3API, region, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region}
}

// Save uploads data under key name and returns the object URL.
func (s *S3Store) Save(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}
	return s.objectURL(name), nil
}

// Delete removes the object behind a URL returned by Save.
func (s *S3Store) Delete(ctx context.Context, location string) error {
	prefix := s.objectURL("")
	key := strings.TrimPrefix(location, prefix)
	if key == location || key == "" {
		return fmt.Errorf("location %q is not in bucket %s", location, s.bucket)
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from s3: %w", err)
	}
	return nil
}

func (s *S3Store) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
