package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// SpacesBackend stores objects in an S3-compatible bucket
// (DigitalOcean Spaces). All objects are written with a private ACL;
// documents are only ever served through the authenticated viewer.
type SpacesBackend struct {
	s3Client *s3.S3
	bucket   string
}

// SpacesConfig holds configuration for the Spaces backend
type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
}

// NewSpacesBackend creates a Spaces storage backend
func NewSpacesBackend(config SpacesConfig) (*SpacesBackend, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return &SpacesBackend{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
	}, nil
}

// Save uploads the object to the bucket with a private ACL
func (s *SpacesBackend) Save(ctx context.Context, key string, data io.Reader) (int64, error) {
	// PutObject needs a seekable body; buffer through ReadSeekCloser
	body := aws.ReadSeekCloser(data)
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ACL:         aws.String("private"),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upload object: %w", err)
	}

	head, err := s.s3Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to verify upload: %w", err)
	}
	return aws.Int64Value(head.ContentLength), nil
}

// Open returns a reader for the stored object
func (s *SpacesBackend) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	result, err := s.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, 0, ErrNotExist
		}
		return nil, 0, fmt.Errorf("failed to fetch object: %w", err)
	}
	return result.Body, aws.Int64Value(result.ContentLength), nil
}

// Delete removes the stored object
func (s *SpacesBackend) Delete(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists reports whether the object is present in the bucket
func (s *SpacesBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.s3Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isNotFound(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}
