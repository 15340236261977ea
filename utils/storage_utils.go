package utils

import (
	"bytes"
	"fmt"
	"net/http"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// Storage uploads car photos to an S3-compatible object store.
type Storage struct {
	client   *s3.S3
	bucket   string
	endpoint string
}

type StorageConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
}

func NewStorage(cfg StorageConfig) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(cfg.Region),
		Endpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKey, cfg.SecretKey, "",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create s3 session: %w", err)
	}
	return &Storage{client: s3.New(sess), bucket: cfg.Bucket, endpoint: cfg.Endpoint}, nil
}

// UploadFile stores the file under folder/<uuid><ext> and returns the
// public URL. Content type is sniffed from the first bytes.
func (s *Storage) UploadFile(file []byte, originalName string, folder string) (string, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), path.Ext(originalName))

	contentType := http.DetectContentType(file)

	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to s3: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
}

// DeleteFile removes an object by its key.
func (s *Storage) DeleteFile(key string) error {
	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("unable to delete file from s3: %w", err)
	}
	return nil
}
