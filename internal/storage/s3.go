package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/socialapp/social-service/internal/config"
)

const uploadTimeout = time.Second * 30

type UploadResult struct {
	URL string
	Key string
}

// MediaStore is the narrow blob-storage interface the services consume.
type MediaStore interface {
	Upload(ctx context.Context, body io.Reader, contentType string, folder string) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
}

type s3Store struct {
	bucket    string
	cdnPrefix string
	uploader  *s3manager.Uploader
	svc       *s3.S3
}

func NewS3Store(cfg config.StorageConfig) (MediaStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, err
	}

	return &s3Store{
		bucket:    cfg.Bucket,
		cdnPrefix: strings.TrimSuffix(cfg.CDNPrefix, "/") + "/",
		uploader:  s3manager.NewUploader(sess),
		svc:       s3.New(sess),
	}, nil
}

func (s *s3Store) Upload(ctx context.Context, body io.Reader, contentType string, folder string) (*UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	key := generateKey(folder, contentType)

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		URL: s.cdnPrefix + key,
		Key: key,
	}, nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// generateKey builds "<folder>/<uuid><ext>" with the extension derived
// from the MIME subtype, so object names never collide and never leak
// client-supplied file names.
func generateKey(folder string, contentType string) string {
	ext := ""
	if i := strings.Index(contentType, "/"); i >= 0 && i < len(contentType)-1 {
		ext = "." + contentType[i+1:]
	}
	return path.Join(folder, uuid.New().String()+ext)
}
