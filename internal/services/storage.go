package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService archives uploaded scan images to S3-compatible storage.
// Optional: when unconfigured, scan uploads are processed in memory and
// discarded.
type StorageService struct {
	client     *minio.Client
	bucketName string
	region     string
}

// NewStorageService creates an S3 storage client.
func NewStorageService(endpoint, accessKey, secretKey, bucketName, region string, useSSL bool) (*StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &StorageService{
		client:     client,
		bucketName: bucketName,
		region:     region,
	}, nil
}

// EnsureBucket creates the scan bucket if it doesn't exist.
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// ArchiveScanImage stores one scan upload under its scan id.
func (s *StorageService) ArchiveScanImage(ctx context.Context, scanID string, reader io.Reader, size int64, contentType string) error {
	key := fmt.Sprintf("scans/%s.jpg", scanID)
	_, err := s.client.PutObject(ctx, s.bucketName, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to archive scan image: %w", err)
	}
	return nil
}

// ScanImageURL generates a presigned download URL for an archived scan.
func (s *StorageService) ScanImageURL(ctx context.Context, scanID string, expiry time.Duration) (string, error) {
	key := fmt.Sprintf("scans/%s.jpg", scanID)
	url, err := s.client.PresignedGetObject(ctx, s.bucketName, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}
