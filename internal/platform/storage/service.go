package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/segmentio/ksuid"
)

type StorageService struct {
	client       *minio.Client
	bucketImages string
}

func NewStorageService(client *minio.Client, bucketImages string) *StorageService {
	return &StorageService{
		client:       client,
		bucketImages: bucketImages,
	}
}

// UploadProductImage streams an uploaded image into the images bucket and
// returns its public URL.
func (s *StorageService) UploadProductImage(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, productID string) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	objectName := fmt.Sprintf("products/%s/%s%s", productID, ksuid.New().String(), ext)

	_, err := s.client.PutObject(
		ctx,
		s.bucketImages,
		objectName,
		file,
		fileHeader.Size,
		minio.PutObjectOptions{
			ContentType: fileHeader.Header.Get("Content-Type"),
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload image to MinIO: %w", err)
	}

	// Bucket is public-read, so the plain object URL is servable.
	url := fmt.Sprintf("http://%s/%s/%s", s.client.EndpointURL().Host, s.bucketImages, objectName)
	return url, nil
}

// DeleteProductImages removes every stored object under the product's
// image prefix.
func (s *StorageService) DeleteProductImages(ctx context.Context, productID string) error {
	prefix := fmt.Sprintf("products/%s/", productID)

	objects := s.client.ListObjects(ctx, s.bucketImages, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objects {
		if object.Err != nil {
			return fmt.Errorf("failed to list product images: %w", object.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucketImages, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete image %s: %w", object.Key, err)
		}
	}

	return nil
}
