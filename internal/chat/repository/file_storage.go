package repository

import (
	"context"
	"io"

	"dating_match_service/pkg/database"
)

// FileStorage definition attachment object store.
// Object names are opaque paths; the caller prefixes the public base
// URL when handing them to clients.
type FileStorage interface {
	Store(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, objectName string) error
}

type minioFileStorage struct {
	client *database.MinIOClient
}

// NewMinioFileStorage create a FileStorage backed by minio
func NewMinioFileStorage(client *database.MinIOClient) FileStorage {
	return &minioFileStorage{client: client}
}

func (s *minioFileStorage) Store(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	return s.client.PutObject(ctx, objectName, reader, size, contentType)
}

func (s *minioFileStorage) Delete(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, objectName)
}
