package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/groupr/internal/imagestore"
)

// Image records an uploaded placeholder image held in the image storage
// backend.
type Image struct {
	StorageKey string
	MimeType   string
	SizeBytes  int64
	UploadedAt time.Time
}

type ImageStore struct {
	db *sql.DB
}

func NewImageStore(db *sql.DB) *ImageStore {
	return &ImageStore{db: db}
}

func (s *ImageStore) Create(ctx context.Context, storageKey, mimeType string, size int64) (*Image, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (storage_key, mime_type, size_bytes) VALUES (?, ?, ?)
	`, storageKey, mimeType, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}

	return s.GetByKey(ctx, storageKey)
}

func (s *ImageStore) GetByKey(ctx context.Context, storageKey string) (*Image, error) {
	img := &Image{}
	err := s.db.QueryRowContext(ctx, `
		SELECT storage_key, mime_type, size_bytes, uploaded_at FROM images WHERE storage_key = ?
	`, storageKey).Scan(&img.StorageKey, &img.MimeType, &img.SizeBytes, &img.UploadedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return img, nil
}

func (s *ImageStore) Delete(ctx context.Context, storageKey string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE storage_key = ?`, storageKey)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return imagestore.ErrNotFound
	}

	return nil
}
