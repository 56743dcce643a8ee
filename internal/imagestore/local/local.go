package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vbonduro/groupr/internal/imagestore"
)

// Store keeps images as flat files under one directory.
type Store struct {
	basePath string
}

func New(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

func (s *Store) Save(_ context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	key := fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), extFor(mimeType))
	path := filepath.Join(s.basePath, key)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Error("failed to close file after write error", "error", cerr)
		}
		s.remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.remove(path)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return key, nil
}

func (s *Store) Get(_ context.Context, storageKey string) (io.ReadCloser, string, error) {
	path, err := s.safeJoin(storageKey)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", imagestore.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return f, mimeFor(path), nil
}

func (s *Store) Delete(_ context.Context, storageKey string) error {
	path, err := s.safeJoin(storageKey)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return imagestore.ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Store) remove(path string) {
	if err := os.Remove(path); err != nil {
		slog.Error("failed to remove partial file", "path", path, "error", err)
	}
}

// safeJoin resolves storageKey inside basePath and rejects anything that
// escapes it.
func (s *Store) safeJoin(storageKey string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(s.basePath, storageKey))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/jpeg": ".jpg",
}

func extFor(mimeType string) string {
	if ext, ok := extensions[mimeType]; ok {
		return ext
	}
	return ".jpg"
}

func mimeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for mime, e := range extensions {
		if e == ext {
			return mime
		}
	}
	return "image/jpeg"
}
