// Package storage keeps uploaded product images on disk under
// <root>/products/. Validation returns a sentinel error instead of
// flagging the request, so handlers can map rejections directly to 400s.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxImageSize = 5 << 20 // 5MB

	productsDir = "products"
	sniffLen    = 512
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type Store struct {
	root string
}

// NewStore creates the upload root and the products subdirectory.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, productsDir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string { return s.root }

// SaveProductImage validates and persists an uploaded image, returning the
// path relative to the upload root ("products/<uuid><ext>"). The content
// type is sniffed from the file bytes, not taken from the client header.
func (s *Store) SaveProductImage(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageSize {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	if !allowedImageTypes[http.DetectContentType(head)] {
		return "", ErrInvalidFileType
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".bin"
	}
	name := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.root, productsDir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := dst.Write(head); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}

	return path.Join(productsDir, name), nil
}

// Remove deletes a previously stored file by its relative path.
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
}

// Exists reports whether a stored file is still on disk.
func (s *Store) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel)))
	return err == nil
}
