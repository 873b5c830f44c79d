// Package upload handles business document storage on the local filesystem.
package upload

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "byapar/internal/errors"
)

// allowedMimeTypes is the whitelist of accepted document content types.
var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"text/plain": true,
}

// SavedFile describes a document written to disk.
type SavedFile struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Path         string
}

// Storage writes uploaded documents into a directory with collision-free
// names. Each stored filename is write-once, so no locking is needed for
// concurrent uploads.
type Storage struct {
	dir      string
	maxSize  int64
	maxFiles int
}

// NewStorage creates the upload directory if needed and returns a Storage.
func NewStorage(dir string, maxSize int64, maxFiles int) (*Storage, error) {
	docDir := filepath.Join(dir, "documents")
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Storage{dir: docDir, maxSize: maxSize, maxFiles: maxFiles}, nil
}

// MaxFiles returns the per-request file count limit.
func (s *Storage) MaxFiles() int {
	return s.maxFiles
}

// Validate checks file count, per-file size, and content type before any
// file is written or any database row is created.
func (s *Storage) Validate(files []*multipart.FileHeader) error {
	if len(files) > s.maxFiles {
		return apperrors.WithMessage(apperrors.ErrTooManyFiles,
			fmt.Sprintf("Too many files. Maximum %d files allowed", s.maxFiles))
	}
	for _, fh := range files {
		if fh.Size > s.maxSize {
			return apperrors.WithMessage(apperrors.ErrFileTooLarge,
				fmt.Sprintf("File too large. Maximum size is %dMB", s.maxSize/1024/1024))
		}
		mimeType := strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0])
		if !allowedMimeTypes[mimeType] {
			return apperrors.ErrInvalidFileType
		}
	}
	return nil
}

// SaveAll validates and writes every file, returning one SavedFile per input.
// A partial failure leaves earlier files on disk; there is no compensating
// cleanup between the disk write and the document row insert (known gap).
func (s *Storage) SaveAll(files []*multipart.FileHeader) ([]SavedFile, error) {
	if err := s.Validate(files); err != nil {
		return nil, err
	}

	saved := make([]SavedFile, 0, len(files))
	for _, fh := range files {
		sf, err := s.save(fh)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *sf)
	}
	return saved, nil
}

func (s *Storage) save(fh *multipart.FileHeader) (*SavedFile, error) {
	name := uniqueFilename(fh.Filename)
	dst := filepath.Join(s.dir, name)

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &SavedFile{
		Filename:     name,
		OriginalName: fh.Filename,
		MimeType:     strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0]),
		Size:         fh.Size,
		Path:         dst,
	}, nil
}

// uniqueFilename appends a timestamp plus random suffix so concurrent
// uploads of the same original name never collide.
func uniqueFilename(original string) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)
	return fmt.Sprintf("%s-%d-%d%s", base, time.Now().UnixMilli(), rand.Intn(1e9), ext)
}
