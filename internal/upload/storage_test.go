package upload

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"byapar/internal/testutil"
)

func newStorage(t *testing.T, maxSize int64, maxFiles int) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir(), maxSize, maxFiles)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return s
}

// fileHeader builds a real multipart.FileHeader by writing and re-parsing a
// multipart body, so Open() works in save.
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="documents"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	r := multipart.NewReader(&buf, w.Boundary())
	form, err := r.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["documents"][0]
}

func TestValidate(t *testing.T) {
	t.Run("accepts_valid_files", func(t *testing.T) {
		s := newStorage(t, 1024, 2)
		files := []*multipart.FileHeader{
			fileHeader(t, "a.pdf", "application/pdf", []byte("pdf")),
			fileHeader(t, "b.png", "image/png", []byte("png")),
		}
		testutil.AssertNoError(t, s.Validate(files))
	})

	t.Run("rejects_too_many_files", func(t *testing.T) {
		s := newStorage(t, 1024, 2)
		files := []*multipart.FileHeader{
			fileHeader(t, "a.pdf", "application/pdf", []byte("1")),
			fileHeader(t, "b.pdf", "application/pdf", []byte("2")),
			fileHeader(t, "c.pdf", "application/pdf", []byte("3")),
		}
		testutil.AssertAppError(t, s.Validate(files), "TOO_MANY_FILES")
	})

	t.Run("rejects_oversize_file", func(t *testing.T) {
		s := newStorage(t, 4, 10)
		files := []*multipart.FileHeader{
			fileHeader(t, "big.pdf", "application/pdf", []byte("more than four bytes")),
		}
		testutil.AssertAppError(t, s.Validate(files), "FILE_TOO_LARGE")
	})

	t.Run("rejects_unknown_mime_type", func(t *testing.T) {
		s := newStorage(t, 1024, 10)
		files := []*multipart.FileHeader{
			fileHeader(t, "script.sh", "application/x-sh", []byte("#!/bin/sh")),
		}
		testutil.AssertAppError(t, s.Validate(files), "INVALID_FILE_TYPE")
	})

	t.Run("mime_type_parameters_ignored", func(t *testing.T) {
		s := newStorage(t, 1024, 10)
		files := []*multipart.FileHeader{
			fileHeader(t, "notes.txt", "text/plain; charset=utf-8", []byte("hi")),
		}
		testutil.AssertNoError(t, s.Validate(files))
	})
}

func TestSaveAll(t *testing.T) {
	t.Run("writes_files_to_disk", func(t *testing.T) {
		s := newStorage(t, 1024, 10)
		files := []*multipart.FileHeader{
			fileHeader(t, "license.pdf", "application/pdf", []byte("contents")),
		}

		saved, err := s.SaveAll(files)
		testutil.AssertNoError(t, err)

		if len(saved) != 1 {
			t.Fatalf("expected 1 saved file, got %d", len(saved))
		}
		sf := saved[0]
		if sf.OriginalName != "license.pdf" {
			t.Errorf("expected original name license.pdf, got %s", sf.OriginalName)
		}
		if sf.MimeType != "application/pdf" {
			t.Errorf("expected mime application/pdf, got %s", sf.MimeType)
		}
		data, err := os.ReadFile(sf.Path)
		testutil.AssertNoError(t, err)
		if string(data) != "contents" {
			t.Errorf("unexpected file contents %q", data)
		}
	})

	t.Run("validation_failure_writes_nothing", func(t *testing.T) {
		dir := t.TempDir()
		s, err := NewStorage(dir, 1024, 1)
		testutil.AssertNoError(t, err)

		files := []*multipart.FileHeader{
			fileHeader(t, "a.pdf", "application/pdf", []byte("1")),
			fileHeader(t, "b.pdf", "application/pdf", []byte("2")),
		}
		_, err = s.SaveAll(files)
		testutil.AssertAppError(t, err, "TOO_MANY_FILES")

		entries, readErr := os.ReadDir(filepath.Join(dir, "documents"))
		testutil.AssertNoError(t, readErr)
		if len(entries) != 0 {
			t.Errorf("expected empty upload directory, found %d entries", len(entries))
		}
	})

	t.Run("same_original_name_gets_distinct_files", func(t *testing.T) {
		s := newStorage(t, 1024, 10)
		files := []*multipart.FileHeader{
			fileHeader(t, "doc.pdf", "application/pdf", []byte("one")),
			fileHeader(t, "doc.pdf", "application/pdf", []byte("two")),
		}

		saved, err := s.SaveAll(files)
		testutil.AssertNoError(t, err)

		if saved[0].Filename == saved[1].Filename {
			t.Errorf("expected distinct stored names, both were %s", saved[0].Filename)
		}
		if !strings.HasSuffix(saved[0].Filename, ".pdf") {
			t.Errorf("stored name should keep the extension, got %s", saved[0].Filename)
		}
	})
}
