package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

var ErrUnknownObject = errors.New("storage: url does not belong to this bucket")

// File is an uploaded blob.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Storage uploads and deletes event images and hands out their public URLs.
type Storage interface {
	Upload(ctx context.Context, file File) (string, error)
	Delete(ctx context.Context, url string) error
}

// ObjectKey builds the object key from the upload time and the original
// file name. Keys only contain [A-Za-z0-9._-], so they can be appended to
// the bucket URL as is; every run of other characters becomes one dash.
func ObjectKey(now time.Time, name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Join(strings.FieldsFunc(base, func(r rune) bool {
		return !isKeyRune(r)
	}), "-")
	if strings.Trim(base, ".") == "" {
		base = "upload"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

func isKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}
