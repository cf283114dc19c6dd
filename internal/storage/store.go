package storage

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
)

var ErrOutsideRoot = errors.New("path escapes media root")

// File is an uploaded file that has not been persisted yet.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Store persists uploaded files and returns the path recorded on the row.
type Store interface {
	Save(ctx context.Context, f File) (string, error)
	Delete(ctx context.Context, path string) error
}

func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Name: fh.Filename,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

func FromMultipartList(fhs []*multipart.FileHeader) []File {
	out := make([]File, 0, len(fhs))
	for _, fh := range fhs {
		if fh == nil || fh.Filename == "" {
			continue
		}
		out = append(out, FromMultipart(fh))
	}
	return out
}
