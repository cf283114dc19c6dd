package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const publicDir = "public/img"

// LocalStore writes files under <root>/public/img and records paths relative to root.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, filepath.FromSlash(publicDir)), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) Save(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := sanitizeName(f.Name)
	if name == "" {
		return "", errors.New("empty file name")
	}

	src, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, rel, err := s.create(name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(s.abs(rel))
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(s.abs(rel))
		return "", fmt.Errorf("close %s: %w", rel, err)
	}
	return rel, nil
}

// create opens a new file exclusively, suffixing the name when it is taken.
func (s *LocalStore) create(name string) (*os.File, string, error) {
	candidate := name
	for i := 0; i < 5; i++ {
		rel := path.Join(publicDir, candidate)
		fh, err := os.OpenFile(s.abs(rel), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return fh, rel, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create %s: %w", rel, err)
		}
		ext := path.Ext(name)
		candidate = strings.TrimSuffix(name, ext) + "_" + uuid.NewString()[:8] + ext
	}
	return nil, "", fmt.Errorf("create %s: too many name collisions", name)
}

func (s *LocalStore) Delete(_ context.Context, p string) error {
	if p == "" {
		return nil
	}
	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if path.IsAbs(clean) || !strings.HasPrefix(clean, publicDir+"/") {
		return ErrOutsideRoot
	}
	if err := os.Remove(s.abs(clean)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}

func (s *LocalStore) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
