package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryStore keeps uploads in a Cloudinary folder and records their secure URL.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary URL is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	if folder == "" {
		folder = "marketplace"
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, f File) (string, error) {
	name := sanitizeName(f.Name)
	if name == "" {
		return "", fmt.Errorf("empty file name")
	}
	src, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	base := strings.TrimSuffix(name, path.Ext(name))
	res, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		PublicID:     base + "_" + uuid.NewString()[:8],
		Folder:       s.folder,
		Overwrite:    &[]bool{false}[0],
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload %s: %s", name, res.Error.Message)
	}
	if res.SecureURL != "" {
		return res.SecureURL, nil
	}
	return strings.Replace(res.URL, "http://", "https://", 1), nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, url string) error {
	id := PublicID(url)
	if id == "" {
		return nil
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     id,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", id, err)
	}
	return nil
}

// PublicID extracts the asset id from a delivery URL such as
// https://res.cloudinary.com/acct/image/upload/v123/folder/name.jpg.
func PublicID(url string) string {
	parts := strings.Split(url, "/")
	for i, part := range parts {
		if part != "upload" || i+1 >= len(parts) {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 1 && len(rest[0]) > 1 && rest[0][0] == 'v' && isDigits(rest[0][1:]) {
			rest = rest[1:]
		}
		p := strings.Join(rest, "/")
		return strings.TrimSuffix(p, path.Ext(p))
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
