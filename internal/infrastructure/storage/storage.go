// Package storage holds recipe images in an object store.
package storage

import (
	"context"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
)

// Backend is one object store. Put returns the public URL of the object.
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageStore uploads and releases recipe images. Backend failures come back
// as errs.ErrExternalService.
type ImageStore struct {
	backend Backend
	prefix  string
}

func NewImageStore(b Backend) *ImageStore {
	return &ImageStore{backend: b, prefix: "recipes"}
}

// Upload stores the image under a fresh key. The storage id is the object key.
func (s *ImageStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (entity.Image, error) {
	key := path.Join(s.prefix, uuid.NewString()+entity.ImageTypes[contentType])
	url, err := s.backend.Put(ctx, key, r, size, contentType)
	if err != nil {
		return entity.Image{}, errs.External("upload image", err)
	}
	return entity.Image{StorageID: key, URL: url}, nil
}

// Delete releases the object identified by storageID.
func (s *ImageStore) Delete(ctx context.Context, storageID string) error {
	if storageID == "" {
		return nil
	}
	if err := s.backend.Delete(ctx, storageID); err != nil {
		return errs.External("delete image", err)
	}
	return nil
}
