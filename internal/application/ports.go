package application

import (
	"context"
	"io"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
)

// ImageStore is the blob storage collaborator for recipe images.
type ImageStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (entity.Image, error)
	Delete(ctx context.Context, storageID string) error
}

// RecipeIndex is an optional full-text index. The recipe repository stays the
// source of truth; the index only returns matching ids.
type RecipeIndex interface {
	Index(ctx context.Context, r *entity.Recipe) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, category entity.Category) ([]string, error)
}

// JobPublisher puts a JSON job on the notification queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ImageUpload is an image received with a create or update request.
type ImageUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
}
