package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/mycookbook-api/pkg/helpers"
)

// GCS stores objects in a Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
}

func NewGCS(client *storage.Client, bucket string) (*GCS, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("gcs bucket is required")
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	return helpers.UploadObject(ctx, g.client, g.bucket, key, contentType, r)
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	return helpers.DeleteObject(ctx, g.client, g.bucket, key)
}
