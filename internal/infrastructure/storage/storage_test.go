package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
)

type fakeBackend struct {
	objects map[string][]byte
	failPut error
	failDel error
}

func (f *fakeBackend) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if f.failPut != nil {
		return "", f.failPut
	}
	b, _ := io.ReadAll(r)
	f.objects[key] = b
	return "http://cdn/" + key, nil
}

func (f *fakeBackend) Delete(_ context.Context, key string) error {
	if f.failDel != nil {
		return f.failDel
	}
	delete(f.objects, key)
	return nil
}

func TestImageStore_UploadAndDelete(t *testing.T) {
	b := &fakeBackend{objects: map[string][]byte{}}
	s := NewImageStore(b)

	img, err := s.Upload(context.Background(), bytes.NewReader([]byte("png")), 3, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.StorageID, "recipes/"))
	assert.True(t, strings.HasSuffix(img.StorageID, ".png"))
	assert.Equal(t, "http://cdn/"+img.StorageID, img.URL)
	assert.Equal(t, []byte("png"), b.objects[img.StorageID])

	require.NoError(t, s.Delete(context.Background(), img.StorageID))
	assert.Empty(t, b.objects)
	require.NoError(t, s.Delete(context.Background(), ""))
}

func TestImageStore_FailuresAreExternal(t *testing.T) {
	b := &fakeBackend{objects: map[string][]byte{}, failPut: errors.New("boom"), failDel: errors.New("boom")}
	s := NewImageStore(b)

	_, err := s.Upload(context.Background(), bytes.NewReader(nil), 0, "image/jpeg")
	require.ErrorIs(t, err, errs.ErrExternalService)
	require.ErrorIs(t, s.Delete(context.Background(), "recipes/x.jpg"), errs.ErrExternalService)
}

func TestNewMinIO_Validation(t *testing.T) {
	_, err := NewMinIO(MinioConfig{})
	require.Error(t, err)

	m, err := NewMinIO(MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "recipes"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/recipes/k.png", m.ObjectURL("k.png"))

	m, err = NewMinIO(MinioConfig{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b", Bucket: "r", PublicURL: "https://img.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/r/k.png", m.ObjectURL("k.png"))
}

func TestNewGCS_RequiresBucket(t *testing.T) {
	_, err := NewGCS(nil, " ")
	require.Error(t, err)
}
