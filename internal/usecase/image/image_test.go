package image

import (
	"bytes"
	"context"
	"fmt"
	stdimage "image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/carvisapp/carvis-backend/internal/dto"
	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/internal/infrastructure/processor"
	"github.com/carvisapp/carvis-backend/pkg/cache"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/carvisapp/carvis-backend/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blob struct {
	contentType string
	data        []byte
	meta        map[string]string
}

type fakeBlobStore struct {
	objects map[string]blob

	existsCalls int
	uploads     int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string]blob)}
}

func (s *fakeBlobStore) Exists(_ context.Context, key string) (bool, error) {
	s.existsCalls++

	_, ok := s.objects[key]

	return ok, nil
}

func (s *fakeBlobStore) Download(_ context.Context, key string) (string, []byte, error) {
	obj, ok := s.objects[key]
	if !ok {
		return "", nil, errs.ErrRecordNotFound
	}

	return obj.contentType, obj.data, nil
}

func (s *fakeBlobStore) Upload(_ context.Context, key string, data []byte, contentType string, _ int64) error {
	s.uploads++
	s.objects[key] = blob{contentType: contentType, data: data}

	return nil
}

func (s *fakeBlobStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.local/" + key, nil
}

func (s *fakeBlobStore) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://s3.local/upload/" + key, nil
}

func (s *fakeBlobStore) SoftDelete(_ context.Context, keyPrefix string) error {
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, keyPrefix) {
			keys = append(keys, k)
		}
	}

	if len(keys) == 0 {
		return errs.ErrNothingToDelete
	}

	for _, k := range keys {
		s.objects["deleted/"+k] = s.objects[k]
		delete(s.objects, k)
	}

	return nil
}

func (s *fakeBlobStore) MergeMetadata(_ context.Context, key, metaKey, metaValue string) error {
	obj, ok := s.objects[key]
	if !ok {
		return errs.ErrRecordNotFound
	}

	if obj.meta == nil {
		obj.meta = make(map[string]string)
	}
	obj.meta[metaKey] = metaValue
	s.objects[key] = obj

	return nil
}

func newTestUseCase(t *testing.T, blobs *fakeBlobStore) (*ImageUseCase, *cache.Cache[dto.ImageURL], prometheus.Counter) {
	t.Helper()

	urlCache := cache.New[dto.ImageURL]()
	t.Cleanup(urlCache.Close)

	derived := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_images_derived_total"})

	uc := New(blobs, processor.New(), urlCache, derived, 12*time.Hour, time.Hour, logger.New("error"))

	return uc, urlCache, derived
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	err := png.Encode(&buf, stdimage.NewRGBA(stdimage.Rect(0, 0, width, height)))
	require.NoError(t, err)

	return buf.Bytes()
}

func TestFetch_OriginalServedAndCached(t *testing.T) {
	blobs := newFakeBlobStore()
	uc, _, _ := newTestUseCase(t, blobs)

	id := uuid.New()
	blobs.objects[entity.ImageKey(id, entity.VariantOriginal)] = blob{contentType: "image/png", data: pngBytes(t, 10, 10)}

	url, err := uc.Fetch(context.Background(), id, entity.VariantOriginal)

	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("https://s3.local/%s/original", id), url.URL)
	assert.Equal(t, entity.VariantOriginal, url.Variant)
	assert.True(t, url.ExpiresAt.After(time.Now()))

	// second fetch is a cache hit, the store is not consulted again
	calls := blobs.existsCalls
	_, err = uc.Fetch(context.Background(), id, entity.VariantOriginal)
	require.NoError(t, err)
	assert.Equal(t, calls, blobs.existsCalls)
}

func TestFetch_MissingOriginal(t *testing.T) {
	uc, _, _ := newTestUseCase(t, newFakeBlobStore())

	_, err := uc.Fetch(context.Background(), uuid.New(), entity.VariantOriginal)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestFetch_DerivesMissingVariant(t *testing.T) {
	blobs := newFakeBlobStore()
	uc, _, derived := newTestUseCase(t, blobs)

	id := uuid.New()
	blobs.objects[entity.ImageKey(id, entity.VariantOriginal)] = blob{contentType: "image/png", data: pngBytes(t, 200, 100)}

	url, err := uc.Fetch(context.Background(), id, entity.Variant48)

	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("https://s3.local/%s/48", id), url.URL)
	assert.Equal(t, float64(1), testutil.ToFloat64(derived))

	stored, ok := blobs.objects[entity.ImageKey(id, entity.Variant48)]
	require.True(t, ok)
	assert.Equal(t, "image/png", stored.contentType)

	img, err := png.Decode(bytes.NewReader(stored.data))
	require.NoError(t, err)
	assert.Equal(t, 48, img.Bounds().Dy())
	assert.Equal(t, 96, img.Bounds().Dx()) // 2:1 aspect ratio preserved
}

func TestFetch_ExistingVariantNotRederived(t *testing.T) {
	blobs := newFakeBlobStore()
	uc, urlCache, derived := newTestUseCase(t, blobs)

	id := uuid.New()
	blobs.objects[entity.ImageKey(id, entity.VariantOriginal)] = blob{contentType: "image/png", data: pngBytes(t, 200, 100)}

	_, err := uc.Fetch(context.Background(), id, entity.Variant100)
	require.NoError(t, err)
	assert.Equal(t, 1, blobs.uploads)

	// drop the cached URL so the second fetch hits the store again
	urlCache.Delete(entity.ImageKey(id, entity.Variant100))

	_, err = uc.Fetch(context.Background(), id, entity.Variant100)
	require.NoError(t, err)
	assert.Equal(t, 1, blobs.uploads)
	assert.Equal(t, float64(1), testutil.ToFloat64(derived))
}

func TestFetch_DeriveWithMissingVariantButNoOriginal(t *testing.T) {
	uc, _, _ := newTestUseCase(t, newFakeBlobStore())

	_, err := uc.Fetch(context.Background(), uuid.New(), entity.Variant48)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestRequestUpload_CreatesNoObject(t *testing.T) {
	blobs := newFakeBlobStore()
	uc, _, _ := newTestUseCase(t, blobs)

	slot, err := uc.RequestUpload(context.Background(), "image/jpeg")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, slot.ID)
	assert.Equal(t, entity.VariantOriginal, slot.Variant)
	assert.Contains(t, slot.URL, entity.ImageKey(slot.ID, entity.VariantOriginal))
	assert.Empty(t, blobs.objects)
}

func TestDelete_SoftDeletesAllVariants(t *testing.T) {
	blobs := newFakeBlobStore()
	uc, urlCache, _ := newTestUseCase(t, blobs)

	id := uuid.New()
	originalKey := entity.ImageKey(id, entity.VariantOriginal)
	variantKey := entity.ImageKey(id, entity.Variant48)
	blobs.objects[originalKey] = blob{contentType: "image/png", data: pngBytes(t, 10, 10)}
	blobs.objects[variantKey] = blob{contentType: "image/png", data: pngBytes(t, 10, 10)}

	urlCache.Set(originalKey, dto.ImageURL{}, time.Minute)

	err := uc.Delete(context.Background(), id)

	require.NoError(t, err)
	assert.NotContains(t, blobs.objects, originalKey)
	assert.NotContains(t, blobs.objects, variantKey)
	assert.Contains(t, blobs.objects, "deleted/"+originalKey)
	assert.Contains(t, blobs.objects, "deleted/"+variantKey)

	_, ok := urlCache.Get(originalKey)
	assert.False(t, ok)
}

func TestDelete_AlreadyDeletedIsNoop(t *testing.T) {
	uc, _, _ := newTestUseCase(t, newFakeBlobStore())

	err := uc.Delete(context.Background(), uuid.New())

	assert.NoError(t, err)
}

func TestTagOwner(t *testing.T) {
	blobs := newFakeBlobStore()
	uc, _, _ := newTestUseCase(t, blobs)

	imageID := uuid.New()
	carID := uuid.New()
	key := entity.ImageKey(imageID, entity.VariantOriginal)
	blobs.objects[key] = blob{contentType: "image/png", data: pngBytes(t, 10, 10), meta: map[string]string{"uploader": "dealer-1"}}

	err := uc.TagOwner(context.Background(), imageID, carID)

	require.NoError(t, err)
	assert.Equal(t, carID.String(), blobs.objects[key].meta["carvis-car-id"])
	assert.Equal(t, "dealer-1", blobs.objects[key].meta["uploader"])
}

func TestTagOwner_UnknownImage(t *testing.T) {
	uc, _, _ := newTestUseCase(t, newFakeBlobStore())

	err := uc.TagOwner(context.Background(), uuid.New(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}
