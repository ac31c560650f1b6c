package image

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carvisapp/carvis-backend/internal/dto"
	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/internal/infrastructure"
	"github.com/carvisapp/carvis-backend/internal/repo"
	"github.com/carvisapp/carvis-backend/pkg/cache"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/carvisapp/carvis-backend/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const metadataCarKey = "carvis-car-id"

type ImageUseCase struct {
	blobs     repo.BlobStore
	processor infrastructure.ImageProcessor
	urlCache  *cache.Cache[dto.ImageURL]
	derived   prometheus.Counter

	urlExpiry time.Duration
	cacheTTL  time.Duration

	logger logger.Interface
}

func New(
	blobs repo.BlobStore,
	processor infrastructure.ImageProcessor,
	urlCache *cache.Cache[dto.ImageURL],
	derived prometheus.Counter,
	urlExpiry time.Duration,
	cacheTTL time.Duration,
	l logger.Interface,
) *ImageUseCase {
	return &ImageUseCase{
		blobs:     blobs,
		processor: processor,
		urlCache:  urlCache,
		derived:   derived,
		urlExpiry: urlExpiry,
		cacheTTL:  cacheTTL,
		logger:    l,
	}
}

// Fetch returns a time-limited download URL for (id, variant), deriving
// the variant from the original first if it is missing. Derivation is not
// locked: two concurrent requests for the same missing variant may both
// derive and both write, which is wasteful but safe since both produce the
// same deterministic bytes under the same key.
func (uc *ImageUseCase) Fetch(ctx context.Context, id uuid.UUID, variant entity.Variant) (*dto.ImageURL, error) {
	key := entity.ImageKey(id, variant)

	if cached, ok := uc.urlCache.Get(key); ok {
		return &cached, nil
	}

	exists, err := uc.blobs.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - Fetch - uc.blobs.Exists: %w", err)
	}

	if !exists {
		if variant == entity.VariantOriginal {
			return nil, fmt.Errorf("ImageUseCase - Fetch - id=%s: %w", id, errs.ErrRecordNotFound)
		}

		if err = uc.derive(ctx, id, variant); err != nil {
			return nil, err
		}
	}

	url, err := uc.blobs.PresignGet(ctx, key, uc.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - Fetch - uc.blobs.PresignGet: %w", err)
	}

	result := dto.ImageURL{
		ID:        id,
		URL:       url,
		Variant:   variant,
		ExpiresAt: time.Now().Add(uc.urlExpiry),
	}

	uc.urlCache.Set(key, result, uc.cacheTTL)

	return &result, nil
}

// derive reads the original, scales it to the variant's height and stores
// the result under the derived key, re-encoded in the original's content
// type.
func (uc *ImageUseCase) derive(ctx context.Context, id uuid.UUID, variant entity.Variant) error {
	contentType, data, err := uc.blobs.Download(ctx, entity.ImageKey(id, entity.VariantOriginal))
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return fmt.Errorf("ImageUseCase - derive - id=%s: %w", id, errs.ErrRecordNotFound)
		}

		return fmt.Errorf("ImageUseCase - derive - uc.blobs.Download: %w", err)
	}

	resized, err := uc.processor.ScaleToHeight(ctx, contentType, data, variant.Height())
	if err != nil {
		return fmt.Errorf("ImageUseCase - derive - uc.processor.ScaleToHeight: %w", err)
	}

	key := entity.ImageKey(id, variant)
	err = uc.blobs.Upload(ctx, key, resized, contentType, int64(len(resized)))
	if err != nil {
		return fmt.Errorf("ImageUseCase - derive - uc.blobs.Upload: %w", err)
	}

	uc.derived.Inc()

	return nil
}

// RequestUpload allocates a fresh image id and returns a PUT URL bound to
// the original key and the given content type. The object itself is only
// created once the client actually uploads.
func (uc *ImageUseCase) RequestUpload(ctx context.Context, contentType string) (*dto.ImageURL, error) {
	id := uuid.New()
	key := entity.ImageKey(id, entity.VariantOriginal)

	url, err := uc.blobs.PresignPut(ctx, key, contentType, uc.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - RequestUpload - uc.blobs.PresignPut: %w", err)
	}

	return &dto.ImageURL{
		ID:        id,
		URL:       url,
		Variant:   entity.VariantOriginal,
		ExpiresAt: time.Now().Add(uc.urlExpiry),
	}, nil
}

// Delete soft-deletes every variant of the image together. An empty
// prefix is treated as success, not failure: a redelivered DELETE_IMAGE
// command after a completed delete must not fail forever.
func (uc *ImageUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	err := uc.blobs.SoftDelete(ctx, entity.ImagePrefix(id))
	if err != nil {
		if errors.Is(err, errs.ErrNothingToDelete) {
			uc.logger.Warn("ImageUseCase - Delete - id=%s already deleted, skipping", id)

			return nil
		}

		return fmt.Errorf("ImageUseCase - Delete - uc.blobs.SoftDelete: %w", err)
	}

	uc.urlCache.DeletePrefix(entity.ImagePrefix(id))

	return nil
}

// TagOwner records on the original which car currently claims the image.
// Auditability only, not access control. Re-tagging the same owner is a
// no-op by construction, which keeps the assign command idempotent.
func (uc *ImageUseCase) TagOwner(ctx context.Context, imageID, carID uuid.UUID) error {
	err := uc.blobs.MergeMetadata(ctx, entity.ImageKey(imageID, entity.VariantOriginal), metadataCarKey, carID.String())
	if err != nil {
		return fmt.Errorf("ImageUseCase - TagOwner - uc.blobs.MergeMetadata: %w", err)
	}

	return nil
}
