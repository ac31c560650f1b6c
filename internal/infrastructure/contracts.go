package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

type (
	// ImageProcessor derives a size variant from original image bytes,
	// preserving aspect ratio and the source content type.
	ImageProcessor interface {
		ScaleToHeight(ctx context.Context, contentType string, data []byte, height int) ([]byte, error)
	}

	// Publisher is the set of typed produce helpers the domain services
	// emit commands and events through. Publish failures surface
	// synchronously to the caller; nothing is retried on the produce side.
	Publisher interface {
		PublishImageDeleted(ctx context.Context, imageID uuid.UUID) error
		PublishImagesDeleted(ctx context.Context, imageIDs []uuid.UUID) error
		PublishImageAssignedToCar(ctx context.Context, carID, imageID uuid.UUID) error
		PublishImagesAssignedToCar(ctx context.Context, carID uuid.UUID, imageIDs []uuid.UUID) error
		PublishCarDeleted(ctx context.Context, carID uuid.UUID, imageIDs []uuid.UUID) error
		PublishShareableLinkVisited(ctx context.Context, reference string) error
		PublishUserSignup(ctx context.Context, userID, email, name string) error
		Close() error
	}
)
