package usecase

import (
	"context"

	"github.com/carvisapp/carvis-backend/internal/dto"
	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/google/uuid"
)

type (
	// ImageService is the derivation pipeline: time-limited download URLs
	// with lazy variant derivation, upload slots, soft delete, owner tags.
	ImageService interface {
		Fetch(ctx context.Context, id uuid.UUID, variant entity.Variant) (*dto.ImageURL, error)
		RequestUpload(ctx context.Context, contentType string) (*dto.ImageURL, error)
		Delete(ctx context.Context, id uuid.UUID) error
		TagOwner(ctx context.Context, imageID, carID uuid.UUID) error
	}

	LinkService interface {
		Create(ctx context.Context, carID uuid.UUID, recipientName, actor string) (*entity.ShareableLink, error)
		Get(ctx context.Context, reference string) (*entity.ShareableLink, error)
		ListByCar(ctx context.Context, carID uuid.UUID) ([]*entity.ShareableLink, error)
		Visit(ctx context.Context, reference string) error
		IncrementVisits(ctx context.Context, reference string) error
		Delete(ctx context.Context, reference string) error
		DeleteByCar(ctx context.Context, carID uuid.UUID) error
	}

	CarService interface {
		Create(ctx context.Context, car *entity.Car, actor string) (*entity.Car, error)
		Get(ctx context.Context, id uuid.UUID) (*entity.Car, error)
		Update(ctx context.Context, car *entity.Car, actor string) (*entity.Car, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	UserService interface {
		RegisterSignup(ctx context.Context, userID, email, name string) error
		RecordActivity(userID string)
		ActiveUsers() float64
	}
)
