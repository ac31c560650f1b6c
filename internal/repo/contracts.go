package repo

import (
	"context"
	"time"

	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/google/uuid"
)

type (
	// BlobStore is the object store gateway. Absence is only an error where
	// the operation needs the object to exist; Exists never fails on a
	// missing key, only on transport trouble.
	BlobStore interface {
		Exists(ctx context.Context, key string) (bool, error)
		Download(ctx context.Context, key string) (contentType string, data []byte, err error)
		Upload(ctx context.Context, key string, data []byte, contentType string, size int64) error
		PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
		PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
		SoftDelete(ctx context.Context, keyPrefix string) error
		MergeMetadata(ctx context.Context, key, metaKey, metaValue string) error
	}

	LinkRepo interface {
		Create(ctx context.Context, link *entity.ShareableLink) error
		GetByReference(ctx context.Context, reference string) (*entity.ShareableLink, error)
		ListByCar(ctx context.Context, carID uuid.UUID) ([]*entity.ShareableLink, error)
		Update(ctx context.Context, link *entity.ShareableLink) error
		Delete(ctx context.Context, reference string) error
		DeleteByCar(ctx context.Context, carID uuid.UUID) error
	}

	CarRepo interface {
		Create(ctx context.Context, car *entity.Car) error
		GetByID(ctx context.Context, id uuid.UUID) (*entity.Car, error)
		Update(ctx context.Context, car *entity.Car) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	UserRepo interface {
		Save(ctx context.Context, user *entity.NewUser) error
	}

	// Transactor runs f atomically; repo calls made with the ctx it passes
	// share one transaction.
	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}
)
