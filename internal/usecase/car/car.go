package car

import (
	"context"
	"fmt"
	"time"

	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/internal/infrastructure"
	"github.com/carvisapp/carvis-backend/internal/repo"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/google/uuid"
)

type CarUseCase struct {
	cars      repo.CarRepo
	tx        repo.Transactor
	publisher infrastructure.Publisher

	logger logger.Interface
}

func New(cars repo.CarRepo, tx repo.Transactor, publisher infrastructure.Publisher, l logger.Interface) *CarUseCase {
	return &CarUseCase{
		cars:      cars,
		tx:        tx,
		publisher: publisher,
		logger:    l,
	}
}

func (uc *CarUseCase) Create(ctx context.Context, car *entity.Car, actor string) (*entity.Car, error) {
	if car.ID == uuid.Nil {
		car.ID = uuid.New()
	}
	car.Touch(actor, time.Now())

	err := uc.cars.Create(ctx, car)
	if err != nil {
		return nil, fmt.Errorf("CarUseCase - Create - uc.cars.Create: %w", err)
	}

	if len(car.ImageIDs) > 0 {
		err = uc.publisher.PublishImagesAssignedToCar(ctx, car.ID, car.ImageIDs)
		if err != nil {
			return nil, fmt.Errorf("CarUseCase - Create - uc.publisher.PublishImagesAssignedToCar: %w", err)
		}
	}

	return car, nil
}

func (uc *CarUseCase) Get(ctx context.Context, id uuid.UUID) (*entity.Car, error) {
	car, err := uc.cars.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("CarUseCase - Get - uc.cars.GetByID: %w", err)
	}

	return car, nil
}

// Update diffs the image list: detached images are queued for deletion,
// newly attached ones for owner tagging.
func (uc *CarUseCase) Update(ctx context.Context, car *entity.Car, actor string) (*entity.Car, error) {
	var attached, detached []uuid.UUID

	// the diff basis and the write must see the same row
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := uc.cars.GetByID(ctx, car.ID)
		if err != nil {
			return fmt.Errorf("CarUseCase - Update - uc.cars.GetByID: %w", err)
		}

		attached, detached = diffImageIDs(existing.ImageIDs, car.ImageIDs)

		car.Audit = existing.Audit
		car.Touch(actor, time.Now())

		if err = uc.cars.Update(ctx, car); err != nil {
			return fmt.Errorf("CarUseCase - Update - uc.cars.Update: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(detached) > 0 {
		if err := uc.publisher.PublishImagesDeleted(ctx, detached); err != nil {
			return nil, fmt.Errorf("CarUseCase - Update - uc.publisher.PublishImagesDeleted: %w", err)
		}
	}

	if len(attached) > 0 {
		if err := uc.publisher.PublishImagesAssignedToCar(ctx, car.ID, attached); err != nil {
			return nil, fmt.Errorf("CarUseCase - Update - uc.publisher.PublishImagesAssignedToCar: %w", err)
		}
	}

	return car, nil
}

// Delete removes the row and broadcasts CAR_DELETED so the image cleanup
// and shareable-link cascade run asynchronously.
func (uc *CarUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	var imageIDs []uuid.UUID

	// snapshot the image list in the same transaction that removes the row,
	// so the broadcast cascade matches what was actually deleted
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		car, err := uc.cars.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("CarUseCase - Delete - uc.cars.GetByID: %w", err)
		}

		imageIDs = car.ImageIDs

		if err = uc.cars.Delete(ctx, id); err != nil {
			return fmt.Errorf("CarUseCase - Delete - uc.cars.Delete: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := uc.publisher.PublishCarDeleted(ctx, id, imageIDs); err != nil {
		return fmt.Errorf("CarUseCase - Delete - uc.publisher.PublishCarDeleted: %w", err)
	}

	return nil
}

func diffImageIDs(before, after []uuid.UUID) (attached, detached []uuid.UUID) {
	old := make(map[uuid.UUID]struct{}, len(before))
	for _, id := range before {
		old[id] = struct{}{}
	}

	next := make(map[uuid.UUID]struct{}, len(after))
	for _, id := range after {
		next[id] = struct{}{}

		if _, ok := old[id]; !ok {
			attached = append(attached, id)
		}
	}

	for _, id := range before {
		if _, ok := next[id]; !ok {
			detached = append(detached, id)
		}
	}

	return attached, detached
}
