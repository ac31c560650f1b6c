package link

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/internal/infrastructure"
	"github.com/carvisapp/carvis-backend/internal/repo"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/carvisapp/carvis-backend/pkg/types/errs"
	"github.com/google/uuid"
)

const (
	referenceAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength   = 8

	// collision retries on reference generation
	createAttempts = 3

	systemActor = "system"
)

type LinkUseCase struct {
	links     repo.LinkRepo
	publisher infrastructure.Publisher

	logger logger.Interface
}

func New(links repo.LinkRepo, publisher infrastructure.Publisher, l logger.Interface) *LinkUseCase {
	return &LinkUseCase{
		links:     links,
		publisher: publisher,
		logger:    l,
	}
}

// Create allocates a fresh server-generated reference. References are
// globally unique; a duplicate insert is retried with a new reference.
func (uc *LinkUseCase) Create(ctx context.Context, carID uuid.UUID, recipientName, actor string) (*entity.ShareableLink, error) {
	var lastErr error

	for attempt := 0; attempt < createAttempts; attempt++ {
		reference, err := newReference()
		if err != nil {
			return nil, fmt.Errorf("LinkUseCase - Create - newReference: %w", err)
		}

		link := &entity.ShareableLink{
			Reference:     reference,
			CarID:         carID,
			RecipientName: recipientName,
		}
		link.Touch(actor, time.Now())

		err = uc.links.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, errs.ErrReferenceTaken) {
			return nil, fmt.Errorf("LinkUseCase - Create - uc.links.Create: %w", err)
		}

		lastErr = err
	}

	return nil, fmt.Errorf("LinkUseCase - Create - attempts exhausted: %w", lastErr)
}

func (uc *LinkUseCase) Get(ctx context.Context, reference string) (*entity.ShareableLink, error) {
	link, err := uc.links.GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("LinkUseCase - Get - uc.links.GetByReference: %w", err)
	}

	return link, nil
}

func (uc *LinkUseCase) ListByCar(ctx context.Context, carID uuid.UUID) ([]*entity.ShareableLink, error) {
	links, err := uc.links.ListByCar(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("LinkUseCase - ListByCar - uc.links.ListByCar: %w", err)
	}

	return links, nil
}

// Visit only publishes the visited event; the counter moves when the
// event comes back through the dispatch core.
func (uc *LinkUseCase) Visit(ctx context.Context, reference string) error {
	err := uc.publisher.PublishShareableLinkVisited(ctx, reference)
	if err != nil {
		return fmt.Errorf("LinkUseCase - Visit - uc.publisher.PublishShareableLinkVisited: %w", err)
	}

	return nil
}

// IncrementVisits bumps the counter with an optimistic read-back check.
// The persistence layer has no atomic increment, so two concurrent
// increments can both read v and both write v+1; the re-read detects the
// lost update when the timing allows and raises it as a handler failure.
// Detection, not prevention.
func (uc *LinkUseCase) IncrementVisits(ctx context.Context, reference string) error {
	link, err := uc.links.GetByReference(ctx, reference)
	if err != nil {
		return fmt.Errorf("LinkUseCase - IncrementVisits - uc.links.GetByReference: %w", err)
	}

	expected := link.VisitCount + 1
	link.VisitCount = expected
	link.Touch(systemActor, time.Now())

	if err = uc.links.Update(ctx, link); err != nil {
		return fmt.Errorf("LinkUseCase - IncrementVisits - uc.links.Update: %w", err)
	}

	persisted, err := uc.links.GetByReference(ctx, reference)
	if err != nil {
		return fmt.Errorf("LinkUseCase - IncrementVisits - read-back - uc.links.GetByReference: %w", err)
	}

	if persisted.VisitCount != expected {
		uc.logger.Warn("LinkUseCase - IncrementVisits - reference=%s expected=%d got=%d", reference, expected, persisted.VisitCount)

		return fmt.Errorf("LinkUseCase - IncrementVisits - reference=%s: %w", reference, errs.ErrCounterMismatch)
	}

	return nil
}

func (uc *LinkUseCase) Delete(ctx context.Context, reference string) error {
	err := uc.links.Delete(ctx, reference)
	if err != nil {
		return fmt.Errorf("LinkUseCase - Delete - uc.links.Delete: %w", err)
	}

	return nil
}

func (uc *LinkUseCase) DeleteByCar(ctx context.Context, carID uuid.UUID) error {
	err := uc.links.DeleteByCar(ctx, carID)
	if err != nil {
		return fmt.Errorf("LinkUseCase - DeleteByCar - uc.links.DeleteByCar: %w", err)
	}

	return nil
}

func newReference() (string, error) {
	b := make([]byte, referenceLength)
	max := big.NewInt(int64(len(referenceAlphabet)))

	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("newReference - rand.Int: %w", err)
		}
		b[i] = referenceAlphabet[n.Int64()]
	}

	return string(b), nil
}
