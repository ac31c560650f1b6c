package car

import (
	"context"
	"testing"

	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/carvisapp/carvis-backend/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCarRepo struct {
	cars map[uuid.UUID]entity.Car
}

func newFakeCarRepo() *fakeCarRepo {
	return &fakeCarRepo{cars: make(map[uuid.UUID]entity.Car)}
}

func (r *fakeCarRepo) Create(_ context.Context, car *entity.Car) error {
	r.cars[car.ID] = *car
	return nil
}

func (r *fakeCarRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Car, error) {
	car, ok := r.cars[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	return &car, nil
}

func (r *fakeCarRepo) Update(_ context.Context, car *entity.Car) error {
	if _, ok := r.cars[car.ID]; !ok {
		return errs.ErrRecordNotFound
	}

	r.cars[car.ID] = *car

	return nil
}

func (r *fakeCarRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.cars[id]; !ok {
		return errs.ErrRecordNotFound
	}

	delete(r.cars, id)

	return nil
}

type recordingTx struct {
	calls int
}

func (t *recordingTx) WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	t.calls++
	return f(ctx)
}

type assignedCall struct {
	carID    uuid.UUID
	imageIDs []uuid.UUID
}

type deletedCall struct {
	carID    uuid.UUID
	imageIDs []uuid.UUID
}

type fakePublisher struct {
	assigned      []assignedCall
	imagesDeleted [][]uuid.UUID
	carsDeleted   []deletedCall
}

func (p *fakePublisher) PublishImageDeleted(context.Context, uuid.UUID) error { return nil }

func (p *fakePublisher) PublishImagesDeleted(_ context.Context, imageIDs []uuid.UUID) error {
	p.imagesDeleted = append(p.imagesDeleted, imageIDs)
	return nil
}

func (p *fakePublisher) PublishImageAssignedToCar(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (p *fakePublisher) PublishImagesAssignedToCar(_ context.Context, carID uuid.UUID, imageIDs []uuid.UUID) error {
	p.assigned = append(p.assigned, assignedCall{carID: carID, imageIDs: imageIDs})
	return nil
}

func (p *fakePublisher) PublishCarDeleted(_ context.Context, carID uuid.UUID, imageIDs []uuid.UUID) error {
	p.carsDeleted = append(p.carsDeleted, deletedCall{carID: carID, imageIDs: imageIDs})
	return nil
}

func (p *fakePublisher) PublishShareableLinkVisited(context.Context, string) error { return nil }
func (p *fakePublisher) PublishUserSignup(context.Context, string, string, string) error {
	return nil
}
func (p *fakePublisher) Close() error { return nil }

func TestCreate_AssignsImagesToCar(t *testing.T) {
	repo := newFakeCarRepo()
	pub := &fakePublisher{}
	uc := New(repo, &recordingTx{}, pub, logger.New("error"))

	imageIDs := []uuid.UUID{uuid.New(), uuid.New()}
	car, err := uc.Create(context.Background(), &entity.Car{
		Brand:    "Volvo",
		Model:    "XC60",
		Mileage:  42000,
		Price:    31000,
		ImageIDs: imageIDs,
	}, "dealer-1")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, car.ID)
	assert.Equal(t, "dealer-1", car.CreatedBy)

	require.Len(t, pub.assigned, 1)
	assert.Equal(t, car.ID, pub.assigned[0].carID)
	assert.Equal(t, imageIDs, pub.assigned[0].imageIDs)
}

func TestCreate_NoImagesNoPublish(t *testing.T) {
	pub := &fakePublisher{}
	uc := New(newFakeCarRepo(), &recordingTx{}, pub, logger.New("error"))

	_, err := uc.Create(context.Background(), &entity.Car{Brand: "Volvo", Model: "XC60"}, "dealer-1")

	require.NoError(t, err)
	assert.Empty(t, pub.assigned)
}

func TestUpdate_DiffsImageSet(t *testing.T) {
	repo := newFakeCarRepo()
	pub := &fakePublisher{}
	tx := &recordingTx{}
	uc := New(repo, tx, pub, logger.New("error"))

	kept := uuid.New()
	dropped := uuid.New()
	added := uuid.New()

	existing, err := uc.Create(context.Background(), &entity.Car{
		Brand:    "Volvo",
		Model:    "XC60",
		ImageIDs: []uuid.UUID{kept, dropped},
	}, "dealer-1")
	require.NoError(t, err)

	pub.assigned = nil

	updated, err := uc.Update(context.Background(), &entity.Car{
		ID:       existing.ID,
		Brand:    "Volvo",
		Model:    "XC60",
		Mileage:  43000,
		ImageIDs: []uuid.UUID{kept, added},
	}, "dealer-2")

	require.NoError(t, err)

	// dropped images are queued for deletion, new ones for tagging
	require.Len(t, pub.imagesDeleted, 1)
	assert.Equal(t, []uuid.UUID{dropped}, pub.imagesDeleted[0])
	require.Len(t, pub.assigned, 1)
	assert.Equal(t, []uuid.UUID{added}, pub.assigned[0].imageIDs)

	// creation audit survives the update
	assert.Equal(t, existing.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "dealer-1", updated.CreatedBy)
	assert.Equal(t, "dealer-2", updated.UpdatedBy)

	// the diff read and the write ran in one transaction
	assert.Equal(t, 1, tx.calls)
}

func TestUpdate_SameImagesNoPublish(t *testing.T) {
	repo := newFakeCarRepo()
	pub := &fakePublisher{}
	uc := New(repo, &recordingTx{}, pub, logger.New("error"))

	imageIDs := []uuid.UUID{uuid.New()}
	existing, err := uc.Create(context.Background(), &entity.Car{
		Brand:    "Volvo",
		Model:    "XC60",
		ImageIDs: imageIDs,
	}, "dealer-1")
	require.NoError(t, err)

	pub.assigned = nil

	_, err = uc.Update(context.Background(), &entity.Car{
		ID:       existing.ID,
		Brand:    "Volvo",
		Model:    "XC90",
		ImageIDs: imageIDs,
	}, "dealer-1")

	require.NoError(t, err)
	assert.Empty(t, pub.assigned)
	assert.Empty(t, pub.imagesDeleted)
}

func TestDelete_BroadcastsCarDeleted(t *testing.T) {
	repo := newFakeCarRepo()
	pub := &fakePublisher{}
	tx := &recordingTx{}
	uc := New(repo, tx, pub, logger.New("error"))

	imageIDs := []uuid.UUID{uuid.New(), uuid.New()}
	car, err := uc.Create(context.Background(), &entity.Car{
		Brand:    "Volvo",
		Model:    "XC60",
		ImageIDs: imageIDs,
	}, "dealer-1")
	require.NoError(t, err)

	err = uc.Delete(context.Background(), car.ID)

	require.NoError(t, err)
	require.Len(t, pub.carsDeleted, 1)
	assert.Equal(t, car.ID, pub.carsDeleted[0].carID)
	assert.Equal(t, imageIDs, pub.carsDeleted[0].imageIDs)

	// snapshot and row delete share one transaction
	assert.Equal(t, 1, tx.calls)

	_, err = uc.Get(context.Background(), car.ID)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestDelete_UnknownCar(t *testing.T) {
	pub := &fakePublisher{}
	uc := New(newFakeCarRepo(), &recordingTx{}, pub, logger.New("error"))

	err := uc.Delete(context.Background(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
	assert.Empty(t, pub.carsDeleted)
}
