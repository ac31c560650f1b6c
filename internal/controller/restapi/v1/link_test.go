package v1

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/carvisapp/carvis-backend/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLinkService struct {
	link     *entity.ShareableLink
	getErr   error
	visitErr error
	visits   int
}

func (s *fakeLinkService) Create(context.Context, uuid.UUID, string, string) (*entity.ShareableLink, error) {
	return s.link, nil
}

func (s *fakeLinkService) Get(_ context.Context, reference string) (*entity.ShareableLink, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.link, nil
}

func (s *fakeLinkService) ListByCar(context.Context, uuid.UUID) ([]*entity.ShareableLink, error) {
	return nil, nil
}

func (s *fakeLinkService) Visit(context.Context, string) error {
	s.visits++
	return s.visitErr
}

func (s *fakeLinkService) IncrementVisits(context.Context, string) error { return nil }
func (s *fakeLinkService) Delete(context.Context, string) error          { return nil }
func (s *fakeLinkService) DeleteByCar(context.Context, uuid.UUID) error  { return nil }

type fakeUserService struct{}

func (fakeUserService) RegisterSignup(context.Context, string, string, string) error { return nil }
func (fakeUserService) RecordActivity(string)                                        {}
func (fakeUserService) ActiveUsers() float64                                         { return 0 }

func newLinkTestApp(links *fakeLinkService) *fiber.App {
	app := fiber.New()
	NewRoutes(app.Group("/v1"), nil, nil, links, fakeUserService{}, nil, logger.New("error"))

	return app
}

func TestGetLink_RegistersVisit(t *testing.T) {
	links := &fakeLinkService{
		link: &entity.ShareableLink{Reference: "abc12345", CarID: uuid.New(), VisitCount: 7},
	}
	app := newLinkTestApp(links)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/links/abc12345", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, links.visits)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"reference":"abc12345"`)
}

// opening a link both renders it and produces the visit event; if the
// event cannot be produced, the request fails like any other publish path
func TestGetLink_PublishFailureFailsRequest(t *testing.T) {
	links := &fakeLinkService{
		link:     &entity.ShareableLink{Reference: "abc12345", CarID: uuid.New()},
		visitErr: errors.New("write messages: broker not available"),
	}
	app := newLinkTestApp(links)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/links/abc12345", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "broker problems")
}

func TestGetLink_NotFound(t *testing.T) {
	links := &fakeLinkService{getErr: errs.ErrRecordNotFound}
	app := newLinkTestApp(links)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/links/missing0", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Zero(t, links.visits)
}
