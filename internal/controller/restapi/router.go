package restapi

import (
	"github.com/carvisapp/carvis-backend/config"
	v1 "github.com/carvisapp/carvis-backend/internal/controller/restapi/v1"
	"github.com/carvisapp/carvis-backend/internal/infrastructure"
	"github.com/carvisapp/carvis-backend/internal/usecase"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/carvisapp/carvis-backend/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// @title Carvis backend
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(
	app *fiber.App,
	cfg *config.Config,
	img usecase.ImageService,
	cars usecase.CarService,
	links usecase.LinkService,
	users usecase.UserService,
	publisher infrastructure.Publisher,
	m *metrics.Metrics,
	l logger.Interface,
) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Prometheus
	if cfg.Metrics.Enabled {
		app.Get("/metrics", m.Handler())
	}

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewRoutes(apiV1Group, img, cars, links, users, publisher, l)
	}
}
