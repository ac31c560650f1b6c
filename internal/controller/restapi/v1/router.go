package v1

import (
	"github.com/carvisapp/carvis-backend/internal/infrastructure"
	"github.com/carvisapp/carvis-backend/internal/usecase"
	"github.com/carvisapp/carvis-backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewRoutes(
	apiV1Group fiber.Router,
	img usecase.ImageService,
	cars usecase.CarService,
	links usecase.LinkService,
	users usecase.UserService,
	publisher infrastructure.Publisher,
	l logger.Interface,
) {
	r := &V1{img: img, cars: cars, links: links, users: users, publisher: publisher, logger: l}

	apiV1Group.Use(r.recordActivity)

	{
		// Images
		apiV1Group.Post("/images/upload-url", r.requestUpload)
		apiV1Group.Get("/images/:id/:variant", r.fetchImage)
		apiV1Group.Delete("/images/:id", r.deleteImage)

		// Cars
		apiV1Group.Post("/cars", r.createCar)
		apiV1Group.Get("/cars/:id", r.getCar)
		apiV1Group.Put("/cars/:id", r.updateCar)
		apiV1Group.Delete("/cars/:id", r.deleteCar)

		// Users
		apiV1Group.Post("/signup", r.signup)

		// Shareable links
		apiV1Group.Post("/cars/:id/links", r.createLink)
		apiV1Group.Get("/cars/:id/links", r.listLinks)
		apiV1Group.Get("/links/:reference", r.getLink)
		apiV1Group.Delete("/links/:reference", r.deleteLink)
	}
}
