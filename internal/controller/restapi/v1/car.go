package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/carvisapp/carvis-backend/internal/controller/restapi/v1/response"
	"github.com/carvisapp/carvis-backend/internal/controller/restapi/v1/validate"
	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type carRequest struct {
	Brand    string      `json:"brand"`
	Model    string      `json:"model"`
	Mileage  int64       `json:"mileage"`
	Price    int64       `json:"price"`
	ImageIDs []uuid.UUID `json:"image_ids"`
}

func (req *carRequest) validate() string {
	if req.Brand == "" || len(req.Brand) > validate.MaxBrandLen {
		return "brand is required"
	}

	if req.Model == "" || len(req.Model) > validate.MaxModelLen {
		return "model is required"
	}

	if req.Mileage < 0 {
		return "mileage cant be negative"
	}

	if req.Price < 0 {
		return "price cant be negative"
	}

	if len(req.ImageIDs) > validate.MaxImagesPerCar {
		return "too many images"
	}

	return ""
}

// @Summary 	Create car
// @Tags 		cars
// @Accept 		json
// @Produce 	json
// @Param 		request body carRequest true "Car listing"
// @Success 	201 {object} response.Car
// @Failure 	400 {object} response.Error
// @Failure 	500 {object} response.Error
// @Router 		/v1/cars [post]
func (r *V1) createCar(ctx *fiber.Ctx) error {
	var req carRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	if msg := req.validate(); msg != "" {
		return errorResponse(ctx, http.StatusBadRequest, msg)
	}

	car := &entity.Car{
		Brand:    req.Brand,
		Model:    req.Model,
		Mileage:  req.Mileage,
		Price:    req.Price,
		ImageIDs: req.ImageIDs,
	}

	created, err := r.cars.Create(ctx.UserContext(), car, actor(ctx))
	if err != nil {
		r.logger.Error(err, "restapi - v1 - createCar")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.Status(http.StatusCreated).JSON(carResponse(created))
}

// @Summary 	Get car
// @Tags 		cars
// @Produce 	json
// @Param 		id path string true "Car ID(uuid)"
// @Success 	200 {object} response.Car
// @Failure 	400 {object} response.Error
// @Failure 	404 {object} response.Error
// @Failure 	500 {object} response.Error
// @Router 		/v1/cars/{id} [get]
func (r *V1) getCar(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	car, err := r.cars.Get(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "car not found")
		}
		r.logger.Error(err, "restapi - v1 - getCar")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.Status(http.StatusOK).JSON(carResponse(car))
}

// @Summary 	Update car
// @Description Replaces the listing; images dropped from the set are scheduled for removal, new ones get tagged with the car
// @Tags 		cars
// @Accept 		json
// @Produce 	json
// @Param 		id 		path string 	true "Car ID(uuid)"
// @Param 		request body carRequest true "Car listing"
// @Success 	200 {object} response.Car
// @Failure 	400 {object} response.Error
// @Failure 	404 {object} response.Error
// @Failure 	500 {object} response.Error
// @Router 		/v1/cars/{id} [put]
func (r *V1) updateCar(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	var req carRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	if msg := req.validate(); msg != "" {
		return errorResponse(ctx, http.StatusBadRequest, msg)
	}

	car := &entity.Car{
		ID:       id,
		Brand:    req.Brand,
		Model:    req.Model,
		Mileage:  req.Mileage,
		Price:    req.Price,
		ImageIDs: req.ImageIDs,
	}

	updated, err := r.cars.Update(ctx.UserContext(), car, actor(ctx))
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "car not found")
		}
		r.logger.Error(err, "restapi - v1 - updateCar")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.Status(http.StatusOK).JSON(carResponse(updated))
}

// @Summary 	Delete car
// @Description Deletes the listing; images and shareable links are cleaned up asynchronously
// @Tags 		cars
// @Param 		id path string true "Car ID(uuid)"
// @Success		204 "Deleted"
// @Failure 	400 {object} response.Error
// @Failure 	404 {object} response.Error
// @Failure 	500 {object} response.Error
// @Router 		/v1/cars/{id} [delete]
func (r *V1) deleteCar(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	if err := r.cars.Delete(ctx.UserContext(), id); err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "car not found")
		}
		r.logger.Error(err, "restapi - v1 - deleteCar")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.SendStatus(http.StatusNoContent)
}

func carResponse(car *entity.Car) response.Car {
	imageIDs := make([]string, 0, len(car.ImageIDs))
	for _, id := range car.ImageIDs {
		imageIDs = append(imageIDs, id.String())
	}

	return response.Car{
		ID:        car.ID.String(),
		Brand:     car.Brand,
		Model:     car.Model,
		Mileage:   car.Mileage,
		Price:     car.Price,
		ImageIDs:  imageIDs,
		CreatedAt: car.CreatedAt.Format(time.RFC3339),
		CreatedBy: car.CreatedBy,
		UpdatedAt: car.UpdatedAt.Format(time.RFC3339),
		UpdatedBy: car.UpdatedBy,
	}
}
