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

type linkRequest struct {
	RecipientName string `json:"recipient_name"`
}

// @Summary 	Create shareable link
// @Description Mints a fresh reference a recipient can open the car with
// @Tags 		links
// @Accept 		json
// @Produce 	json
// @Param 		id 		path string 	 true "Car ID(uuid)"
// @Param 		request body linkRequest true "Link parameters"
// @Success 	201 {object} response.ShareableLink
// @Failure 	400 {object} response.Error
// @Failure 	404 {object} response.Error
// @Failure 	500 {object} response.Error
// @Router 		/v1/cars/{id}/links [post]
func (r *V1) createLink(ctx *fiber.Ctx) error {
	carID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	var req linkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	if len(req.RecipientName) < validate.MinRecipientNameLen || len(req.RecipientName) > validate.MaxRecipientNameLen {
		return errorResponse(ctx, http.StatusBadRequest, "recipient_name is required")
	}

	link, err := r.links.Create(ctx.UserContext(), carID, req.RecipientName, actor(ctx))
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "car not found")
		}
		r.logger.Error(err, "restapi - v1 - createLink")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.Status(http.StatusCreated).JSON(linkResponse(link))
}

// @Summary 	List links of a car
// @Tags 		links
// @Produce 	json
// @Param 		id path string true "Car ID(uuid)"
// @Success 	200 {array} response.ShareableLink
// @Failure 	400 {object} response.Error
// @Failure 	500 {object} response.Error
// @Router 		/v1/cars/{id}/links [get]
func (r *V1) listLinks(ctx *fiber.Ctx) error {
	carID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	links, err := r.links.ListByCar(ctx.UserContext(), carID)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - listLinks")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	resp := make([]response.ShareableLink, 0, len(links))
	for _, link := range links {
		resp = append(resp, linkResponse(link))
	}

	return ctx.Status(http.StatusOK).JSON(resp)
}

// @Summary 	Open shareable link
// @Description Resolves the reference and registers the visit; the counter itself is bumped asynchronously
// @Tags 		links
// @Produce 	json
// @Param 		reference path string true "Link reference"
// @Success 	200 {object} response.ShareableLink
// @Failure 	404 {object} response.Error
// @Failure 	500 {object} response.Error
// @Router 		/v1/links/{reference} [get]
func (r *V1) getLink(ctx *fiber.Ctx) error {
	reference := ctx.Params("reference")

	link, err := r.links.Get(ctx.UserContext(), reference)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "link not found")
		}
		r.logger.Error(err, "restapi - v1 - getLink")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	if err := r.links.Visit(ctx.UserContext(), reference); err != nil {
		r.logger.Error(err, "restapi - v1 - getLink - r.links.Visit")

		return errorResponse(ctx, http.StatusInternalServerError, "broker problems")
	}

	return ctx.Status(http.StatusOK).JSON(linkResponse(link))
}

// @Summary 	Delete shareable link
// @Tags 		links
// @Param 		reference path string true "Link reference"
// @Success		204 "Deleted"
// @Failure 	404 {object} response.Error
// @Failure 	500 {object} response.Error
// @Router 		/v1/links/{reference} [delete]
func (r *V1) deleteLink(ctx *fiber.Ctx) error {
	reference := ctx.Params("reference")

	if err := r.links.Delete(ctx.UserContext(), reference); err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "link not found")
		}
		r.logger.Error(err, "restapi - v1 - deleteLink")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.SendStatus(http.StatusNoContent)
}

func linkResponse(link *entity.ShareableLink) response.ShareableLink {
	return response.ShareableLink{
		Reference:     link.Reference,
		CarID:         link.CarID.String(),
		RecipientName: link.RecipientName,
		VisitCount:    link.VisitCount,
		CreatedAt:     link.CreatedAt.Format(time.RFC3339),
		CreatedBy:     link.CreatedBy,
	}
}
