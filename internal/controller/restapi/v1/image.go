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

// @Summary  	Get image download URL
// @Description Returns a time-limited URL for one size variant, deriving the variant from the original if it does not exist yet
// @Tags 		images
// @Produce 	json
// @Param 		id 		path string true "Image ID(uuid)"
// @Param 		variant path string true "Size variant" Enums(original, 48, 100, 200, 500, 1080)
// @Success 	200 {object} response.ImageURL
// @Failure 	400 {object} response.Error "Invalid ID or variant"
// @Failure 	404 {object} response.Error "Original image not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/images/{id}/{variant} [get]
func (r *V1) fetchImage(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	variant, err := entity.ParseVariant(ctx.Params("variant"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid variant. Allowed: original, 48, 100, 200, 500, 1080")
	}

	url, err := r.img.Fetch(ctx.UserContext(), id, variant)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "image not found")
		}
		r.logger.Error(err, "restapi - v1 - fetchImage")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	resp := response.ImageURL{
		ImageID:   url.ID.String(),
		Variant:   string(url.Variant),
		URL:       url.URL,
		ExpiresAt: url.ExpiresAt.Format(time.RFC3339),
	}

	return ctx.Status(http.StatusOK).JSON(resp)
}

// @Summary  	Request image upload slot
// @Description Allocates a fresh image ID and returns a time-limited URL the client uploads the original to
// @Tags 		images
// @Accept 		json
// @Produce 	json
// @Param 		request body uploadRequest true "Upload parameters"
// @Success 	201 {object} response.UploadSlot
// @Failure 	400 {object} response.Error "Missing or unsupported content type"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/images/upload-url [post]
func (r *V1) requestUpload(ctx *fiber.Ctx) error {
	var req uploadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	if req.ContentType == "" {
		return errorResponse(ctx, http.StatusBadRequest, "content_type is required")
	}

	if !validate.AllowedContentTypes[req.ContentType] {
		return errorResponse(ctx, http.StatusBadRequest, "unsupported content type. Allowed: jpeg, png, gif")
	}

	slot, err := r.img.RequestUpload(ctx.UserContext(), req.ContentType)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - requestUpload")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	resp := response.UploadSlot{
		ImageID:   slot.ID.String(),
		URL:       slot.URL,
		ExpiresAt: slot.ExpiresAt.Format(time.RFC3339),
	}

	return ctx.Status(http.StatusCreated).JSON(resp)
}

// @Summary 	Delete image
// @Description Requests asynchronous removal of the image and all its size variants
// @Tags 		images
// @Param		id 	path	 string true "Image ID(uuid)"
// @Success		202 "Accepted"
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/images/{id} [delete]
func (r *V1) deleteImage(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	// removal runs on the command channel, not in the request path
	if err := r.publisher.PublishImageDeleted(ctx.UserContext(), id); err != nil {
		r.logger.Error(err, "restapi - v1 - deleteImage")

		return errorResponse(ctx, http.StatusInternalServerError, "broker problems")
	}

	return ctx.SendStatus(http.StatusAccepted)
}

type uploadRequest struct {
	ContentType string `json:"content_type"`
}
