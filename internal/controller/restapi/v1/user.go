package v1

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type signupRequest struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// @Summary 	Register signup
// @Description Accepts a new-user signup and queues it for intake; the record lands asynchronously
// @Tags 		users
// @Accept 		json
// @Param 		request body signupRequest true "Signup"
// @Success		202 "Accepted"
// @Failure 	400 {object} response.Error
// @Failure 	500 {object} response.Error
// @Router 		/v1/signup [post]
func (r *V1) signup(ctx *fiber.Ctx) error {
	var req signupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" {
		return errorResponse(ctx, http.StatusBadRequest, "email is required")
	}

	if req.UserID == "" {
		req.UserID = uuid.NewString()
	}

	if err := r.publisher.PublishUserSignup(ctx.UserContext(), req.UserID, req.Email, req.Name); err != nil {
		r.logger.Error(err, "restapi - v1 - signup")

		return errorResponse(ctx, http.StatusInternalServerError, "broker problems")
	}

	return ctx.SendStatus(http.StatusAccepted)
}
