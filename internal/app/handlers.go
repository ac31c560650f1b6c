package app

import (
	"context"
	"fmt"

	"github.com/carvisapp/carvis-backend/internal/dispatch"
	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/internal/usecase"
	"github.com/carvisapp/carvis-backend/pkg/metrics"
	"github.com/google/uuid"
)

// registerHandlers binds every known message type to its owners. This is
// the single place the command/event wiring lives; anything not listed
// here falls through to the dispatcher's unknown-type policy.
func registerHandlers(
	d *dispatch.Dispatcher,
	img usecase.ImageService,
	links usecase.LinkService,
	users usecase.UserService,
	m *metrics.Metrics,
) {
	// Commands

	d.OnCommand(entity.CmdDeleteImage, func(ctx context.Context, cmd entity.Command) error {
		return img.Delete(ctx, cmd.ID)
	})

	// subject is the car, the image travels in the auxiliary field
	d.OnCommand(entity.CmdAssignImageToCar, func(ctx context.Context, cmd entity.Command) error {
		imageID, err := uuid.Parse(cmd.AdditionalData)
		if err != nil {
			return fmt.Errorf("handlers - AssignImageToCar - uuid.Parse: %w", err)
		}

		return img.TagOwner(ctx, imageID, cmd.ID)
	})

	// Events

	d.OnEvent(entity.EvtCarDeleted,
		func(ctx context.Context, evt entity.Event) error {
			for _, imageID := range evt.ImageIDs {
				if err := img.Delete(ctx, imageID); err != nil {
					return err
				}
			}

			return nil
		},
		func(ctx context.Context, evt entity.Event) error {
			return links.DeleteByCar(ctx, evt.CarID)
		},
	)

	d.OnEvent(entity.EvtShareableLinkVisited, func(ctx context.Context, evt entity.Event) error {
		if err := links.IncrementVisits(ctx, evt.Reference); err != nil {
			return err
		}

		m.LinkVisitsTotal.Inc()

		return nil
	})

	d.OnEvent(entity.EvtUserSignup, func(ctx context.Context, evt entity.Event) error {
		return users.RegisterSignup(ctx, evt.UserID, evt.Email, evt.Name)
	})
}
