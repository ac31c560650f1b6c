package entity

import "github.com/google/uuid"

// The transport carries two message families on separate channels:
// commands (imperative, single owner) and events (broadcast, at least one
// owner). Both are closed sets.

type CommandType string

const (
	CmdDeleteImage      CommandType = "DELETE_IMAGE"
	CmdAssignImageToCar CommandType = "ASSIGN_IMAGE_TO_CAR"
)

// Command is the command-channel wire shape. The subject identifier goes
// in ID; AdditionalData holds the per-type auxiliary value, e.g. the image
// id of an assignment whose subject is the car.
type Command struct {
	Type           CommandType `json:"type"`
	ID             uuid.UUID   `json:"id"`
	AdditionalData string      `json:"additionalData,omitempty"`
}

type EventType string

const (
	EvtCarDeleted           EventType = "CAR_DELETED"
	EvtShareableLinkVisited EventType = "SHAREABLE_LINK_VISITED"
	EvtUserSignup           EventType = "USER_SIGNUP"
)

// Event is a tagged union over the event family. The type tag travels
// out-of-band (transport header), so it is excluded from the JSON body;
// only the fields of the concrete variant are populated.
type Event struct {
	Type EventType `json:"-"`

	// CAR_DELETED
	CarID    uuid.UUID   `json:"carId,omitempty"`
	ImageIDs []uuid.UUID `json:"imageIds,omitempty"`

	// SHAREABLE_LINK_VISITED
	Reference string `json:"reference,omitempty"`

	// USER_SIGNUP
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}
