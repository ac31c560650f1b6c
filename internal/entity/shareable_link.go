package entity

import "github.com/google/uuid"

// ShareableLink lets a dealer hand a single car to a recipient by a short
// reference. The visit counter is non-negative and only ever grows.
type ShareableLink struct {
	Reference     string    `json:"reference"`
	CarID         uuid.UUID `json:"car_id"`
	RecipientName string    `json:"recipient_name"`
	VisitCount    int       `json:"visit_count"`

	Audit
}
