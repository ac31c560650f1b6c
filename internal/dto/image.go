package dto

import (
	"time"

	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/google/uuid"
)

// ImageURL is what the derivation service hands back for both downloads
// and upload slots: a presigned URL scoped to one (image, variant) pair.
type ImageURL struct {
	ID        uuid.UUID      `json:"id"`
	URL       string         `json:"url"`
	Variant   entity.Variant `json:"variant"`
	ExpiresAt time.Time      `json:"expires_at"`
}
