package entity

import "time"

// Audit carries the cross-cutting bookkeeping fields every persisted
// entity has. Created* is written exactly once, Updated* on every save.
type Audit struct {
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by"`
}

func (a *Audit) Touch(user string, now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
		a.CreatedBy = user
	}

	a.UpdatedAt = now
	a.UpdatedBy = user
}
