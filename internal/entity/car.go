package entity

import "github.com/google/uuid"

type Car struct {
	ID       uuid.UUID   `json:"id"`
	Brand    string      `json:"brand"`
	Model    string      `json:"model"`
	Mileage  int64       `json:"mileage"`
	Price    int64       `json:"price"`
	ImageIDs []uuid.UUID `json:"image_ids"`

	Audit
}
