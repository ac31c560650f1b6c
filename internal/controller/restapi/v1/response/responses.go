package response

type Error struct {
	Error string `json:"error" example:"message"`
}

type ImageURL struct {
	ImageID   string `json:"image_id"`
	Variant   string `json:"variant"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

type UploadSlot struct {
	ImageID   string `json:"image_id"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

type Car struct {
	ID        string   `json:"id"`
	Brand     string   `json:"brand"`
	Model     string   `json:"model"`
	Mileage   int64    `json:"mileage"`
	Price     int64    `json:"price"`
	ImageIDs  []string `json:"image_ids"`
	CreatedAt string   `json:"created_at"`
	CreatedBy string   `json:"created_by"`
	UpdatedAt string   `json:"updated_at"`
	UpdatedBy string   `json:"updated_by"`
}

type ShareableLink struct {
	Reference     string `json:"reference"`
	CarID         string `json:"car_id"`
	RecipientName string `json:"recipient_name"`
	VisitCount    int    `json:"visit_count"`
	CreatedAt     string `json:"created_at"`
	CreatedBy     string `json:"created_by"`
}
