package validate

const (
	MinRecipientNameLen int = 1
	MaxRecipientNameLen int = 128

	MaxBrandLen int = 64
	MaxModelLen int = 64

	MaxImagesPerCar int = 30
)

var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}
