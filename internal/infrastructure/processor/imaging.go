package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

type ImageProcessor struct {
}

func New() *ImageProcessor {
	return &ImageProcessor{}
}

// ScaleToHeight resizes to the target pixel height, deriving the width
// from the source aspect ratio. Orientation is corrected from EXIF during
// decode; a missing or unreadable EXIF block simply means no rotation.
func (p *ImageProcessor) ScaleToHeight(ctx context.Context, contentType string, data []byte, height int) ([]byte, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - ScaleToHeight - decodeImage: %w", err)
	}

	// width 0 = keep aspect ratio
	resized := imaging.Resize(img, 0, height, imaging.Lanczos)

	res, err := encodeImage(resized, contentType)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - ScaleToHeight - encodeImage: %w", err)
	}

	return res, nil
}

func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - decodeImage - imaging.Decode: %w", err)
	}

	return img, nil
}

func encodeImage(img image.Image, contentType string) ([]byte, error) {
	var buf bytes.Buffer
	var format imaging.Format

	switch contentType {
	case "image/jpeg", "image/jpg":
		format = imaging.JPEG
	case "image/png":
		format = imaging.PNG
	case "image/gif":
		format = imaging.GIF
	default:
		return nil, fmt.Errorf("ImageProcessor - encodeImage - unsupported content type %q", contentType)
	}

	err := imaging.Encode(&buf, img, format)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - encodeImage - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
