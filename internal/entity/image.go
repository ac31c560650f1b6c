package entity

import (
	"fmt"

	"github.com/carvisapp/carvis-backend/pkg/types/errs"
	"github.com/google/uuid"
)

// Variant is a size tag of a stored image. Every image has exactly one
// original; the numeric variants are derived from it on demand and can be
// thrown away and regenerated at any time.
type Variant string

const (
	VariantOriginal Variant = "original"
	Variant48       Variant = "48"
	Variant100      Variant = "100"
	Variant200      Variant = "200"
	Variant500      Variant = "500"
	Variant1080     Variant = "1080"
)

var variantHeights = map[Variant]int{
	Variant48:   48,
	Variant100:  100,
	Variant200:  200,
	Variant500:  500,
	Variant1080: 1080,
}

func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if v == VariantOriginal {
		return v, nil
	}
	if _, ok := variantHeights[v]; !ok {
		return "", fmt.Errorf("entity - ParseVariant - %q: %w", s, errs.ErrUnknownVariant)
	}

	return v, nil
}

// Height returns the target pixel height of a derived variant. Zero for
// the original, which is never resized.
func (v Variant) Height() int {
	return variantHeights[v]
}

// ImageKey is the blob store key of one (image, variant) pair.
func ImageKey(id uuid.UUID, v Variant) string {
	return fmt.Sprintf("%s/%s", id, v)
}

// ImagePrefix covers every variant of one image.
func ImagePrefix(id uuid.UUID) string {
	return fmt.Sprintf("%s/", id)
}
