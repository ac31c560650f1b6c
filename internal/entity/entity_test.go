package entity

import (
	"testing"
	"time"

	"github.com/carvisapp/carvis-backend/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Variant
		wantErr bool
	}{
		{name: "original", in: "original", want: VariantOriginal},
		{name: "thumbnail", in: "48", want: Variant48},
		{name: "largest", in: "1080", want: Variant1080},
		{name: "unknown size", in: "640", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrUnknownVariant)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariantHeight(t *testing.T) {
	assert.Equal(t, 0, VariantOriginal.Height())
	assert.Equal(t, 48, Variant48.Height())
	assert.Equal(t, 1080, Variant1080.Height())
}

func TestImageKey(t *testing.T) {
	id := uuid.MustParse("7a0d3d21-95ff-4b95-a7a8-0d2c39d1a201")

	assert.Equal(t, "7a0d3d21-95ff-4b95-a7a8-0d2c39d1a201/original", ImageKey(id, VariantOriginal))
	assert.Equal(t, "7a0d3d21-95ff-4b95-a7a8-0d2c39d1a201/200", ImageKey(id, Variant200))
	assert.Equal(t, "7a0d3d21-95ff-4b95-a7a8-0d2c39d1a201/", ImagePrefix(id))
}

func TestAuditTouch_SetsCreatedExactlyOnce(t *testing.T) {
	var a Audit

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a.Touch("alice", first)

	assert.Equal(t, first, a.CreatedAt)
	assert.Equal(t, "alice", a.CreatedBy)
	assert.Equal(t, first, a.UpdatedAt)
	assert.Equal(t, "alice", a.UpdatedBy)

	second := first.Add(time.Hour)
	a.Touch("bob", second)

	assert.Equal(t, first, a.CreatedAt)
	assert.Equal(t, "alice", a.CreatedBy)
	assert.Equal(t, second, a.UpdatedAt)
	assert.Equal(t, "bob", a.UpdatedBy)
}
