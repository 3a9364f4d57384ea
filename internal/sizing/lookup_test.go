package sizing

import (
	"SizeMeasurement/internal/entity"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindByLabel(t *testing.T) {
	detections := []entity.Detection{det("Cup", 10), det("BOX", 20), det("box", 30)}

	tests := []struct {
		name      string
		in        []entity.Detection
		label     string
		wantFound bool
		wantWidth float64
	}{
		{"case-insensitive first match", detections, "Box", true, 20},
		{"exact match", detections, "Cup", true, 10},
		{"no match", detections, "Card", false, 0},
		{"empty list", []entity.Detection{}, "Box", false, 0},
		{"nil list", nil, "Box", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindByLabel(tt.in, tt.label)
			assert.Equal(t, tt.wantFound, ok)
			assert.Equal(t, tt.wantWidth, WidthOf(&got))
		})
	}
}

func TestWidthOf(t *testing.T) {
	noBox := det("Box", 0)
	noBox.BoundingBox = nil
	withBox := det("Box", 85.6)

	assert.Equal(t, 0.0, WidthOf(nil))
	assert.Equal(t, 0.0, WidthOf(&noBox))
	assert.Equal(t, 85.6, WidthOf(&withBox))
}
