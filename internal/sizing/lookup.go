package sizing

import (
	"SizeMeasurement/internal/entity"
	"strings"
)

func matchesLabel(d entity.Detection, label string) bool {
	return strings.EqualFold(d.ClassLabel, label)
}

// FindByLabel returns the first detection whose class label equals label,
// ignoring case.
func FindByLabel(detections []entity.Detection, label string) (entity.Detection, bool) {
	for _, d := range detections {
		if matchesLabel(d, label) {
			return d, true
		}
	}
	return entity.Detection{}, false
}

// WidthOf returns the bounding box width in pixels, or 0 when there is no
// detection or no bounding box.
func WidthOf(d *entity.Detection) float64 {
	if d == nil || d.BoundingBox == nil {
		return 0.0
	}
	return d.BoundingBox.Width
}
