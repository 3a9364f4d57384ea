package sizing

import (
	"SizeMeasurement/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// baseMembers are carried by every measured copy, as they appear in the source.
var baseMembers = []string{"boundingBox", "confidence", "classLabel", "classId"}

// annotator builds measured copies of detections. The copy always carries
// boundingBox, confidence, classLabel and classId; other members of the source
// are carried only when listed in keep.
type annotator struct {
	keep []string
}

func (a annotator) annotate(src entity.Detection, size float64, unit string) entity.Detection {
	out := entity.Detection{
		ClassLabel: src.ClassLabel,
		ClassID:    src.ClassID,
		Confidence: src.Confidence,
		Size:       &size,
	}
	if src.BoundingBox != nil {
		box := *src.BoundingBox
		out.BoundingBox = &box
	}
	if unit != "" {
		out.Unit = &unit
	}

	for _, key := range a.keep {
		value, ok := src.Extra[key]
		if !ok {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]jsoniter.RawMessage, len(a.keep))
		}
		out.Extra[key] = value
	}

	if members := src.Members(); members != nil {
		out.Raw = a.wireForm(members, out)
	}

	return out
}

// wireForm copies the source's own member values into the measured copy so
// nested box members and non-numeric identifiers survive. Members the source
// lacks stay absent.
func (a annotator) wireForm(members map[string]jsoniter.RawMessage, out entity.Detection) jsoniter.RawMessage {
	obj := make(map[string]jsoniter.RawMessage, len(baseMembers)+len(a.keep)+2)
	for _, key := range baseMembers {
		if value, ok := members[key]; ok {
			obj[key] = value
		}
	}
	for key, value := range out.Extra {
		obj[key] = value
	}

	size, err := json.Marshal(*out.Size)
	if err != nil {
		return nil
	}
	obj["size"] = size
	obj["unit"] = jsoniter.RawMessage("null")
	if out.Unit != nil {
		unit, err := json.Marshal(*out.Unit)
		if err != nil {
			return nil
		}
		obj["unit"] = unit
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil
	}
	return data
}
