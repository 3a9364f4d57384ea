package entity

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// knownDetectionFields are the members decoded into typed fields; everything
// else lands in Detection.Extra.
var knownDetectionFields = []string{"classLabel", "classId", "confidence", "boundingBox", "size", "unit"}

// BoundingBox is the typed view of a detection's box. Members other than
// these four are kept only through Detection.Raw.
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Detection is one object-detector output. Size and Unit are set only on
// detections that have been measured.
//
// Raw holds the complete JSON object the detection was decoded from, or the
// object built for a measured copy. When Raw is set MarshalJSON writes it
// unchanged, so clear it after editing the typed fields.
type Detection struct {
	ClassLabel  string       `json:"classLabel"`
	ClassID     any          `json:"classId,omitempty"`
	Confidence  float64      `json:"confidence"`
	BoundingBox *BoundingBox `json:"boundingBox,omitempty"`
	Size        *float64     `json:"size,omitempty"`
	Unit        *string      `json:"unit,omitempty"`

	Extra map[string]jsoniter.RawMessage `json:"-"`
	Raw   jsoniter.RawMessage            `json:"-"`
}

type detectionFields Detection

func (d Detection) Measured() bool {
	return d.Size != nil
}

// Members returns the top-level members of Raw, or nil when the detection has
// no wire form of its own.
func (d Detection) Members() map[string]jsoniter.RawMessage {
	if len(d.Raw) == 0 {
		return nil
	}

	var members map[string]jsoniter.RawMessage
	if err := json.Unmarshal(d.Raw, &members); err != nil {
		return nil
	}
	return members
}

func (d *Detection) UnmarshalJSON(data []byte) error {
	var fields detectionFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range knownDetectionFields {
		delete(raw, key)
	}

	if len(raw) > 0 {
		fields.Extra = make(map[string]jsoniter.RawMessage, len(raw))
		for key, value := range raw {
			fields.Extra[key] = append(jsoniter.RawMessage(nil), value...)
		}
	}
	fields.Raw = append(jsoniter.RawMessage(nil), data...)

	*d = Detection(fields)
	return nil
}

func (d Detection) MarshalJSON() ([]byte, error) {
	if len(d.Raw) > 0 {
		return d.Raw, nil
	}

	base, err := json.Marshal(detectionFields(d))
	if err != nil {
		return nil, err
	}

	// a measured detection always reports its unit, null when none was configured
	nullUnit := d.Measured() && d.Unit == nil
	if len(d.Extra) == 0 && !nullUnit {
		return base, nil
	}

	var known map[string]jsoniter.RawMessage
	if err := json.Unmarshal(base, &known); err != nil {
		return nil, err
	}

	merged := make(map[string]jsoniter.RawMessage, len(d.Extra)+len(known)+1)
	for key, value := range d.Extra {
		merged[key] = value
	}
	for key, value := range known {
		merged[key] = value
	}
	if nullUnit {
		merged["unit"] = jsoniter.RawMessage("null")
	}

	return json.Marshal(merged)
}
