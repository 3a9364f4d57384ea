package measurement

import (
	"SizeMeasurement/internal/entity"
	"SizeMeasurement/internal/sizing"
)

type SizeMeasurementConfigs struct {
	ClassLabel1              string   `json:"ClassLabel1" validate:"required"`
	ClassLabel2              string   `json:"ClassLabel2" validate:"required"`
	MeasurementMethod        string   `json:"MeasurementMethod" validate:"required,oneof=ReferenceObjectMethod ReferencePixelToUnitMethod"`
	ReferenceObjectSelection string   `json:"ReferenceObjectSelection,omitempty" validate:"required_if=MeasurementMethod ReferenceObjectMethod,omitempty,oneof=ClassLabel1 ClassLabel2"`
	ReferenceSize            *float64 `json:"ReferenceSize,omitempty" validate:"required_if=MeasurementMethod ReferenceObjectMethod,omitempty,gte=0"`
	Unit                     string   `json:"Unit,omitempty" validate:"omitempty,oneof=cm mm inches"`
	PixelToUnitRatio         *float64 `json:"PixelToUnitRatio,omitempty" validate:"required_if=MeasurementMethod ReferencePixelToUnitMethod,omitempty,gte=0"`
}

// Param exposes the configs through the named-parameter contract used by
// sizing.ConfigFromParams.
func (c SizeMeasurementConfigs) Param(name string) (any, bool) {
	switch name {
	case sizing.ParamClassLabel1:
		return c.ClassLabel1, true
	case sizing.ParamClassLabel2:
		return c.ClassLabel2, true
	case sizing.ParamMeasurementMethod:
		return c.MeasurementMethod, c.MeasurementMethod != ""
	case sizing.ParamReferenceObjectSelection:
		return c.ReferenceObjectSelection, c.ReferenceObjectSelection != ""
	case sizing.ParamReferenceSize:
		if c.ReferenceSize == nil {
			return nil, false
		}
		return *c.ReferenceSize, true
	case sizing.ParamUnit:
		return c.Unit, c.Unit != ""
	case sizing.ParamPixelToUnitRatio:
		if c.PixelToUnitRatio == nil {
			return nil, false
		}
		return *c.PixelToUnitRatio, true
	default:
		return nil, false
	}
}

type SizeMeasurementInputs struct {
	InputDetections []entity.Detection `json:"inputDetections"`
}

type SizeMeasurementRequest struct {
	Configs SizeMeasurementConfigs `json:"configs"`
	Inputs  *SizeMeasurementInputs `json:"inputs,omitempty"`
}

func (r SizeMeasurementRequest) Detections() []entity.Detection {
	if r.Inputs == nil {
		return nil
	}
	return r.Inputs.InputDetections
}

type SizeMeasurementOutputs struct {
	OutputDetections []entity.Detection `json:"outputDetections"`
}

type SizeMeasurementResponse struct {
	Outputs SizeMeasurementOutputs `json:"outputs"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
