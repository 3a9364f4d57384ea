package sizing

import (
	"SizeMeasurement/internal/entity"
)

type Outcome int

const (
	Unchanged Outcome = iota
	Measured
)

func (o Outcome) String() string {
	if o == Measured {
		return "measured"
	}
	return "unchanged"
}

// Reason explains an Unchanged outcome.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonNoDetections       Reason = "no detections"
	ReasonUnknownMethod      Reason = "unknown measurement method"
	ReasonReferenceMissing   Reason = "reference object not detected"
	ReasonTargetMissing      Reason = "target object not detected"
	ReasonZeroReferenceWidth Reason = "reference object has zero width"
	ReasonNoMatchingLabels   Reason = "no detection matches the configured labels"
)

// Result is the output list together with what happened to it. Callers that
// only need the detections should use ComputeSizes.
type Result struct {
	Detections []entity.Detection
	Outcome    Outcome
	Reason     Reason
	Annotated  int
}

func unchanged(detections []entity.Detection, reason Reason) Result {
	return Result{Detections: detections, Outcome: Unchanged, Reason: reason}
}

type Option func(*Calculator)

// WithKeptFields lists extra detection members, beyond the fixed base set,
// that a measured copy keeps from its source detection.
func WithKeptFields(fields ...string) Option {
	return func(c *Calculator) {
		c.annotator.keep = append(c.annotator.keep[:0:0], fields...)
	}
}

// Calculator holds only immutable annotation settings and is safe for
// concurrent use.
type Calculator struct {
	annotator annotator
}

func NewCalculator(options ...Option) *Calculator {
	c := &Calculator{}
	for _, option := range options {
		option(c)
	}
	return c
}

var defaultCalculator = NewCalculator()

// ComputeSizes measures detections with the default calculator.
func ComputeSizes(detections []entity.Detection, cfg Config) []entity.Detection {
	return defaultCalculator.ComputeSizes(detections, cfg)
}

func (c *Calculator) ComputeSizes(detections []entity.Detection, cfg Config) []entity.Detection {
	return c.Measure(detections, cfg).Detections
}

func (c *Calculator) Measure(detections []entity.Detection, cfg Config) Result {
	if len(detections) == 0 {
		return unchanged(detections, ReasonNoDetections)
	}

	switch method := cfg.Method.(type) {
	case ReferenceObject:
		return c.measureByReference(detections, cfg, method)
	case *ReferenceObject:
		if method != nil {
			return c.measureByReference(detections, cfg, *method)
		}
	case PixelToUnit:
		return c.measureByRatio(detections, cfg, method)
	case *PixelToUnit:
		if method != nil {
			return c.measureByRatio(detections, cfg, *method)
		}
	}

	return unchanged(detections, ReasonUnknownMethod)
}

func (c *Calculator) measureByReference(detections []entity.Detection, cfg Config, method ReferenceObject) Result {
	referenceLabel, targetLabel := cfg.labels(method.Selection)

	reference, ok := FindByLabel(detections, referenceLabel)
	if !ok {
		return unchanged(detections, ReasonReferenceMissing)
	}
	target, ok := FindByLabel(detections, targetLabel)
	if !ok {
		return unchanged(detections, ReasonTargetMissing)
	}

	referenceWidth := WidthOf(&reference)
	if referenceWidth == 0 {
		return unchanged(detections, ReasonZeroReferenceWidth)
	}

	targetSize := method.ReferenceSize * (WidthOf(&target) / referenceWidth)

	// the ratio uses the first match of each label, but every match is annotated
	result := Result{Detections: make([]entity.Detection, 0, len(detections)), Outcome: Measured}
	for _, d := range detections {
		switch {
		case matchesLabel(d, referenceLabel):
			d = c.annotator.annotate(d, method.ReferenceSize, method.Unit)
			result.Annotated++
		case matchesLabel(d, targetLabel):
			d = c.annotator.annotate(d, targetSize, method.Unit)
			result.Annotated++
		}
		result.Detections = append(result.Detections, d)
	}

	return result
}

func (c *Calculator) measureByRatio(detections []entity.Detection, cfg Config, method PixelToUnit) Result {
	result := Result{Detections: make([]entity.Detection, 0, len(detections)), Outcome: Measured}
	for _, d := range detections {
		if matchesLabel(d, cfg.ClassLabel1) || matchesLabel(d, cfg.ClassLabel2) {
			d = c.annotator.annotate(d, WidthOf(&d)*method.Ratio, method.Unit)
			result.Annotated++
		}
		result.Detections = append(result.Detections, d)
	}

	if result.Annotated == 0 {
		result.Outcome = Unchanged
		result.Reason = ReasonNoMatchingLabels
	}

	return result
}
