// Package sizing annotates detections with a real-world size, either by
// calibrating against a reference object of known size or by applying a fixed
// pixel-to-unit ratio.
//
// Every function in this package is pure: inputs are never mutated, measured
// detections are new values and untouched detections are returned as they
// were received. Missing or degenerate measurement inputs are not errors, the
// detections simply come back unchanged.
package sizing

const (
	MethodReferenceObject = "ReferenceObjectMethod"
	MethodPixelToUnit     = "ReferencePixelToUnitMethod"
)

// Selection names which of the two configured class labels is the reference
// object.
type Selection string

const (
	SelectClassLabel1 Selection = "ClassLabel1"
	SelectClassLabel2 Selection = "ClassLabel2"
)

// Method is one of ReferenceObject or PixelToUnit.
type Method interface {
	Name() string
	method()
}

// ReferenceObject derives the pixel ratio from a detection whose real width is
// ReferenceSize.
type ReferenceObject struct {
	Selection     Selection
	ReferenceSize float64
	Unit          string
}

func (ReferenceObject) Name() string { return MethodReferenceObject }
func (ReferenceObject) method()      {}

// PixelToUnit applies Ratio units per pixel to every matching detection.
type PixelToUnit struct {
	Ratio float64
	Unit  string
}

func (PixelToUnit) Name() string { return MethodPixelToUnit }
func (PixelToUnit) method()      {}

// Config is the per-invocation measurement configuration. A nil Method leaves
// detections unchanged.
type Config struct {
	ClassLabel1 string
	ClassLabel2 string
	Method      Method
}

// labels resolves the reference and target labels for the reference object
// method. Any selection other than ClassLabel1 picks ClassLabel2.
func (c Config) labels(sel Selection) (reference, target string) {
	if sel == SelectClassLabel1 {
		return c.ClassLabel1, c.ClassLabel2
	}
	return c.ClassLabel2, c.ClassLabel1
}
