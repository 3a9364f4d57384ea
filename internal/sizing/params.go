package sizing

import (
	"errors"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

const (
	ParamClassLabel1              = "ClassLabel1"
	ParamClassLabel2              = "ClassLabel2"
	ParamMeasurementMethod        = "MeasurementMethod"
	ParamReferenceObjectSelection = "ReferenceObjectSelection"
	ParamReferenceSize            = "ReferenceSize"
	ParamUnit                     = "Unit"
	ParamPixelToUnitRatio         = "PixelToUnitRatio"
)

var (
	ErrInvalidParam = errors.New("invalid parameter")
	ErrMissingParam = errors.New("missing parameter")
)

// ParamSource is the named-parameter accessor of a component request.
type ParamSource interface {
	Param(name string) (any, bool)
}

// ConfigFromParams builds a Config from named parameters. An absent or
// unrecognized MeasurementMethod yields a nil Method rather than an error.
func ConfigFromParams(params ParamSource) (Config, error) {
	var cfg Config
	var err error

	if cfg.ClassLabel1, err = optionalString(params, ParamClassLabel1); err != nil {
		return Config{}, err
	}
	if cfg.ClassLabel2, err = optionalString(params, ParamClassLabel2); err != nil {
		return Config{}, err
	}

	methodName, err := optionalString(params, ParamMeasurementMethod)
	if err != nil {
		return Config{}, err
	}

	switch methodName {
	case MethodReferenceObject:
		method := ReferenceObject{}
		selection, err := optionalString(params, ParamReferenceObjectSelection)
		if err != nil {
			return Config{}, err
		}
		method.Selection = Selection(selection)
		if method.ReferenceSize, err = requiredNumber(params, ParamReferenceSize); err != nil {
			return Config{}, err
		}
		if method.Unit, err = optionalString(params, ParamUnit); err != nil {
			return Config{}, err
		}
		cfg.Method = method
	case MethodPixelToUnit:
		method := PixelToUnit{}
		if method.Ratio, err = requiredNumber(params, ParamPixelToUnitRatio); err != nil {
			return Config{}, err
		}
		if method.Unit, err = optionalString(params, ParamUnit); err != nil {
			return Config{}, err
		}
		cfg.Method = method
	}

	return cfg, nil
}

func optionalString(params ParamSource, name string) (string, error) {
	value, ok := params.Param(name)
	if !ok || value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidParam, name, value)
	}
	return s, nil
}

func requiredNumber(params ParamSource, name string) (float64, error) {
	value, ok := params.Param(name)
	if !ok || value == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, name)
	}

	switch v := value.(type) {
	case float64:
		return v, nil
	case *float64:
		if v == nil {
			return 0, fmt.Errorf("%w: %s", ErrMissingParam, name)
		}
		return *v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case jsoniter.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not a number: %q", ErrInvalidParam, name, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidParam, name, value)
	}
}
