package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrInvalidValue     = errors.New("invalid parameter value")
)

// ParameterKey names one field of AdjustmentParameters.
type ParameterKey string

const (
	KeyBrightness ParameterKey = "brightness"
	KeyContrast   ParameterKey = "contrast"
	KeySaturation ParameterKey = "saturation"
	KeyBlur       ParameterKey = "blur"
	KeyResolution ParameterKey = "resolution"
	KeyFormat     ParameterKey = "format"
	KeyQuality    ParameterKey = "quality"
)

// AdjustmentParameters is the full set of user-tunable values. Percent fields
// are multipliers where 100 is the identity.
type AdjustmentParameters struct {
	Brightness float64 `validate:"min=0,max=200"`
	Contrast   float64 `validate:"min=0,max=200"`
	Saturation float64 `validate:"min=0,max=200"`
	Blur       float64 `validate:"min=0,max=10"`
	Resolution Preset  `validate:"oneof=SD HD FULL_HD"`
	Format     Format  `validate:"oneof=PNG JPEG WEBP"`
	Quality    float64 `validate:"min=0.1,max=1"`
}

// DefaultParameters returns the fixed default set.
func DefaultParameters() AdjustmentParameters {
	return AdjustmentParameters{
		Brightness: 100,
		Contrast:   100,
		Saturation: 100,
		Blur:       0,
		Resolution: PresetHD,
		Format:     FormatPNG,
		Quality:    0.9,
	}
}

// With returns a copy of p with the single field named by key replaced.
// Only the Go type of value is checked; ranges are left to the caller.
func (p AdjustmentParameters) With(key ParameterKey, value interface{}) (AdjustmentParameters, error) {
	switch key {
	case KeyBrightness, KeyContrast, KeySaturation, KeyBlur, KeyQuality:
		f, ok := toFloat(value)
		if !ok {
			return p, fmt.Errorf("%w: %s expects a number, got %T", ErrInvalidValue, key, value)
		}
		switch key {
		case KeyBrightness:
			p.Brightness = f
		case KeyContrast:
			p.Contrast = f
		case KeySaturation:
			p.Saturation = f
		case KeyBlur:
			p.Blur = f
		case KeyQuality:
			p.Quality = f
		}
	case KeyResolution:
		switch v := value.(type) {
		case Preset:
			p.Resolution = v
		case string:
			preset, err := ParsePreset(v)
			if err != nil {
				return p, fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
			p.Resolution = preset
		default:
			return p, fmt.Errorf("%w: %s expects a preset, got %T", ErrInvalidValue, key, value)
		}
	case KeyFormat:
		switch v := value.(type) {
		case Format:
			p.Format = v
		case string:
			format, err := ParseFormat(v)
			if err != nil {
				return p, fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
			p.Format = format
		default:
			return p, fmt.Errorf("%w: %s expects a format, got %T", ErrInvalidValue, key, value)
		}
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	return p, nil
}

var paramValidator = validator.New()

// Validate reports fields outside their declared ranges. Nothing in the
// update path calls it; out-of-range values are still applied.
func (p AdjustmentParameters) Validate() error {
	return paramValidator.Struct(p)
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
