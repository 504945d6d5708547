package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownPreset = errors.New("unknown resolution preset")
	ErrUnknownFormat = errors.New("unknown output format")
)

// Preset selects a fixed output resolution.
type Preset string

const (
	PresetSD     Preset = "SD"
	PresetHD     Preset = "HD"
	PresetFullHD Preset = "FULL_HD"
)

// Presets lists every preset in display order.
var Presets = []Preset{PresetSD, PresetHD, PresetFullHD}

// Dimensions is a pixel size.
type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Display is the spaced form shown in the info panel, e.g. "640 x 480".
func (d Dimensions) Display() string {
	return fmt.Sprintf("%d x %d", d.Width, d.Height)
}

func (d Dimensions) IsZero() bool {
	return d.Width == 0 && d.Height == 0
}

var resolutionTable = map[Preset]Dimensions{
	PresetSD:     {Width: 640, Height: 480},
	PresetHD:     {Width: 1280, Height: 720},
	PresetFullHD: {Width: 1920, Height: 1080},
}

// Resolve maps a preset to its output dimensions.
func Resolve(preset Preset) (Dimensions, error) {
	dims, ok := resolutionTable[preset]
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: %q", ErrUnknownPreset, string(preset))
	}
	return dims, nil
}

// Label is the human-readable name used in the UI and in export file names.
func (p Preset) Label() string {
	if p == PresetFullHD {
		return "FULL HD"
	}
	return string(p)
}

// ParsePreset accepts either the identifier or the label, case-insensitively.
func ParsePreset(s string) (Preset, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	preset := Preset(normalized)
	if _, ok := resolutionTable[preset]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
	}
	return preset, nil
}

// Format selects the export encoding.
type Format string

const (
	FormatPNG  Format = "PNG"
	FormatJPEG Format = "JPEG"
	FormatWEBP Format = "WEBP"
)

// Formats lists every format in display order.
var Formats = []Format{FormatPNG, FormatJPEG, FormatWEBP}

// ParseFormat accepts a format name in any case, plus the common "jpg" alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PNG":
		return FormatPNG, nil
	case "JPEG", "JPG":
		return FormatJPEG, nil
	case "WEBP":
		return FormatWEBP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension is the lower-case file extension without a dot.
func (f Format) Extension() string {
	return strings.ToLower(string(f))
}

// MimeType is the media type written for this format.
func (f Format) MimeType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatWEBP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// UsesQuality reports whether the encoder honours the quality setting.
func (f Format) UsesQuality() bool {
	return f == FormatJPEG || f == FormatWEBP
}

// ExportFileName builds the suggested download name for a preset and format.
func ExportFileName(preset Preset, format Format) string {
	return fmt.Sprintf("edited_image_%s.%s", preset.Label(), format.Extension())
}
