package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()

	assert.Equal(t, 100.0, p.Brightness)
	assert.Equal(t, 100.0, p.Contrast)
	assert.Equal(t, 100.0, p.Saturation)
	assert.Equal(t, 0.0, p.Blur)
	assert.Equal(t, PresetHD, p.Resolution)
	assert.Equal(t, FormatPNG, p.Format)
	assert.Equal(t, 0.9, p.Quality)
	assert.NoError(t, p.Validate())
}

func TestWith_ReplacesSingleField(t *testing.T) {
	tests := []struct {
		name   string
		key    ParameterKey
		value  interface{}
		expect func(p *AdjustmentParameters)
	}{
		{name: "brightness float", key: KeyBrightness, value: 150.0, expect: func(p *AdjustmentParameters) { p.Brightness = 150 }},
		{name: "contrast int", key: KeyContrast, value: 20, expect: func(p *AdjustmentParameters) { p.Contrast = 20 }},
		{name: "saturation", key: KeySaturation, value: float32(0), expect: func(p *AdjustmentParameters) { p.Saturation = 0 }},
		{name: "blur", key: KeyBlur, value: 2.5, expect: func(p *AdjustmentParameters) { p.Blur = 2.5 }},
		{name: "quality", key: KeyQuality, value: 0.4, expect: func(p *AdjustmentParameters) { p.Quality = 0.4 }},
		{name: "preset value", key: KeyResolution, value: PresetSD, expect: func(p *AdjustmentParameters) { p.Resolution = PresetSD }},
		{name: "preset label", key: KeyResolution, value: "FULL HD", expect: func(p *AdjustmentParameters) { p.Resolution = PresetFullHD }},
		{name: "format value", key: KeyFormat, value: FormatWEBP, expect: func(p *AdjustmentParameters) { p.Format = FormatWEBP }},
		{name: "format alias", key: KeyFormat, value: "jpg", expect: func(p *AdjustmentParameters) { p.Format = FormatJPEG }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := DefaultParameters()
			got, err := base.With(tt.key, tt.value)
			require.NoError(t, err)

			want := DefaultParameters()
			tt.expect(&want)
			assert.Equal(t, want, got)
			assert.Equal(t, DefaultParameters(), base, "receiver must not change")
		})
	}
}

func TestWith_DoesNotCheckRanges(t *testing.T) {
	p, err := DefaultParameters().With(KeyBrightness, 500.0)
	require.NoError(t, err)
	assert.Equal(t, 500.0, p.Brightness)
	assert.Error(t, p.Validate())
}

func TestWith_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     ParameterKey
		value   interface{}
		wantErr error
	}{
		{name: "unknown key", key: "gamma", value: 1.0, wantErr: ErrUnknownParameter},
		{name: "string for number", key: KeyBlur, value: "3", wantErr: ErrInvalidValue},
		{name: "bad preset", key: KeyResolution, value: "4K", wantErr: ErrInvalidValue},
		{name: "bad format", key: KeyFormat, value: "gif", wantErr: ErrInvalidValue},
		{name: "number for format", key: KeyFormat, value: 3, wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DefaultParameters().With(tt.key, tt.value)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, DefaultParameters(), p)
		})
	}
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *AdjustmentParameters)
		valid  bool
	}{
		{name: "upper bounds", mutate: func(p *AdjustmentParameters) {
			p.Brightness, p.Contrast, p.Saturation, p.Blur, p.Quality = 200, 200, 200, 10, 1
		}, valid: true},
		{name: "lower bounds", mutate: func(p *AdjustmentParameters) {
			p.Brightness, p.Contrast, p.Saturation, p.Blur, p.Quality = 0, 0, 0, 0, 0.1
		}, valid: true},
		{name: "blur too high", mutate: func(p *AdjustmentParameters) { p.Blur = 11 }},
		{name: "quality too low", mutate: func(p *AdjustmentParameters) { p.Quality = 0.05 }},
		{name: "negative contrast", mutate: func(p *AdjustmentParameters) { p.Contrast = -1 }},
		{name: "unknown preset", mutate: func(p *AdjustmentParameters) { p.Resolution = "4K" }},
		{name: "unknown format", mutate: func(p *AdjustmentParameters) { p.Format = "GIF" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			if tt.valid {
				assert.NoError(t, p.Validate())
			} else {
				assert.Error(t, p.Validate())
			}
		})
	}
}
