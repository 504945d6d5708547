package components

import (
	"fmt"
	"math"

	"image-adjuster/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type sliderControl struct {
	key    models.ParameterKey
	title  string
	slider *widget.Slider
	label  *widget.Label
	value  func(models.AdjustmentParameters) float64
	format func(float64) string
	snap   func(float64) float64
}

func (sc *sliderControl) text(v float64) string {
	return sc.title + ": " + sc.format(v)
}

// ParameterPanel binds one control to each adjustable parameter.
type ParameterPanel struct {
	container        *fyne.Container
	sliders          []*sliderControl
	resolutionSelect *widget.Select
	formatSelect     *widget.Select

	presetLabels map[string]models.Preset
	formatLabels map[string]models.Format

	parameterChangeHandler func(models.ParameterKey, interface{})

	// updating suppresses change events while SetParameters moves the controls.
	updating bool
}

func NewParameterPanel() *ParameterPanel {
	pp := &ParameterPanel{}
	pp.createComponents()
	pp.buildLayout()
	pp.SetParameters(models.DefaultParameters())
	return pp
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

func wholeStep(v float64) float64 {
	return math.Round(v)
}

func tenthStep(v float64) float64 {
	return math.Round(v*10) / 10
}

func (pp *ParameterPanel) createComponents() {
	pp.sliders = []*sliderControl{
		{
			key:    models.KeyBrightness,
			title:  "Brightness",
			slider: widget.NewSlider(0, 200),
			value:  func(p models.AdjustmentParameters) float64 { return p.Brightness },
			format: percent,
			snap:   wholeStep,
		},
		{
			key:    models.KeyContrast,
			title:  "Contrast",
			slider: widget.NewSlider(0, 200),
			value:  func(p models.AdjustmentParameters) float64 { return p.Contrast },
			format: percent,
			snap:   wholeStep,
		},
		{
			key:    models.KeySaturation,
			title:  "Color Saturation",
			slider: widget.NewSlider(0, 200),
			value:  func(p models.AdjustmentParameters) float64 { return p.Saturation },
			format: percent,
			snap:   wholeStep,
		},
		{
			key:    models.KeyBlur,
			title:  "Blur",
			slider: widget.NewSlider(0, 10),
			value:  func(p models.AdjustmentParameters) float64 { return p.Blur },
			format: func(v float64) string { return fmt.Sprintf("%.1fpx", v) },
			snap:   tenthStep,
		},
		{
			key:    models.KeyQuality,
			title:  "Compression Quality",
			slider: widget.NewSlider(0.1, 1),
			value:  func(p models.AdjustmentParameters) float64 { return p.Quality },
			format: func(v float64) string { return percent(v * 100) },
			snap:   tenthStep,
		},
	}

	for _, sc := range pp.sliders {
		sc.label = widget.NewLabel(sc.title)
		if sc.key == models.KeyBlur || sc.key == models.KeyQuality {
			sc.slider.Step = 0.1
		}

		sc.slider.OnChanged = func(v float64) {
			v = sc.snap(v)
			sc.label.SetText(sc.text(v))
			pp.emit(sc.key, v)
		}
	}

	pp.presetLabels = make(map[string]models.Preset, len(models.Presets))
	presetOptions := make([]string, 0, len(models.Presets))
	for _, preset := range models.Presets {
		label := PresetOptionLabel(preset)
		pp.presetLabels[label] = preset
		presetOptions = append(presetOptions, label)
	}
	pp.resolutionSelect = widget.NewSelect(presetOptions, func(label string) {
		if preset, ok := pp.presetLabels[label]; ok {
			pp.emit(models.KeyResolution, preset)
		}
	})

	pp.formatLabels = make(map[string]models.Format, len(models.Formats))
	formatOptions := make([]string, 0, len(models.Formats))
	for _, format := range models.Formats {
		label := FormatOptionLabel(format)
		pp.formatLabels[label] = format
		formatOptions = append(formatOptions, label)
	}
	pp.formatSelect = widget.NewSelect(formatOptions, func(label string) {
		if format, ok := pp.formatLabels[label]; ok {
			pp.emit(models.KeyFormat, format)
		}
	})
}

// PresetOptionLabel renders a preset as "HD (1280x720)".
func PresetOptionLabel(preset models.Preset) string {
	dims, err := models.Resolve(preset)
	if err != nil {
		return string(preset)
	}
	name := preset.Label()
	if preset == models.PresetFullHD {
		name = "Full HD"
	}
	return fmt.Sprintf("%s (%s)", name, dims)
}

func FormatOptionLabel(format models.Format) string {
	if format == models.FormatWEBP {
		return "WebP"
	}
	return string(format)
}

func (pp *ParameterPanel) buildLayout() {
	rows := make([]fyne.CanvasObject, 0, len(pp.sliders)*2+5)
	rows = append(rows, widget.NewRichTextFromMarkdown("**Adjustments**"))

	for _, sc := range pp.sliders {
		if sc.key == models.KeyQuality {
			continue
		}
		rows = append(rows, sc.label, sc.slider)
	}

	rows = append(rows,
		widget.NewSeparator(),
		widget.NewLabel("Image Resolution"), pp.resolutionSelect,
		widget.NewLabel("Image Format"), pp.formatSelect,
	)

	quality := pp.slider(models.KeyQuality)
	rows = append(rows, quality.label, quality.slider)

	pp.container = container.NewVBox(rows...)
}

func (pp *ParameterPanel) emit(key models.ParameterKey, value interface{}) {
	if pp.updating || pp.parameterChangeHandler == nil {
		return
	}
	pp.parameterChangeHandler(key, value)
}

func (pp *ParameterPanel) slider(key models.ParameterKey) *sliderControl {
	for _, sc := range pp.sliders {
		if sc.key == key {
			return sc
		}
	}
	return nil
}

func (pp *ParameterPanel) SetParameterChangeHandler(handler func(models.ParameterKey, interface{})) {
	pp.parameterChangeHandler = handler
}

// SetParameters moves every control to params without emitting change events.
func (pp *ParameterPanel) SetParameters(params models.AdjustmentParameters) {
	pp.updating = true
	defer func() { pp.updating = false }()

	for _, sc := range pp.sliders {
		v := sc.value(params)
		sc.slider.SetValue(v)
		sc.label.SetText(sc.text(v))
	}

	pp.resolutionSelect.SetSelected(PresetOptionLabel(params.Resolution))
	pp.formatSelect.SetSelected(FormatOptionLabel(params.Format))
}

// SetEnabled toggles every control.
func (pp *ParameterPanel) SetEnabled(enabled bool) {
	for _, sc := range pp.sliders {
		setEnabled(sc.slider, enabled)
	}
	setEnabled(pp.resolutionSelect, enabled)
	setEnabled(pp.formatSelect, enabled)
}

func setEnabled(obj fyne.CanvasObject, enabled bool) {
	d, ok := obj.(fyne.Disableable)
	if !ok {
		return
	}
	if enabled {
		d.Enable()
	} else {
		d.Disable()
	}
}

// Slider returns the control bound to key, or nil for the select-backed keys.
func (pp *ParameterPanel) Slider(key models.ParameterKey) *widget.Slider {
	if sc := pp.slider(key); sc != nil {
		return sc.slider
	}
	return nil
}

// SliderText returns the caption currently shown above the slider for key.
func (pp *ParameterPanel) SliderText(key models.ParameterKey) string {
	if sc := pp.slider(key); sc != nil {
		return sc.label.Text
	}
	return ""
}

func (pp *ParameterPanel) ResolutionSelect() *widget.Select {
	return pp.resolutionSelect
}

func (pp *ParameterPanel) FormatSelect() *widget.Select {
	return pp.formatSelect
}

func (pp *ParameterPanel) GetContainer() *fyne.Container {
	return pp.container
}
