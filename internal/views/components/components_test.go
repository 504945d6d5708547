package components

import (
	"image"
	"testing"

	"image-adjuster/internal/models"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type change struct {
	key   models.ParameterKey
	value interface{}
}

func recordChanges(pp *ParameterPanel) *[]change {
	var changes []change
	pp.SetParameterChangeHandler(func(key models.ParameterKey, value interface{}) {
		changes = append(changes, change{key: key, value: value})
	})
	return &changes
}

func TestParameterPanel_ShowsDefaults(t *testing.T) {
	test.NewApp()
	pp := NewParameterPanel()

	assert.Equal(t, 100.0, pp.Slider(models.KeyBrightness).Value)
	assert.Equal(t, 0.0, pp.Slider(models.KeyBlur).Value)
	assert.InDelta(t, 0.9, pp.Slider(models.KeyQuality).Value, 1e-9)

	assert.Equal(t, "Brightness: 100%", pp.SliderText(models.KeyBrightness))
	assert.Equal(t, "Color Saturation: 100%", pp.SliderText(models.KeySaturation))
	assert.Equal(t, "Blur: 0.0px", pp.SliderText(models.KeyBlur))
	assert.Equal(t, "Compression Quality: 90%", pp.SliderText(models.KeyQuality))

	assert.Equal(t, "HD (1280x720)", pp.ResolutionSelect().Selected)
	assert.Equal(t, "PNG", pp.FormatSelect().Selected)
}

func TestParameterPanel_SliderEmitsSnappedValue(t *testing.T) {
	test.NewApp()
	pp := NewParameterPanel()
	changes := recordChanges(pp)

	pp.Slider(models.KeyBrightness).OnChanged(130.4)
	pp.Slider(models.KeyBlur).OnChanged(2.2999999)

	require.Len(t, *changes, 2)
	assert.Equal(t, change{key: models.KeyBrightness, value: 130.0}, (*changes)[0])
	assert.Equal(t, models.KeyBlur, (*changes)[1].key)
	assert.InDelta(t, 2.3, (*changes)[1].value, 1e-9)

	assert.Equal(t, "Brightness: 130%", pp.SliderText(models.KeyBrightness))
	assert.Equal(t, "Blur: 2.3px", pp.SliderText(models.KeyBlur))
}

func TestParameterPanel_SelectsEmitTypedValues(t *testing.T) {
	test.NewApp()
	pp := NewParameterPanel()
	changes := recordChanges(pp)

	pp.ResolutionSelect().SetSelected("Full HD (1920x1080)")
	pp.FormatSelect().SetSelected("WebP")

	assert.Equal(t, []change{
		{key: models.KeyResolution, value: models.PresetFullHD},
		{key: models.KeyFormat, value: models.FormatWEBP},
	}, *changes)
}

func TestParameterPanel_SetParametersIsSilent(t *testing.T) {
	test.NewApp()
	pp := NewParameterPanel()
	changes := recordChanges(pp)

	params := models.DefaultParameters()
	params.Contrast = 40
	params.Resolution = models.PresetSD
	params.Format = models.FormatJPEG
	params.Quality = 0.5

	pp.SetParameters(params)

	assert.Empty(t, *changes)
	assert.Equal(t, 40.0, pp.Slider(models.KeyContrast).Value)
	assert.Equal(t, "Contrast: 40%", pp.SliderText(models.KeyContrast))
	assert.Equal(t, "Compression Quality: 50%", pp.SliderText(models.KeyQuality))
	assert.Equal(t, "SD (640x480)", pp.ResolutionSelect().Selected)
	assert.Equal(t, "JPEG", pp.FormatSelect().Selected)

	pp.Slider(models.KeyContrast).OnChanged(41)
	assert.Len(t, *changes, 1)
}

func TestOptionLabels(t *testing.T) {
	assert.Equal(t, "SD (640x480)", PresetOptionLabel(models.PresetSD))
	assert.Equal(t, "HD (1280x720)", PresetOptionLabel(models.PresetHD))
	assert.Equal(t, "Full HD (1920x1080)", PresetOptionLabel(models.PresetFullHD))
	assert.Equal(t, "4K", PresetOptionLabel(models.Preset("4K")))

	assert.Equal(t, "PNG", FormatOptionLabel(models.FormatPNG))
	assert.Equal(t, "JPEG", FormatOptionLabel(models.FormatJPEG))
	assert.Equal(t, "WebP", FormatOptionLabel(models.FormatWEBP))
}

func TestToolbar_ButtonsGatedOnImage(t *testing.T) {
	test.NewApp()
	tb := NewToolbar()

	var opened, saved, reset int
	tb.SetOpenHandler(func() { opened++ })
	tb.SetSaveHandler(func() { saved++ })
	tb.SetResetHandler(func() { reset++ })

	test.Tap(tb.OpenButton())
	test.Tap(tb.SaveButton())
	test.Tap(tb.ResetButton())
	assert.Equal(t, []int{1, 0, 0}, []int{opened, saved, reset})

	tb.EnableImageOperations(true)
	test.Tap(tb.SaveButton())
	test.Tap(tb.ResetButton())
	assert.Equal(t, []int{1, 1, 1}, []int{opened, saved, reset})

	tb.EnableImageOperations(false)
	assert.True(t, tb.SaveButton().Disabled())
	assert.True(t, tb.ResetButton().Disabled())
}

func TestImageDisplay_PlaceholderWhenNil(t *testing.T) {
	test.NewApp()
	id := NewImageDisplay()

	assert.False(t, id.HasOriginalImage())
	assert.Nil(t, id.PreviewImage())

	preview := image.NewRGBA(image.Rect(0, 0, 64, 48))
	id.SetOriginalImage(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	id.SetPreviewImage(preview)

	assert.True(t, id.HasOriginalImage())
	assert.Same(t, preview, id.PreviewImage())

	id.SetPreviewImage(nil)
	assert.False(t, id.HasPreviewImage())
	assert.Nil(t, id.PreviewImage())
}

func TestInfoPanel_Placeholders(t *testing.T) {
	test.NewApp()
	ip := NewInfoPanel()

	assert.Equal(t, models.DisplayInfo{}, ip.Info())
	assert.Equal(t, "--", ip.originalSize.Text)

	info := models.DisplayInfo{OriginalSize: "100 x 100", ProcessedSize: "640 x 480", MimeType: "image/png"}
	ip.SetInfo(info)
	assert.Equal(t, info, ip.Info())
	assert.Equal(t, "640 x 480", ip.processedSize.Text)
}

func TestStatusBar(t *testing.T) {
	test.NewApp()
	sb := NewStatusBar()

	assert.Equal(t, "Ready", sb.GetStatus())
	sb.SetStatus("Loaded photo.png")
	assert.Equal(t, "Loaded photo.png", sb.GetStatus())
}
