package components

import (
	"image"
	"image/color"
	"image/draw"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 480
	ImageAreaHeight = 360
)

// ImageDisplay shows the original thumbnail next to the rendered preview.
type ImageDisplay struct {
	container    *container.Split
	originalPane *canvas.Image
	previewPane  *canvas.Image

	placeholder image.Image

	hasOriginal bool
	hasPreview  bool
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents() {
	id.placeholder = createPlaceholderImage()

	id.originalPane = newImagePane(id.placeholder)
	id.previewPane = newImagePane(id.placeholder)
}

func newImagePane(img image.Image) *canvas.Image {
	pane := canvas.NewImageFromImage(img)
	pane.FillMode = canvas.ImageFillContain
	pane.ScaleMode = canvas.ImageScaleSmooth
	pane.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
	return pane
}

// createPlaceholderImage draws a light grey panel with a one pixel border.
func createPlaceholderImage() image.Image {
	bounds := image.Rect(0, 0, ImageAreaWidth, ImageAreaHeight)
	img := image.NewRGBA(bounds)

	draw.Draw(img, bounds, &image.Uniform{C: color.RGBA{R: 200, G: 200, B: 200, A: 255}}, image.Point{}, draw.Src)
	draw.Draw(img, bounds.Inset(1), &image.Uniform{C: color.RGBA{R: 240, G: 240, B: 240, A: 255}}, image.Point{}, draw.Src)

	return img
}

func (id *ImageDisplay) setupLayout() {
	originalContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Original**"),
		nil, nil, nil,
		container.NewStack(
			canvas.NewRectangle(color.RGBA{R: 252, G: 252, B: 252, A: 255}),
			id.originalPane,
		),
	)

	previewContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Preview**"),
		nil, nil, nil,
		container.NewStack(
			canvas.NewRectangle(color.RGBA{R: 252, G: 252, B: 252, A: 255}),
			id.previewPane,
		),
	)

	id.container = container.NewHSplit(originalContainer, previewContainer)
	id.container.SetOffset(0.5)
}

// SetOriginalImage shows img in the original pane, or the placeholder when img is nil.
func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	id.hasOriginal = img != nil
	if img == nil {
		img = id.placeholder
	}
	id.originalPane.Image = img
	id.originalPane.Refresh()
}

// SetPreviewImage shows img in the preview pane, or the placeholder when img is nil.
func (id *ImageDisplay) SetPreviewImage(img image.Image) {
	id.hasPreview = img != nil
	if img == nil {
		img = id.placeholder
	}
	id.previewPane.Image = img
	id.previewPane.Refresh()
}

func (id *ImageDisplay) HasOriginalImage() bool {
	return id.hasOriginal
}

func (id *ImageDisplay) HasPreviewImage() bool {
	return id.hasPreview
}

// PreviewImage returns the image currently in the preview pane, or nil when
// the placeholder is showing.
func (id *ImageDisplay) PreviewImage() image.Image {
	if !id.hasPreview {
		return nil
	}
	return id.previewPane.Image
}

func (id *ImageDisplay) GetContainer() fyne.CanvasObject {
	return id.container
}
