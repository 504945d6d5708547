package components

import (
	"image-adjuster/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const notAvailable = "--"

// StatusBar displays the latest status message.
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.statusLabel = widget.NewLabel("Ready")
	sb.statusLabel.Truncation = fyne.TextTruncateEllipsis
	sb.container = container.NewStack(sb.statusLabel)
	return sb
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// InfoPanel is the read-only summary of the loaded image and the render output.
type InfoPanel struct {
	container     *fyne.Container
	originalSize  *widget.Label
	processedSize *widget.Label
	fileType      *widget.Label
}

func NewInfoPanel() *InfoPanel {
	ip := &InfoPanel{
		originalSize:  widget.NewLabel(""),
		processedSize: widget.NewLabel(""),
		fileType:      widget.NewLabel(""),
	}

	ip.container = container.New(
		layout.NewFormLayout(),
		widget.NewLabel("Original Resolution:"), ip.originalSize,
		widget.NewLabel("Processed Resolution:"), ip.processedSize,
		widget.NewLabel("File Type:"), ip.fileType,
	)

	ip.SetInfo(models.DisplayInfo{})
	return ip
}

// SetInfo shows info, rendering empty fields as "--".
func (ip *InfoPanel) SetInfo(info models.DisplayInfo) {
	ip.originalSize.SetText(orPlaceholder(info.OriginalSize))
	ip.processedSize.SetText(orPlaceholder(info.ProcessedSize))
	ip.fileType.SetText(orPlaceholder(info.MimeType))
}

// Info returns the values currently shown, with placeholders mapped back to empty strings.
func (ip *InfoPanel) Info() models.DisplayInfo {
	return models.DisplayInfo{
		OriginalSize:  fromPlaceholder(ip.originalSize.Text),
		ProcessedSize: fromPlaceholder(ip.processedSize.Text),
		MimeType:      fromPlaceholder(ip.fileType.Text),
	}
}

func (ip *InfoPanel) GetContainer() *fyne.Container {
	return ip.container
}

func orPlaceholder(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func fromPlaceholder(s string) string {
	if s == notAvailable {
		return ""
	}
	return s
}
