package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the open, save and reset actions.
type Toolbar struct {
	container   *fyne.Container
	openButton  *widget.Button
	saveButton  *widget.Button
	resetButton *widget.Button

	openHandler  func()
	saveHandler  func()
	resetHandler func()
}

func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	toolbar.setupEventHandlers()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.openButton = widget.NewButtonWithIcon("Open Image", theme.FolderOpenIcon(), nil)
	t.openButton.Importance = widget.HighImportance

	t.saveButton = widget.NewButtonWithIcon("Save Image", theme.DocumentSaveIcon(), nil)
	t.saveButton.Importance = widget.HighImportance
	t.saveButton.Disable()

	t.resetButton = widget.NewButtonWithIcon("Reset Image", theme.ViewRefreshIcon(), nil)
	t.resetButton.Importance = widget.MediumImportance
	t.resetButton.Disable()
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.openButton,
		widget.NewSeparator(),
		t.saveButton,
		t.resetButton,
	)
}

func (t *Toolbar) setupEventHandlers() {
	t.openButton.OnTapped = func() {
		if t.openHandler != nil {
			t.openHandler()
		}
	}

	t.saveButton.OnTapped = func() {
		if t.saveHandler != nil {
			t.saveHandler()
		}
	}

	t.resetButton.OnTapped = func() {
		if t.resetHandler != nil {
			t.resetHandler()
		}
	}
}

func (t *Toolbar) SetOpenHandler(handler func()) {
	t.openHandler = handler
}

func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

func (t *Toolbar) SetResetHandler(handler func()) {
	t.resetHandler = handler
}

// EnableImageOperations toggles the actions that need a loaded image.
func (t *Toolbar) EnableImageOperations(enabled bool) {
	if enabled {
		t.saveButton.Enable()
		t.resetButton.Enable()
		return
	}
	t.saveButton.Disable()
	t.resetButton.Disable()
}

func (t *Toolbar) OpenButton() *widget.Button {
	return t.openButton
}

func (t *Toolbar) SaveButton() *widget.Button {
	return t.saveButton
}

func (t *Toolbar) ResetButton() *widget.Button {
	return t.resetButton
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
