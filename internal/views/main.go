package views

import (
	"fmt"
	"image"
	"io"

	"image-adjuster/internal/models"
	"image-adjuster/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// MainView is the single window of the application. Its methods must run on
// the fyne main thread; the controller dispatches them there.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	imageDisplay  *components.ImageDisplay
	paramPanel    *components.ParameterPanel
	infoPanel     *components.InfoPanel
	statusBar     *components.StatusBar

	loadImageHandler       func()
	saveImageHandler       func()
	resetHandler           func()
	parameterChangeHandler func(models.ParameterKey, interface{})
}

func NewMainView(window fyne.Window) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupMenus()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.toolbar = components.NewToolbar()
	mv.imageDisplay = components.NewImageDisplay()
	mv.paramPanel = components.NewParameterPanel()
	mv.infoPanel = components.NewInfoPanel()
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	contentArea := container.NewBorder(
		nil,
		mv.infoPanel.GetContainer(),
		nil,
		nil,
		mv.imageDisplay.GetContainer(),
	)

	sidebar := container.NewVScroll(mv.paramPanel.GetContainer())
	sidebar.SetMinSize(fyne.NewSize(280, 0))

	mv.mainContainer = container.NewBorder(
		mv.toolbar.GetContainer(),
		mv.statusBar.GetContainer(),
		nil,
		sidebar,
		contentArea,
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mv.triggerLoad),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Image...", mv.triggerSave),
		fyne.NewMenuItem("Reset Image", mv.triggerReset),
	)

	mv.window.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

func (mv *MainView) triggerLoad() {
	if mv.loadImageHandler != nil {
		mv.loadImageHandler()
	}
}

func (mv *MainView) triggerSave() {
	if mv.saveImageHandler != nil {
		mv.saveImageHandler()
	}
}

func (mv *MainView) triggerReset() {
	if mv.resetHandler != nil {
		mv.resetHandler()
	}
}

func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetOpenHandler(mv.triggerLoad)
	mv.toolbar.SetSaveHandler(mv.triggerSave)
	mv.toolbar.SetResetHandler(mv.triggerReset)

	mv.paramPanel.SetParameterChangeHandler(func(key models.ParameterKey, value interface{}) {
		if mv.parameterChangeHandler != nil {
			mv.parameterChangeHandler(key, value)
		}
	})
}

// Event handler setters - called by controller

func (mv *MainView) SetLoadImageHandler(handler func()) {
	mv.loadImageHandler = handler
}

func (mv *MainView) SetSaveImageHandler(handler func()) {
	mv.saveImageHandler = handler
}

func (mv *MainView) SetResetHandler(handler func()) {
	mv.resetHandler = handler
}

func (mv *MainView) SetParameterChangeHandler(handler func(models.ParameterKey, interface{})) {
	mv.parameterChangeHandler = handler
}

// UI update methods - called by controller

func (mv *MainView) SetOriginalImage(img image.Image) {
	mv.imageDisplay.SetOriginalImage(img)
}

func (mv *MainView) SetPreviewImage(img image.Image) {
	mv.imageDisplay.SetPreviewImage(img)
}

func (mv *MainView) SetParameters(params models.AdjustmentParameters) {
	mv.paramPanel.SetParameters(params)
}

func (mv *MainView) SetDisplayInfo(info models.DisplayInfo) {
	mv.infoPanel.SetInfo(info)
}

// SetEditingEnabled toggles everything that needs a loaded image.
func (mv *MainView) SetEditingEnabled(enabled bool) {
	mv.toolbar.EnableImageOperations(enabled)
	mv.paramPanel.SetEnabled(enabled)
}

func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

func (mv *MainView) ShowError(title string, err error) {
	if err == nil {
		return
	}
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), mv.window)
}

// imageFilter limits the open dialog to image files.
var imageFilter = storage.NewMimeTypeFileFilter([]string{"image/*"})

func (mv *MainView) ShowOpenDialog(onSelected func(name string, reader io.ReadCloser)) {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mv.ShowError("Open failed", err)
			return
		}
		if reader == nil {
			return
		}
		onSelected(reader.URI().Name(), reader)
	}, mv.window)
	open.SetFilter(imageFilter)
	open.Show()
}

func (mv *MainView) ShowSaveDialog(fileName string, onSelected func(writer io.WriteCloser)) {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mv.ShowError("Save failed", err)
			return
		}
		if writer == nil {
			return
		}
		onSelected(writer)
	}, mv.window)
	save.SetFileName(fileName)
	save.Show()
}

func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}

func (mv *MainView) Show() {
	mv.window.Show()
}

func (mv *MainView) GetImageDisplay() *components.ImageDisplay {
	return mv.imageDisplay
}

func (mv *MainView) GetParameterPanel() *components.ParameterPanel {
	return mv.paramPanel
}

func (mv *MainView) GetToolbar() *components.Toolbar {
	return mv.toolbar
}

// ViewState is a snapshot of what the window currently shows.
type ViewState struct {
	HasOriginalImage bool
	HasPreviewImage  bool
	EditingEnabled   bool
	StatusMessage    string
	Info             models.DisplayInfo
}

func (mv *MainView) GetViewState() ViewState {
	return ViewState{
		HasOriginalImage: mv.imageDisplay.HasOriginalImage(),
		HasPreviewImage:  mv.imageDisplay.HasPreviewImage(),
		EditingEnabled:   !mv.toolbar.SaveButton().Disabled(),
		StatusMessage:    mv.statusBar.GetStatus(),
		Info:             mv.infoPanel.Info(),
	}
}
