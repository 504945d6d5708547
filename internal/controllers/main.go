package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"image-adjuster/internal/logger"
	"image-adjuster/internal/models"
	"image-adjuster/internal/pipeline"

	"fyne.io/fyne/v2"
)

// View is the surface the controller drives. Update methods are only called
// through the controller's main-thread dispatcher.
type View interface {
	SetLoadImageHandler(handler func())
	SetSaveImageHandler(handler func())
	SetResetHandler(handler func())
	SetParameterChangeHandler(handler func(models.ParameterKey, interface{}))

	SetOriginalImage(img image.Image)
	SetPreviewImage(img image.Image)
	SetParameters(params models.AdjustmentParameters)
	SetDisplayInfo(info models.DisplayInfo)
	SetEditingEnabled(enabled bool)
	UpdateStatus(status string)
	ShowError(title string, err error)

	// ShowOpenDialog calls onSelected only when the user picked a file.
	ShowOpenDialog(onSelected func(name string, reader io.ReadCloser))
	// ShowSaveDialog calls onSelected only when the user picked a destination.
	ShowSaveDialog(fileName string, onSelected func(writer io.WriteCloser))
}

type Options struct {
	DecodeTimeout time.Duration
	// RenderThrottle delays a re-render until the controls have been still
	// for this long. Zero renders as soon as the worker is free.
	RenderThrottle time.Duration
	// RunOnMain executes UI updates on the toolkit thread. Defaults to fyne.Do.
	RunOnMain func(func())
}

// MainController orchestrates the application using MVC pattern
type MainController struct {
	store    *models.Store
	loader   pipeline.ImageLoader
	renderer pipeline.ImageRenderer
	exporter pipeline.ImageExporter
	logger   logger.Logger
	view     View

	decodeTimeout  time.Duration
	renderThrottle time.Duration
	runOnMain      func(func())

	mu         sync.Mutex
	loadSeq    uint64
	loadCancel context.CancelFunc
	closed     bool

	// renderMu guards canvas and serialises every use of image handles
	// against their release.
	renderMu sync.Mutex
	canvas   *pipeline.RenderedCanvas

	renderRequests chan struct{}
	done           chan struct{}
	wg             sync.WaitGroup
}

func NewMainController(
	store *models.Store,
	loader pipeline.ImageLoader,
	renderer pipeline.ImageRenderer,
	exporter pipeline.ImageExporter,
	log logger.Logger,
	opts Options,
) *MainController {
	runOnMain := opts.RunOnMain
	if runOnMain == nil {
		runOnMain = fyne.Do
	}

	decodeTimeout := opts.DecodeTimeout
	if decodeTimeout <= 0 {
		decodeTimeout = 30 * time.Second
	}

	return &MainController{
		store:          store,
		loader:         loader,
		renderer:       renderer,
		exporter:       exporter,
		logger:         log,
		decodeTimeout:  decodeTimeout,
		renderThrottle: opts.RenderThrottle,
		runOnMain:      runOnMain,
		renderRequests: make(chan struct{}, 1),
		done:           make(chan struct{}),
	}
}

// Start connects the view and starts the render worker.
func (mc *MainController) Start(view View) {
	mc.view = view

	view.SetLoadImageHandler(mc.LoadImage)
	view.SetSaveImageHandler(mc.SaveImage)
	view.SetResetHandler(mc.Reset)
	view.SetParameterChangeHandler(mc.UpdateParameter)

	state := mc.store.State()
	mc.runOnMain(func() {
		view.SetParameters(state.Params)
		view.SetDisplayInfo(state.Display)
		view.SetEditingEnabled(false)
		view.UpdateStatus("Open an image to begin")
	})

	mc.wg.Add(1)
	go mc.renderLoop()
}

// LoadImage asks the view for a file. Cancelling the dialog does nothing.
func (mc *MainController) LoadImage() {
	mc.view.ShowOpenDialog(func(name string, reader io.ReadCloser) {
		mc.LoadFrom(name, reader)
	})
}

// LoadFrom decodes reader in the background. A newer call supersedes and
// cancels any load still in flight; only the newest result is applied.
func (mc *MainController) LoadFrom(name string, reader io.ReadCloser) {
	mc.mu.Lock()
	if mc.closed {
		mc.mu.Unlock()
		reader.Close()
		return
	}
	if mc.loadCancel != nil {
		mc.loadCancel()
	}
	mc.loadSeq++
	seq := mc.loadSeq
	ctx, cancel := context.WithTimeout(context.Background(), mc.decodeTimeout)
	mc.loadCancel = cancel
	mc.wg.Add(1)
	mc.mu.Unlock()

	mc.store.Dispatch(models.LoadRequested{Seq: seq})

	mc.logger.Info("MainController", "loading image", map[string]interface{}{
		"name":    name,
		"request": seq,
	})
	mc.runOnMain(func() {
		mc.view.UpdateStatus(fmt.Sprintf("Loading %s...", name))
	})

	go func() {
		defer mc.wg.Done()
		defer cancel()
		defer reader.Close()

		handle, err := mc.loader.LoadFromReader(ctx, name, reader)
		mc.finishLoad(seq, name, handle, err)
	}()
}

func (mc *MainController) finishLoad(seq uint64, name string, handle *models.ImageHandle, err error) {
	mc.renderMu.Lock()

	if err != nil {
		prev, next, _ := mc.store.Dispatch(models.LoadFailed{Seq: seq, Err: err})
		if next.LoadSeq != seq || next.Status != models.StatusError {
			mc.renderMu.Unlock()
			mc.logger.Debug("MainController", "discarded superseded load failure", map[string]interface{}{
				"request": seq,
				"error":   err.Error(),
			})
			return
		}

		mc.releaseStale(prev, next)
		mc.renderMu.Unlock()

		mc.logger.Error("MainController", err, map[string]interface{}{
			"name":    name,
			"request": seq,
		})
		mc.runOnMain(func() {
			mc.view.SetOriginalImage(nil)
			mc.view.SetPreviewImage(nil)
			mc.view.SetParameters(next.Params)
			mc.view.SetDisplayInfo(next.Display)
			mc.view.SetEditingEnabled(false)
			mc.view.UpdateStatus("Failed to load image")
			mc.view.ShowError("Image load failed", userFacing(err))
		})
		return
	}

	prev, next, _ := mc.store.Dispatch(models.LoadSucceeded{Seq: seq, Handle: handle})
	if next.Original != handle {
		mc.renderMu.Unlock()
		handle.Release()
		mc.logger.Debug("MainController", "discarded superseded load", map[string]interface{}{
			"request": seq,
			"name":    name,
		})
		return
	}

	mc.releaseStale(prev, next)
	mc.renderMu.Unlock()

	mc.runOnMain(func() {
		mc.view.SetOriginalImage(handle.Thumbnail())
		mc.view.SetParameters(next.Params)
		mc.view.SetDisplayInfo(next.Display)
		mc.view.SetEditingEnabled(true)
		mc.view.UpdateStatus(fmt.Sprintf("Loaded %s (%s)", name, handle.Size()))
	})

	mc.requestRender()
}

// releaseStale frees the previous image and canvas once a state transition
// has dropped them. Callers hold renderMu.
func (mc *MainController) releaseStale(prev, next models.State) {
	if prev.Original != nil && prev.Original != next.Original {
		prev.Original.Release()
	}
	if next.Original == nil || prev.Original != next.Original {
		mc.canvas.Release()
		mc.canvas = nil
	}
}

// UpdateParameter applies a single control change and schedules a re-render.
// Ignored until an image is loaded.
func (mc *MainController) UpdateParameter(key models.ParameterKey, value interface{}) {
	if !mc.store.State().CanEdit() {
		mc.logger.Debug("MainController", "parameter change ignored without an image", map[string]interface{}{
			"parameter": string(key),
		})
		return
	}

	_, next, err := mc.store.Dispatch(models.ParameterChanged{Key: key, Value: value})
	if err != nil {
		mc.logger.Error("MainController", err, map[string]interface{}{
			"parameter": string(key),
		})
		return
	}

	if verr := next.Params.Validate(); verr != nil {
		mc.logger.Warning("MainController", "parameter outside its declared range", map[string]interface{}{
			"parameter": string(key),
			"value":     value,
			"error":     verr.Error(),
		})
	}

	mc.runOnMain(func() {
		mc.view.SetDisplayInfo(next.Display)
	})

	mc.requestRender()
}

// Reset restores the original image and default parameters. No-op without an image.
func (mc *MainController) Reset() {
	_, next, _ := mc.store.Dispatch(models.ResetRequested{})
	if !next.CanEdit() {
		return
	}

	mc.logger.Info("MainController", "parameters reset", nil)
	mc.runOnMain(func() {
		mc.view.SetParameters(next.Params)
		mc.view.SetDisplayInfo(next.Display)
		mc.view.UpdateStatus("Reset to defaults")
	})

	mc.requestRender()
}

// SaveImage offers a save dialog pre-filled with the export file name.
func (mc *MainController) SaveImage() {
	state := mc.store.State()
	if !state.CanEdit() {
		mc.runOnMain(func() {
			mc.view.ShowError("Save failed", pipeline.ErrNoImage)
		})
		return
	}

	fileName := models.ExportFileName(state.Params.Resolution, state.Params.Format)
	mc.view.ShowSaveDialog(fileName, func(writer io.WriteCloser) {
		if !mc.track() {
			writer.Close()
			return
		}
		go func() {
			defer mc.wg.Done()
			_ = mc.ExportTo(writer)
		}()
	})
}

// ExportTo encodes the current preview with the selected format and quality
// and closes writer. A preview that lags behind the parameters is re-rendered
// first. There is one attempt; the error is also shown to the user.
func (mc *MainController) ExportTo(writer io.WriteCloser) error {
	state := mc.store.State()

	mc.renderMu.Lock()
	var (
		err       error
		refreshed *pipeline.RenderedCanvas
		next      models.State
	)
	if state.CanEdit() && mc.canvas != nil && mc.canvas.Params != state.Params {
		refreshed, next, err = mc.renderLocked()
	}
	canvas := mc.canvas
	params := state.Params
	if err == nil {
		if !state.CanEdit() || canvas == nil {
			err = pipeline.ErrNoImage
		} else {
			params = canvas.Params
			_, err = mc.exporter.Export(writer, canvas, params.Format, params.Quality)
		}
	}
	mc.renderMu.Unlock()

	if refreshed != nil {
		mc.publish(refreshed, next)
	}

	if cerr := writer.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close export destination: %w", cerr)
	}

	if err != nil {
		mc.logger.Error("MainController", err, map[string]interface{}{
			"format": string(params.Format),
		})
		mc.runOnMain(func() {
			mc.view.UpdateStatus("Save failed")
			mc.view.ShowError("Save failed", err)
		})
		return err
	}

	mc.runOnMain(func() {
		mc.view.UpdateStatus(fmt.Sprintf("Saved %s",
			models.ExportFileName(params.Resolution, params.Format)))
	})
	return nil
}

// track registers a background task unless the controller is shutting down.
func (mc *MainController) track() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.closed {
		return false
	}
	mc.wg.Add(1)
	return true
}

// requestRender coalesces: while a render is pending, further requests merge into it.
func (mc *MainController) requestRender() {
	select {
	case mc.renderRequests <- struct{}{}:
	default:
	}
}

func (mc *MainController) renderLoop() {
	defer mc.wg.Done()

	for {
		select {
		case <-mc.done:
			return
		case <-mc.renderRequests:
		}

		if mc.renderThrottle > 0 && !mc.settle() {
			return
		}

		mc.renderNow()
	}
}

// settle waits until no render request has arrived for renderThrottle.
// It reports false when the controller is shutting down.
func (mc *MainController) settle() bool {
	timer := time.NewTimer(mc.renderThrottle)
	defer timer.Stop()

	for {
		select {
		case <-mc.done:
			return false
		case <-mc.renderRequests:
			timer.Reset(mc.renderThrottle)
		case <-timer.C:
			return true
		}
	}
}

func (mc *MainController) renderNow() {
	mc.renderMu.Lock()
	canvas, next, err := mc.renderLocked()
	mc.renderMu.Unlock()

	if err != nil {
		mc.logger.Error("MainController", err, map[string]interface{}{
			"operation": "render",
		})
		mc.runOnMain(func() {
			mc.view.UpdateStatus("Render failed")
		})
		return
	}
	if canvas != nil {
		mc.publish(canvas, next)
	}
}

// renderLocked renders the current state and installs the result as the
// canvas. It returns nil when there is no image or the image was replaced
// mid-render. Callers hold renderMu.
func (mc *MainController) renderLocked() (*pipeline.RenderedCanvas, models.State, error) {
	state := mc.store.State()
	if !state.CanEdit() {
		return nil, state, nil
	}

	canvas, err := mc.renderer.Render(context.Background(), state.Current, state.Params)
	if err != nil {
		return nil, state, err
	}

	_, next, _ := mc.store.Dispatch(models.Rendered{Size: canvas.Size})
	if next.Current != state.Current {
		canvas.Release()
		return nil, next, nil
	}

	previous := mc.canvas
	mc.canvas = canvas
	previous.Release()
	return canvas, next, nil
}

func (mc *MainController) publish(canvas *pipeline.RenderedCanvas, state models.State) {
	preview := canvas.Image
	mc.runOnMain(func() {
		mc.view.SetPreviewImage(preview)
		mc.view.SetDisplayInfo(state.Display)
	})
}

// Shutdown cancels any load, stops the render worker and frees all images.
func (mc *MainController) Shutdown() error {
	mc.mu.Lock()
	if mc.closed {
		mc.mu.Unlock()
		return nil
	}
	mc.closed = true
	if mc.loadCancel != nil {
		mc.loadCancel()
	}
	close(mc.done)
	mc.mu.Unlock()

	mc.wg.Wait()

	mc.renderMu.Lock()
	defer mc.renderMu.Unlock()

	mc.canvas.Release()
	mc.canvas = nil

	if original := mc.store.State().Original; original != nil {
		original.Release()
	}

	mc.logger.Info("MainController", "controller shut down", nil)
	return nil
}

func userFacing(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("decoding took too long: %w", err)
	case errors.Is(err, pipeline.ErrDecode):
		return fmt.Errorf("the file could not be read as an image: %w", err)
	default:
		return err
	}
}
