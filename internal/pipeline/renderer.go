package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"image-adjuster/internal/models"
	"image-adjuster/internal/opencv/conversion"
	"image-adjuster/internal/opencv/safe"
	"image-adjuster/internal/processing/chain"
	"image-adjuster/internal/processing/filters"

	"gocv.io/x/gocv"
)

// RenderedCanvas is the output surface of one render. Release returns the
// surface to the pool; Image stays usable afterwards.
type RenderedCanvas struct {
	Mat    *safe.Mat
	Size   models.Dimensions
	Image  image.Image
	Params models.AdjustmentParameters

	memoryManager MemoryManager
}

func (c *RenderedCanvas) Release() {
	if c == nil || c.Mat == nil {
		return
	}
	c.memoryManager.ReleaseMat(c.Mat)
	c.Mat = nil
}

type imageRenderer struct {
	memoryManager MemoryManager
	chain         *chain.ProcessingChain
	logger        Logger
}

// NewRenderer builds the renderer with the filter order brightness, contrast,
// saturation, blur. Blur does not commute with the others, so the order is fixed.
func NewRenderer(memoryManager MemoryManager, logger Logger) ImageRenderer {
	steps := []chain.ProcessingStep{
		filters.NewBrightnessFilter(),
		filters.NewContrastFilter(),
		filters.NewSaturationFilter(),
		filters.NewGaussianFilter(),
	}

	return &imageRenderer{
		memoryManager: memoryManager,
		chain:         chain.NewProcessingChain(memoryManager, steps),
		logger:        logger,
	}
}

// Render stretches the handle's pixels to exactly fill the preset's
// dimensions with Lanczos resampling, then runs the filter chain.
func (r *imageRenderer) Render(ctx context.Context, handle *models.ImageHandle, params models.AdjustmentParameters) (*RenderedCanvas, error) {
	start := time.Now()

	if !handle.Valid() {
		return nil, ErrNoImage
	}

	dims, err := models.Resolve(params.Resolution)
	if err != nil {
		return nil, err
	}

	surface, err := r.memoryManager.GetMat(dims.Height, dims.Width, gocv.MatTypeCV8UC3)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate render surface: %w", err)
	}

	src := handle.Mat().GetMat()
	gocv.Resize(src, surface.Pointer(), image.Pt(dims.Width, dims.Height), 0, 0, gocv.InterpolationLanczos4)

	if surface.Cols() != dims.Width || surface.Rows() != dims.Height {
		r.memoryManager.ReleaseMat(surface)
		return nil, fmt.Errorf("resize produced %dx%d, want %s", surface.Cols(), surface.Rows(), dims)
	}

	result, err := r.chain.Execute(ctx, surface, params)
	if err != nil {
		return nil, fmt.Errorf("filter chain failed: %w", err)
	}

	img, err := conversion.MatToImage(result)
	if err != nil {
		r.memoryManager.ReleaseMat(result)
		return nil, fmt.Errorf("failed to convert rendered surface: %w", err)
	}

	r.logger.Debug("Renderer", "render completed", map[string]interface{}{
		"size":        dims.String(),
		"filters":     r.chain.ActiveSteps(params),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return &RenderedCanvas{
		Mat:           result,
		Size:          dims,
		Image:         img,
		Params:        params,
		memoryManager: r.memoryManager,
	}, nil
}
