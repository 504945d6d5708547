package pipeline

import (
	"context"
	"io"

	"image-adjuster/internal/models"
	"image-adjuster/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ImageLoader decodes user-supplied files into image handles.
type ImageLoader interface {
	LoadFromReader(ctx context.Context, name string, reader io.Reader) (*models.ImageHandle, error)
	LoadFromBytes(ctx context.Context, name string, data []byte) (*models.ImageHandle, error)
}

// ImageRenderer produces the adjusted, resampled preview.
type ImageRenderer interface {
	Render(ctx context.Context, handle *models.ImageHandle, params models.AdjustmentParameters) (*RenderedCanvas, error)
}

// ImageExporter serialises a rendered canvas.
type ImageExporter interface {
	Encode(canvas *RenderedCanvas, format models.Format, quality float64) ([]byte, error)
	Export(writer io.Writer, canvas *RenderedCanvas, format models.Format, quality float64) (int, error)
}

// MemoryManager handles OpenCV Mat memory management
type MemoryManager interface {
	GetMat(rows, cols int, matType gocv.MatType) (*safe.Mat, error)
	ReleaseMat(mat *safe.Mat)
}
