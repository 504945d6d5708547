package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"image-adjuster/internal/models"
	"image-adjuster/internal/opencv/conversion"
	"image-adjuster/internal/opencv/safe"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
	"gocv.io/x/gocv"
)

type imageLoader struct {
	logger        Logger
	thumbnailSize uint
}

// NewLoader returns a loader whose thumbnails fit in a thumbnailSize square.
// A zero size disables thumbnails.
func NewLoader(logger Logger, thumbnailSize uint) ImageLoader {
	return &imageLoader{
		logger:        logger,
		thumbnailSize: thumbnailSize,
	}
}

func (l *imageLoader) LoadFromReader(ctx context.Context, name string, reader io.Reader) (*models.ImageHandle, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	l.logger.Debug("ImageLoader", "image data read", map[string]interface{}{
		"name":       name,
		"size_bytes": len(data),
	})

	return l.LoadFromBytes(ctx, name, data)
}

// LoadFromBytes decodes data as a 3 channel BGR image. Alpha, if any, is dropped.
func (l *imageLoader) LoadFromBytes(ctx context.Context, name string, data []byte) (*models.ImageHandle, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrDecode, name)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("%w: %s is %s, not an image", ErrDecode, name, mime.String())
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w: %s (%s) could not be decoded", ErrDecode, name, mime.String())
	}

	if err := ctx.Err(); err != nil {
		mat.Close()
		return nil, err
	}

	pixels, err := safe.Adopt(mat, "source_image")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	thumbnail := l.thumbnail(pixels)

	handle, err := models.NewImageHandle(name, pixels, mime.String(), thumbnail)
	if err != nil {
		pixels.Close()
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"name":        name,
		"width":       handle.Size().Width,
		"height":      handle.Size().Height,
		"mime_type":   handle.MimeType(),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return handle, nil
}

// thumbnail builds the original-pane image; failures are logged and yield nil.
func (l *imageLoader) thumbnail(pixels *safe.Mat) image.Image {
	if l.thumbnailSize == 0 {
		return nil
	}

	full, err := conversion.MatToImage(pixels)
	if err != nil {
		l.logger.Warning("ImageLoader", "thumbnail conversion failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	return resize.Thumbnail(l.thumbnailSize, l.thumbnailSize, full, resize.Lanczos3)
}
