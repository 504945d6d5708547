package pipeline

import (
	"fmt"
	"io"
	"math"

	"image-adjuster/internal/models"

	"gocv.io/x/gocv"
)

type imageExporter struct {
	logger Logger
}

func NewExporter(logger Logger) ImageExporter {
	return &imageExporter{logger: logger}
}

// EncoderQuality maps the 0.1 to 1.0 quality setting onto the 1 to 100
// scale used by the JPEG and WEBP encoders.
func EncoderQuality(quality float64) int {
	q := int(math.Round(quality * 100))
	return max(1, min(q, 100))
}

func encoderSettings(format models.Format, quality float64) (gocv.FileExt, []int, error) {
	switch format {
	case models.FormatPNG:
		return gocv.PNGFileExt, nil, nil
	case models.FormatJPEG:
		return gocv.JPEGFileExt, []int{int(gocv.IMWriteJpegQuality), EncoderQuality(quality)}, nil
	case models.FormatWEBP:
		return gocv.FileExt(".webp"), []int{int(gocv.IMWriteWebpQuality), EncoderQuality(quality)}, nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

// Encode serialises the canvas. Quality is ignored for PNG. There is a single
// attempt; encoder failures are returned wrapped in ErrEncode.
func (e *imageExporter) Encode(canvas *RenderedCanvas, format models.Format, quality float64) ([]byte, error) {
	if canvas == nil || canvas.Mat == nil || canvas.Mat.Empty() {
		return nil, ErrNoImage
	}

	ext, params, err := encoderSettings(format, quality)
	if err != nil {
		return nil, err
	}

	buffer, err := gocv.IMEncodeWithParams(ext, canvas.Mat.GetMat(), params)
	if err != nil {
		return nil, fmt.Errorf("%w as %s: %v", ErrEncode, format, err)
	}
	defer buffer.Close()

	native := buffer.GetBytes()
	if len(native) == 0 {
		return nil, fmt.Errorf("%w as %s: encoder returned no data", ErrEncode, format)
	}

	data := make([]byte, len(native))
	copy(data, native)

	e.logger.Debug("ImageExporter", "image encoded", map[string]interface{}{
		"format":     string(format),
		"quality":    quality,
		"size_bytes": len(data),
	})

	return data, nil
}

func (e *imageExporter) Export(writer io.Writer, canvas *RenderedCanvas, format models.Format, quality float64) (int, error) {
	data, err := e.Encode(canvas, format, quality)
	if err != nil {
		e.logger.Error("ImageExporter", err, map[string]interface{}{
			"format": string(format),
		})
		return 0, err
	}

	n, err := writer.Write(data)
	if err != nil {
		e.logger.Error("ImageExporter", err, map[string]interface{}{
			"format": string(format),
		})
		return n, fmt.Errorf("failed to write encoded image: %w", err)
	}

	e.logger.Info("ImageExporter", "image exported", map[string]interface{}{
		"format":     string(format),
		"size":       canvas.Size.String(),
		"size_bytes": n,
	})

	return n, nil
}
