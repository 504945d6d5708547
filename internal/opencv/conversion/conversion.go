package conversion

import (
	"fmt"
	"image"

	"image-adjuster/internal/opencv/safe"
)

// MatToImage converts a 1, 3 or 4 channel 8-bit Mat into a Go image.
// Colour Mats are read as BGR(A).
func MatToImage(src *safe.Mat) (image.Image, error) {
	if err := safe.ValidateMatForOperation(src, "Mat to image conversion"); err != nil {
		return nil, err
	}

	switch src.Channels() {
	case 1, 3, 4:
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", src.Channels())
	}

	mat := src.GetMat()
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("Mat to image conversion failed: %w", err)
	}
	return img, nil
}
