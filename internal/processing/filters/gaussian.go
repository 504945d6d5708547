package filters

import (
	"context"
	"fmt"
	"image"

	"image-adjuster/internal/models"
	"image-adjuster/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// GaussianFilter blurs with a standard deviation of Blur pixels. The kernel
// size is derived from sigma.
type GaussianFilter struct{}

func NewGaussianFilter() *GaussianFilter {
	return &GaussianFilter{}
}

func (g *GaussianFilter) Name() string {
	return "gaussian_blur"
}

func (g *GaussianFilter) ShouldExecute(params models.AdjustmentParameters) bool {
	return params.Blur > 0
}

func (g *GaussianFilter) Apply(ctx context.Context, src, dst *safe.Mat, params models.AdjustmentParameters) error {
	if err := checkInputs(ctx, src, dst, g.Name()); err != nil {
		return err
	}

	sigma := params.Blur
	srcMat := src.GetMat()
	gocv.GaussianBlur(srcMat, dst.Pointer(), image.Point{}, sigma, sigma, gocv.BorderDefault)

	if dst.Empty() {
		return fmt.Errorf("gaussian blur produced an empty Mat")
	}
	return nil
}
