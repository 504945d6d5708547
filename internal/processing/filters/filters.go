package filters

import (
	"context"
	"fmt"

	"image-adjuster/internal/models"
	"image-adjuster/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Midpoint of the 8-bit range; contrast scales distances from it.
const midGray = 127.5

// BrightnessFilter multiplies every channel by Brightness/100. Zero yields black.
type BrightnessFilter struct{}

func NewBrightnessFilter() *BrightnessFilter {
	return &BrightnessFilter{}
}

func (b *BrightnessFilter) Name() string {
	return "brightness"
}

func (b *BrightnessFilter) ShouldExecute(params models.AdjustmentParameters) bool {
	return params.Brightness != 100
}

func (b *BrightnessFilter) Apply(ctx context.Context, src, dst *safe.Mat, params models.AdjustmentParameters) error {
	if err := checkInputs(ctx, src, dst, b.Name()); err != nil {
		return err
	}

	return linear(src, dst, params.Brightness/100, 0)
}

// ContrastFilter scales each channel around mid-gray by Contrast/100.
type ContrastFilter struct{}

func NewContrastFilter() *ContrastFilter {
	return &ContrastFilter{}
}

func (c *ContrastFilter) Name() string {
	return "contrast"
}

func (c *ContrastFilter) ShouldExecute(params models.AdjustmentParameters) bool {
	return params.Contrast != 100
}

func (c *ContrastFilter) Apply(ctx context.Context, src, dst *safe.Mat, params models.AdjustmentParameters) error {
	if err := checkInputs(ctx, src, dst, c.Name()); err != nil {
		return err
	}

	amount := params.Contrast / 100
	return linear(src, dst, amount, midGray*(1-amount))
}

// linear computes dst = src*alpha + beta with 8-bit saturation.
func linear(src, dst *safe.Mat, alpha, beta float64) error {
	srcMat := src.GetMat()
	srcMat.ConvertToWithParams(dst.Pointer(), gocv.MatTypeCV8UC3, float32(alpha), float32(beta))

	if dst.Empty() {
		return fmt.Errorf("linear transform produced an empty Mat")
	}
	return nil
}

func checkInputs(ctx context.Context, src, dst *safe.Mat, operation string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := safe.ValidateColorImage(src, operation); err != nil {
		return err
	}
	if err := safe.ValidateMatForOperation(dst, operation); err != nil {
		return err
	}
	if src == dst {
		return fmt.Errorf("%s cannot run in place", operation)
	}
	return nil
}
