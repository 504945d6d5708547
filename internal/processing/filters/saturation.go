package filters

import (
	"context"
	"fmt"

	"image-adjuster/internal/models"
	"image-adjuster/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Luma weights of the saturate colour matrix, in RGB order.
const (
	lumaR = 0.213
	lumaG = 0.715
	lumaB = 0.072
)

// SaturationFilter applies the saturate colour matrix with amount Saturation/100.
type SaturationFilter struct{}

func NewSaturationFilter() *SaturationFilter {
	return &SaturationFilter{}
}

func (s *SaturationFilter) Name() string {
	return "saturation"
}

func (s *SaturationFilter) ShouldExecute(params models.AdjustmentParameters) bool {
	return params.Saturation != 100
}

func (s *SaturationFilter) Apply(ctx context.Context, src, dst *safe.Mat, params models.AdjustmentParameters) error {
	if err := checkInputs(ctx, src, dst, s.Name()); err != nil {
		return err
	}

	kernel := saturationKernel(params.Saturation / 100)
	defer kernel.Close()

	srcMat := src.GetMat()
	gocv.Transform(srcMat, dst.Pointer(), kernel)

	if dst.Empty() {
		return fmt.Errorf("saturation transform produced an empty Mat")
	}
	return nil
}

// SaturationMatrix returns the 3x3 saturate matrix for BGR pixels: row i
// produces output channel i from the B, G, R inputs.
func SaturationMatrix(amount float64) [3][3]float64 {
	return [3][3]float64{
		{lumaB + (1-lumaB)*amount, lumaG - lumaG*amount, lumaR - lumaR*amount},
		{lumaB - lumaB*amount, lumaG + (1-lumaG)*amount, lumaR - lumaR*amount},
		{lumaB - lumaB*amount, lumaG - lumaG*amount, lumaR + (1-lumaR)*amount},
	}
}

func saturationKernel(amount float64) gocv.Mat {
	matrix := SaturationMatrix(amount)
	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32FC1)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			kernel.SetFloatAt(row, col, float32(matrix[row][col]))
		}
	}
	return kernel
}
