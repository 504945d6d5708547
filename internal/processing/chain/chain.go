package chain

import (
	"context"
	"fmt"

	"image-adjuster/internal/models"
	"image-adjuster/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ProcessingStep reads src and writes the whole of dst. src and dst always
// have the same size and type and are never the same Mat.
type ProcessingStep interface {
	Apply(ctx context.Context, src, dst *safe.Mat, params models.AdjustmentParameters) error
	Name() string
	ShouldExecute(params models.AdjustmentParameters) bool
}

// Allocator supplies and reclaims scratch surfaces.
type Allocator interface {
	GetMat(rows, cols int, matType gocv.MatType) (*safe.Mat, error)
	ReleaseMat(mat *safe.Mat)
}

// ProcessingChain runs steps in order, ping-ponging between the input and
// one scratch surface of the same shape.
type ProcessingChain struct {
	steps     []ProcessingStep
	allocator Allocator
}

func NewProcessingChain(allocator Allocator, steps []ProcessingStep) *ProcessingChain {
	return &ProcessingChain{
		steps:     steps,
		allocator: allocator,
	}
}

// Execute takes ownership of input and returns the Mat holding the result,
// which is either input itself or a surface from the allocator. On error
// every surface has been released.
func (pc *ProcessingChain) Execute(ctx context.Context, input *safe.Mat, params models.AdjustmentParameters) (*safe.Mat, error) {
	current := input
	var spare *safe.Mat

	release := func() {
		pc.allocator.ReleaseMat(current)
		if spare != nil {
			pc.allocator.ReleaseMat(spare)
		}
	}

	for _, step := range pc.steps {
		select {
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		default:
		}

		if !step.ShouldExecute(params) {
			continue
		}

		if spare == nil {
			scratch, err := pc.allocator.GetMat(current.Rows(), current.Cols(), current.Type())
			if err != nil {
				release()
				return nil, fmt.Errorf("failed to allocate scratch surface for %s: %w", step.Name(), err)
			}
			spare = scratch
		}

		if err := step.Apply(ctx, current, spare, params); err != nil {
			release()
			return nil, fmt.Errorf("step %s failed: %w", step.Name(), err)
		}

		current, spare = spare, current
	}

	if spare != nil {
		pc.allocator.ReleaseMat(spare)
	}
	return current, nil
}

// ActiveSteps names the steps that would run for params, in order.
func (pc *ProcessingChain) ActiveSteps(params models.AdjustmentParameters) []string {
	var names []string
	for _, step := range pc.steps {
		if step.ShouldExecute(params) {
			names = append(names, step.Name())
		}
	}
	return names
}
