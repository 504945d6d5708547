package chain

import (
	"context"
	"errors"
	"testing"

	"image-adjuster/internal/logger"
	"image-adjuster/internal/models"
	"image-adjuster/internal/opencv/memory"
	"image-adjuster/internal/opencv/safe"
	"image-adjuster/internal/processing/filters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

type recordingStep struct {
	name  string
	run   bool
	fail  error
	calls *[]string
}

func (r *recordingStep) Name() string { return r.name }

func (r *recordingStep) ShouldExecute(models.AdjustmentParameters) bool { return r.run }

func (r *recordingStep) Apply(ctx context.Context, src, dst *safe.Mat, params models.AdjustmentParameters) error {
	*r.calls = append(*r.calls, r.name)
	if r.fail != nil {
		return r.fail
	}
	src.Pointer().CopyTo(dst.Pointer())
	return nil
}

func newInput(t *testing.T, m *memory.Manager) *safe.Mat {
	t.Helper()
	input, err := m.GetMat(8, 8, gocv.MatTypeCV8UC3)
	require.NoError(t, err)
	input.Pointer().SetTo(gocv.NewScalar(100, 100, 100, 0))
	return input
}

func TestExecute_RunsActiveStepsInOrder(t *testing.T) {
	m := memory.NewManager(logger.NewNop())
	defer m.Cleanup()

	var calls []string
	pc := NewProcessingChain(m, []ProcessingStep{
		&recordingStep{name: "a", run: true, calls: &calls},
		&recordingStep{name: "b", run: false, calls: &calls},
		&recordingStep{name: "c", run: true, calls: &calls},
	})

	result, err := pc.Execute(context.Background(), newInput(t, m), models.DefaultParameters())
	require.NoError(t, err)
	defer m.ReleaseMat(result)

	assert.Equal(t, []string{"a", "c"}, calls)
	assert.Equal(t, []string{"a", "c"}, pc.ActiveSteps(models.DefaultParameters()))
	assert.Equal(t, int64(1), m.GetStats().ActiveMats, "only the result stays checked out")
}

func TestExecute_NoActiveStepsReturnsInput(t *testing.T) {
	m := memory.NewManager(logger.NewNop())
	defer m.Cleanup()

	var calls []string
	pc := NewProcessingChain(m, []ProcessingStep{
		&recordingStep{name: "idle", run: false, calls: &calls},
	})

	input := newInput(t, m)
	result, err := pc.Execute(context.Background(), input, models.DefaultParameters())
	require.NoError(t, err)

	assert.Same(t, input, result)
	assert.Empty(t, calls)
	assert.Equal(t, int64(1), m.GetStats().PoolMisses, "no scratch surface for an idle chain")
}

func TestExecute_FailureReleasesSurfaces(t *testing.T) {
	m := memory.NewManager(logger.NewNop())
	defer m.Cleanup()

	boom := errors.New("boom")
	var calls []string
	pc := NewProcessingChain(m, []ProcessingStep{
		&recordingStep{name: "ok", run: true, calls: &calls},
		&recordingStep{name: "broken", run: true, fail: boom, calls: &calls},
	})

	_, err := pc.Execute(context.Background(), newInput(t, m), models.DefaultParameters())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
	assert.Zero(t, m.GetStats().ActiveMats)
}

func TestExecute_Cancelled(t *testing.T) {
	m := memory.NewManager(logger.NewNop())
	defer m.Cleanup()

	var calls []string
	pc := NewProcessingChain(m, []ProcessingStep{
		&recordingStep{name: "never", run: true, calls: &calls},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pc.Execute(ctx, newInput(t, m), models.DefaultParameters())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
	assert.Zero(t, m.GetStats().ActiveMats)
}

func TestExecute_BrightnessThenContrastOrder(t *testing.T) {
	m := memory.NewManager(logger.NewNop())
	defer m.Cleanup()

	pc := NewProcessingChain(m, []ProcessingStep{
		filters.NewBrightnessFilter(),
		filters.NewContrastFilter(),
	})

	params := models.DefaultParameters()
	params.Brightness = 50
	params.Contrast = 200

	result, err := pc.Execute(context.Background(), newInput(t, m), params)
	require.NoError(t, err)
	defer m.ReleaseMat(result)

	// (100 * 0.5) * 2 - 127.5 clamps to 0; the reverse order would give 36.
	raw := result.GetMat()
	assert.Equal(t, uint8(0), raw.GetUCharAt3(4, 4, 0))
}
