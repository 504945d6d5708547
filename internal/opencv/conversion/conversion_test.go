package conversion

import (
	"image"
	"testing"

	"image-adjuster/internal/opencv/safe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestMatToImage_ReadsBGR(t *testing.T) {
	mat, err := safe.NewMat(2, 3, gocv.MatTypeCV8UC3)
	require.NoError(t, err)
	defer mat.Close()
	mat.Pointer().SetTo(gocv.NewScalar(10, 50, 200, 0))

	img, err := MatToImage(mat)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(200), r>>8)
	assert.Equal(t, uint32(50), g>>8)
	assert.Equal(t, uint32(10), b>>8)
	assert.Equal(t, uint32(255), a>>8)
}

func TestMatToImage_RejectsInvalid(t *testing.T) {
	_, err := MatToImage(nil)
	assert.Error(t, err)

	mat, err := safe.NewMat(2, 2, gocv.MatTypeCV8UC3)
	require.NoError(t, err)
	mat.Close()

	_, err = MatToImage(mat)
	assert.Error(t, err)
}
