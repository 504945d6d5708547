package models

import (
	"errors"
	"image"

	"image-adjuster/internal/opencv/safe"
)

var ErrEmptyImage = errors.New("image has no pixels")

// ImageHandle is a decoded source image. It is immutable once created; the
// pixel data is shared by reference and freed with Release.
type ImageHandle struct {
	name      string
	mat       *safe.Mat
	size      Dimensions
	mimeType  string
	thumbnail image.Image
}

// NewImageHandle takes ownership of mat.
func NewImageHandle(name string, mat *safe.Mat, mimeType string, thumbnail image.Image) (*ImageHandle, error) {
	if mat == nil || mat.Empty() {
		return nil, ErrEmptyImage
	}

	return &ImageHandle{
		name:      name,
		mat:       mat,
		size:      Dimensions{Width: mat.Cols(), Height: mat.Rows()},
		mimeType:  mimeType,
		thumbnail: thumbnail,
	}, nil
}

func (h *ImageHandle) Name() string {
	return h.name
}

// Mat exposes the BGR pixels. Callers must not modify or close it.
func (h *ImageHandle) Mat() *safe.Mat {
	return h.mat
}

func (h *ImageHandle) Size() Dimensions {
	return h.size
}

func (h *ImageHandle) MimeType() string {
	return h.mimeType
}

// Thumbnail is a display-sized copy of the source; nil when none was built.
func (h *ImageHandle) Thumbnail() image.Image {
	return h.thumbnail
}

// Valid reports whether the pixel data is still available.
func (h *ImageHandle) Valid() bool {
	return h != nil && h.mat != nil && h.mat.IsValid()
}

func (h *ImageHandle) Release() {
	if h == nil || h.mat == nil {
		return
	}
	h.mat.Close()
}

// DisplayInfo backs the read-only info panel.
type DisplayInfo struct {
	OriginalSize  string
	ProcessedSize string
	MimeType      string
}

func displayFor(handle *ImageHandle, preset Preset) DisplayInfo {
	if handle == nil {
		return DisplayInfo{}
	}

	info := DisplayInfo{
		OriginalSize: handle.Size().Display(),
		MimeType:     handle.MimeType(),
	}
	if dims, err := Resolve(preset); err == nil {
		info.ProcessedSize = dims.Display()
	}
	return info
}
