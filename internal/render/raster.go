// Package render produces key bitmaps in software. Rendering happens on
// the deck controller's worker goroutine; the results are plain pixel
// buffers with explicit lifetimes.
package render

import (
	"fmt"
	"image"
	"sync/atomic"
)

// Raster is a device.KeyImage backed by an in-memory pixel buffer.
type Raster struct {
	closed atomic.Bool
	img    *image.NRGBA
}

func NewRaster(img *image.NRGBA) *Raster {
	return &Raster{img: img}
}

func (r *Raster) Bitmap() image.Image {
	if r.closed.Load() {
		return nil
	}
	return r.img
}

// Close releases the pixel buffer. Closing twice is an error so leaks of
// ownership (two parties both believing they hold the image) surface in
// logs instead of silently passing.
func (r *Raster) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("render: key image closed twice")
	}
	r.img = nil
	return nil
}

// Closed reports whether the buffer has been released.
func (r *Raster) Closed() bool {
	return r.closed.Load()
}
