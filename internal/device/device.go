// Package device defines the abstraction layer for control-surface
// hardware. The real HID adapter and the in-memory emulator both
// implement Device; everything above this package is hardware-agnostic.
package device

import (
	"context"
	"fmt"
	"image"
	"io"
)

// KeyID addresses one physical key by its column and row on the deck.
type KeyID struct {
	Col uint8
	Row uint8
}

func (k KeyID) String() string {
	return fmt.Sprintf("%dx%d", k.Col, k.Row)
}

// KeyImage is a fully rendered, ready-to-display key bitmap. Images own
// a pixel buffer that must be released once the image is superseded or
// consumed; callers must not use an image after closing it.
type KeyImage interface {
	io.Closer

	// Bitmap returns the pixel data. Valid until Close.
	Bitmap() image.Image
}

// KeyEvent reports a key press or release.
type KeyEvent struct {
	Key     KeyID
	Pressed bool
}

// Device abstracts one attached control surface.
type Device interface {
	Open() error
	Close() error
	IsOpen() bool

	ModelName() string
	Serial() string
	KeyLayout() (cols, rows uint8)
	KeyCount() int

	SetBrightness(pct uint8) error
	SetKeyImage(key KeyID, img KeyImage) error
	Reset() error

	// Listen delivers key events until ctx is cancelled or the device
	// disappears.
	Listen(ctx context.Context, events chan<- KeyEvent) error
}

// Keys enumerates every key position for the given layout in row-major
// order.
func Keys(cols, rows uint8) []KeyID {
	ids := make([]KeyID, 0, int(cols)*int(rows))
	for r := uint8(0); r < rows; r++ {
		for c := uint8(0); c < cols; c++ {
			ids = append(ids, KeyID{Col: c, Row: r})
		}
	}
	return ids
}
