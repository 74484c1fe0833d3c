package main

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/deckhandapp/deckhand/internal/device"
)

// previewDevice wraps the emulator so the on-screen grid can repaint a
// cell whenever an image lands on it. SetKeyImage is only ever invoked
// on the UI thread, so onChange runs there too.
type previewDevice struct {
	*device.Emulator
	onChange func(device.KeyID)
}

func newPreviewDevice(cols, rows uint8) *previewDevice {
	return &previewDevice{Emulator: device.NewEmulator(cols, rows)}
}

func (p *previewDevice) SetKeyImage(key device.KeyID, img device.KeyImage) error {
	if err := p.Emulator.SetKeyImage(key, img); err != nil {
		return err
	}
	if p.onChange != nil {
		p.onChange(key)
	}
	return nil
}

// keyPreview is the window's grid of key cells mirroring the device.
type keyPreview struct {
	grid  *fyne.Container
	cells map[device.KeyID]*canvas.Image
	dev   *previewDevice
}

func newKeyPreview(dev *previewDevice, onTap func(device.KeyID)) *keyPreview {
	cols, rows := dev.KeyLayout()
	p := &keyPreview{
		cells: make(map[device.KeyID]*canvas.Image),
		dev:   dev,
	}

	objects := make([]fyne.CanvasObject, 0, int(cols)*int(rows))
	for _, key := range device.Keys(cols, rows) {
		cell := canvas.NewImageFromImage(image.NewNRGBA(image.Rect(0, 0, keySize, keySize)))
		cell.FillMode = canvas.ImageFillContain
		cell.SetMinSize(fyne.NewSize(keySize, keySize))
		p.cells[key] = cell

		key := key
		tap := newTappableOverlay(func() { onTap(key) })
		objects = append(objects, container.NewStack(cell, tap))
	}
	p.grid = container.NewGridWithColumns(int(cols), objects...)
	return p
}

// refreshKey repaints one cell from the emulator. UI thread only.
func (p *keyPreview) refreshKey(key device.KeyID) {
	cell, ok := p.cells[key]
	if !ok {
		return
	}
	img := p.dev.KeyImageFor(key)
	if img == nil {
		return
	}
	bitmap := img.Bitmap()
	if bitmap == nil {
		return
	}
	cell.Image = bitmap
	cell.Refresh()
}

// tappableOverlay turns a grid cell into a clickable region.
type tappableOverlay struct {
	widget.BaseWidget
	onTap func()
}

func newTappableOverlay(onTap func()) *tappableOverlay {
	t := &tappableOverlay{onTap: onTap}
	t.ExtendBaseWidget(t)
	return t
}

func (t *tappableOverlay) Tapped(*fyne.PointEvent) {
	if t.onTap != nil {
		t.onTap()
	}
}

func (t *tappableOverlay) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}
