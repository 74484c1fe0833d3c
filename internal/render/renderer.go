package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/deckhandapp/deckhand/internal/deck"
	"github.com/deckhandapp/deckhand/internal/device"
)

// Software renders key images on the CPU: a solid fill, a highlight
// border while the key is pressed, and a centered, truncated label.
type Software struct {
	size int
	face font.Face
}

// NewSoftware returns a renderer producing size x size pixel images.
func NewSoftware(size int) (*Software, error) {
	if size < 16 {
		return nil, fmt.Errorf("render: key size %d too small", size)
	}
	return &Software{size: size, face: basicfont.Face7x13}, nil
}

func (s *Software) RenderKey(key device.KeyID, state deck.KeyState) (device.KeyImage, error) {
	img := image.NewNRGBA(image.Rect(0, 0, s.size, s.size))

	fill := state.Fill
	if fill.A == 0 {
		fill = color.NRGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xff}
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	if state.Pressed {
		s.drawBorder(img, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	}

	if state.Label != "" {
		s.drawLabel(img, state.Label)
	}

	return NewRaster(img), nil
}

func (s *Software) drawBorder(img *image.NRGBA, c color.NRGBA) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		img.SetNRGBA(x, b.Min.Y, c)
		img.SetNRGBA(x, b.Min.Y+1, c)
		img.SetNRGBA(x, b.Max.Y-1, c)
		img.SetNRGBA(x, b.Max.Y-2, c)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		img.SetNRGBA(b.Min.X, y, c)
		img.SetNRGBA(b.Min.X+1, y, c)
		img.SetNRGBA(b.Max.X-1, y, c)
		img.SetNRGBA(b.Max.X-2, y, c)
	}
}

func (s *Software) drawLabel(img *image.NRGBA, label string) {
	text := TruncateLabel(label, s.size/8)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}),
		Face: s.face,
	}
	width := d.MeasureString(text)
	x := (fixed.I(s.size) - width) / 2
	if x < fixed.I(2) {
		x = fixed.I(2)
	}
	d.Dot = fixed.Point26_6{X: x, Y: fixed.I(s.size/2 + s.face.Metrics().Ascent.Ceil()/2)}
	d.DrawString(text)
}
