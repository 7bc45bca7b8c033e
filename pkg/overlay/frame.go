package overlay

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
)

// Frame is a drawing surface over a row-major RGBA8 pixel slice, such as the
// bytes filled by renderer.Tracer.Draw
type Frame struct {
	pix           []byte
	width, height int
}

var _ drivers.Displayer = (*Frame)(nil)

// NewFrame wraps pix, which must hold exactly width*height*4 bytes
func NewFrame(pix []byte, width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d: must be positive", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("frame of %d bytes does not match %dx%d", len(pix), width, height)
	}
	return &Frame{pix: pix, width: width, height: height}, nil
}

func (f *Frame) Size() (x, y int16) {
	return int16(f.width), int16(f.height)
}

// SetPixel blends c over the pixel at (x, y). Pixels outside the frame are ignored.
func (f *Frame) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= f.width || iy < 0 || iy >= f.height {
		return
	}

	off := (iy*f.width + ix) * 4
	if c.A == 0xFF {
		f.pix[off] = c.R
		f.pix[off+1] = c.G
		f.pix[off+2] = c.B
		f.pix[off+3] = 0xFF
		return
	}

	a := uint16(c.A)
	f.pix[off] = blend(f.pix[off], c.R, a)
	f.pix[off+1] = blend(f.pix[off+1], c.G, a)
	f.pix[off+2] = blend(f.pix[off+2], c.B, a)
	f.pix[off+3] = 0xFF
}

// Display is a no-op: the owner of the pixel slice presents it
func (f *Frame) Display() error {
	return nil
}

// FillRectangle blends c over the w x h rectangle at (x, y), clipped to the frame
func (f *Frame) FillRectangle(x, y, w, h int16, c color.RGBA) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid rectangle size %dx%d", w, h)
	}

	x0, y0 := max(int(x), 0), max(int(y), 0)
	x1, y1 := min(int(x)+int(w), f.width), min(int(y)+int(h), f.height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			f.SetPixel(int16(px), int16(py), c)
		}
	}
	return nil
}

// At returns the pixel at (x, y), or transparent black outside the frame
func (f *Frame) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return color.RGBA{}
	}
	off := (y*f.width + x) * 4
	return color.RGBA{R: f.pix[off], G: f.pix[off+1], B: f.pix[off+2], A: f.pix[off+3]}
}

// blend mixes src over dst with alpha a in [0, 255]
func blend(dst, src uint8, a uint16) uint8 {
	return uint8((uint16(src)*a + uint16(dst)*(0xFF-a) + 0x7F) / 0xFF)
}
