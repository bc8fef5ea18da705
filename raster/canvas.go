package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Canvas is a white page-sized bitmap with drawing primitives. Coordinates
// are pixels with the origin at the top-left; drawing outside the bounds is
// clipped.
type Canvas struct {
	img   *image.RGBA
	fonts *FontSet
}

// NewCanvas creates a white canvas of the given pixel size.
func NewCanvas(w, h int, fonts *FontSet) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(img, img.Bounds(), image.White, image.Point{}, xdraw.Src)
	return &Canvas{img: img, fonts: fonts}
}

// NewTransparentCanvas creates a fully transparent canvas, used when the
// capture is layered over an imported stationery page.
func NewTransparentCanvas(w, h int, fonts *FontSet) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h)), fonts: fonts}
}

// Size returns the canvas dimensions in pixels.
func (c *Canvas) Size() (w, h int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image exposes the backing bitmap.
func (c *Canvas) Image() image.Image {
	return c.img
}

// EncodePNG writes the canvas as a PNG stream.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

// Clip returns a view of the canvas restricted to the horizontal band
// [y0, y1): drawing outside the band is discarded. The view shares pixels
// with the parent and uses the same coordinate space.
func (c *Canvas) Clip(y0, y1 float64) *Canvas {
	b := c.img.Bounds()
	band := image.Rect(b.Min.X, int(y0), b.Max.X, int(math.Ceil(y1))).Intersect(b)
	sub, ok := c.img.SubImage(band).(*image.RGBA)
	if !ok {
		sub = image.NewRGBA(image.Rectangle{})
	}
	return &Canvas{img: sub, fonts: c.fonts}
}

// FillRect fills the axis-aligned rectangle with col.
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	r := image.Rect(int(x), int(y), int(x+w), int(y+h))
	xdraw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, xdraw.Over)
}

// HLine draws a horizontal line of the given thickness.
func (c *Canvas) HLine(x, y, w float64, col color.Color, thickness float64) {
	if thickness <= 0 {
		thickness = 1
	}
	c.FillRect(x, y, w, thickness, col)
}

// VLine draws a vertical line of the given thickness.
func (c *Canvas) VLine(x, y, h float64, col color.Color, thickness float64) {
	if thickness <= 0 {
		thickness = 1
	}
	c.FillRect(x, y, thickness, h, col)
}

// StrokeRect outlines the rectangle with the given line thickness.
func (c *Canvas) StrokeRect(x, y, w, h float64, col color.Color, thickness float64) {
	c.HLine(x, y, w, col, thickness)
	c.HLine(x, y+h-thickness, w, col, thickness)
	c.VLine(x, y, h, col, thickness)
	c.VLine(x+w-thickness, y, h, col, thickness)
}

// Text draws s with its baseline at (x, y).
func (c *Canvas) Text(x, y float64, s string, st Style, col color.Color) error {
	f, err := c.fonts.face(st)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: f,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)},
	}
	d.DrawString(s)
	return nil
}

// TextRight draws s with its right edge at xRight and baseline at y.
func (c *Canvas) TextRight(xRight, y float64, s string, st Style, col color.Color) error {
	w := c.fonts.MeasureString(s, st)
	return c.Text(xRight-w, y, s, st, col)
}

// TextCenter draws s horizontally centered on xCenter with baseline at y.
func (c *Canvas) TextCenter(xCenter, y float64, s string, st Style, col color.Color) error {
	w := c.fonts.MeasureString(s, st)
	return c.Text(xCenter-w/2, y, s, st, col)
}

// DrawImage scales src into the rectangle at (x, y) sized w by h.
func (c *Canvas) DrawImage(src image.Image, x, y, w, h float64) {
	dst := image.Rect(int(x), int(y), int(x+w), int(y+h))
	xdraw.ApproxBiLinear.Scale(c.img, dst, src, src.Bounds(), xdraw.Over, nil)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
