// Package export converts a rendered block tree into a multi-page A4 PDF.
//
// The pipeline mirrors an on-screen capture: it derives a pixel-per-
// millimeter scale from the rendered canvas width, computes page-cut offsets
// that never split an atomic block, nudges straddling blocks below the cut,
// rasterizes each page slice, and assembles the captured bitmaps into a PDF
// with go-pdf/fpdf.
package export

// Physical page constants, in millimeters (A4 portrait).
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// Margins are the vertical page margins in millimeters. The first page
// charges only the bottom margin; capture starts flush at the top of page 1.
type Margins struct {
	TopMM    float64
	BottomMM float64
}

// DefaultMargins matches the on-screen capture defaults.
func DefaultMargins() Margins {
	return Margins{TopMM: 10, BottomMM: 10}
}

// Geometry carries the pixel-space page measurements for one export run.
type Geometry struct {
	// PxPerMM converts millimeters to canvas pixels.
	PxPerMM float64
	// PageHeight is the full physical page height in pixels.
	PageHeight float64
	// TopMargin and BottomMargin are the page margins in pixels.
	TopMargin    float64
	BottomMargin float64
}

// ComputeGeometry derives the pixel geometry from the rendered canvas width.
func ComputeGeometry(canvasWidth int, m Margins) Geometry {
	scale := float64(canvasWidth) / PageWidthMM
	return Geometry{
		PxPerMM:      scale,
		PageHeight:   PageHeightMM * scale,
		TopMargin:    m.TopMM * scale,
		BottomMargin: m.BottomMM * scale,
	}
}

// FirstPageHeight is the usable content height of page 1: no top margin is
// charged because capture starts at the very top of the document.
func (g Geometry) FirstPageHeight() float64 {
	return g.PageHeight - g.BottomMargin
}

// StandardPageHeight is the usable content height of every page after the
// first.
func (g Geometry) StandardPageHeight() float64 {
	return g.PageHeight - g.TopMargin - g.BottomMargin
}
