// Package render turns document data plus a resolved template configuration
// into a measured tree of content blocks ready for pagination and raster
// capture.
//
// Atomicity is decided here, at construction time: tables, the document
// header, the tax summary, the totals box, and the signature block are
// atomic and must never straddle a page cut. Plain text flows freely.
package render

import "github.com/billcraft/billcraft/raster"

// BlockKind categorizes a content block.
type BlockKind string

const (
	BlockHeader     BlockKind = "header"
	BlockTable      BlockKind = "table"
	BlockTaxSummary BlockKind = "tax-summary"
	BlockText       BlockKind = "text"
	BlockOther      BlockKind = "other"
)

// Block is one top-level node of the rendered document. Y and Height are in
// canvas pixels relative to the document top; Atomic blocks must be kept
// whole during pagination.
type Block struct {
	Kind   BlockKind
	Y      float64
	Height float64
	Atomic bool

	draw func(c *raster.Canvas, y float64) error
}

// DrawTo paints the block onto c with its top edge at y.
func (b *Block) DrawTo(c *raster.Canvas, y float64) error {
	if b.draw == nil {
		return nil
	}
	return b.draw(c, y)
}

// Layout is the fully measured rendered document.
type Layout struct {
	// Width is the canvas width in pixels the blocks were measured against.
	Width int
	// Height is the total document height in pixels.
	Height float64
	Blocks []Block
}
