package export

import "github.com/billcraft/billcraft/render"

// breakBuffer is the safety gap, in pixels, left between a page cut and a
// block pushed below it.
const breakBuffer = 8.0

// positionEpsilon absorbs sub-pixel measurement noise when comparing block
// edges against page cuts.
const positionEpsilon = 0.5

// Pagination is the result of break-point computation for one block tree.
type Pagination struct {
	// Offsets holds the downward shift applied to each block, index-aligned
	// with the input. Offsets are recomputed from scratch on every call, so
	// repeated pagination of the same layout never accumulates drift.
	Offsets []float64
	// Breaks are the page-cut offsets in adjusted document space, strictly
	// increasing with no duplicates.
	Breaks []float64
	// Height is the adjusted total document height.
	Height float64
	// Pages is the number of pages the document occupies.
	Pages int
}

// Paginate computes page cuts for the block tree under the given geometry.
//
// Walking top to bottom, it accumulates block extents against the current
// page's usable height (the first page is taller because no top margin is
// charged). An atomic block whose end would spill past the current cut is
// shifted down so it starts just below the cut instead of being split; all
// later blocks shift with it. Non-atomic blocks flow freely and may span
// cuts.
//
// Paginate is pure: it never modifies the input blocks.
func Paginate(blocks []render.Block, g Geometry) Pagination {
	p := Pagination{Offsets: make([]float64, len(blocks))}

	std := g.StandardPageHeight()
	cut := g.FirstPageHeight()
	pageStart := 0.0
	delta := 0.0

	for i := range blocks {
		b := &blocks[i]
		y := b.Y + delta

		// The block may start beyond one or more cuts already; advance the
		// page accounting to the page it starts on.
		for y >= cut-positionEpsilon {
			p.Breaks = append(p.Breaks, cut)
			pageStart = cut
			cut += std
		}

		if b.Atomic && y+b.Height > cut+positionEpsilon && y > pageStart+positionEpsilon {
			// Push the whole block below the cut rather than splitting it.
			push := cut + breakBuffer - y
			delta += push
			y += push
			p.Breaks = append(p.Breaks, cut)
			pageStart = cut
			cut += std
		}

		p.Offsets[i] = delta
		if end := y + b.Height; end > p.Height {
			p.Height = end
		}
	}

	// A trailing non-atomic block may run past the last recorded cut; keep
	// adding cuts until the remaining content fits.
	for cut < p.Height-positionEpsilon {
		p.Breaks = append(p.Breaks, cut)
		cut += std
	}

	// Drop any cut at or beyond the end of content.
	kept := p.Breaks[:0]
	for _, bp := range p.Breaks {
		if bp < p.Height-positionEpsilon && (len(kept) == 0 || bp > kept[len(kept)-1]) {
			kept = append(kept, bp)
		}
	}
	p.Breaks = kept
	p.Pages = len(p.Breaks) + 1
	return p
}
