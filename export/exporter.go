package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	"github.com/billcraft/billcraft"
	"github.com/billcraft/billcraft/raster"
	"github.com/billcraft/billcraft/render"
)

// Meta carries the caller-supplied context for one export: the values used
// for the output filename and the page footer line.
type Meta struct {
	ClientName string
	Date       string
	// Footer is a one-line company/contact summary printed in the bottom
	// margin of every page. Empty disables the footer.
	Footer string
}

// Exporter captures rendered layouts into multi-page A4 PDFs.
//
// A single Exporter is reusable across documents. The export operation is
// not cancellable once capture has begun and is not resumable: on failure
// the caller re-invokes the whole pipeline.
type Exporter struct {
	fonts        *raster.FontSet
	margins      Margins
	stationery   string
	settle       time.Duration
	fallbackName string
}

// New creates an Exporter that rasterizes through the given font set.
func New(fonts *raster.FontSet, opts ...Option) *Exporter {
	e := &Exporter{
		fonts:        fonts,
		margins:      DefaultMargins(),
		fallbackName: "invoice",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Filename derives the output file name for the given meta.
func (e *Exporter) Filename(meta Meta) string {
	return FilenameWithFallback(meta.ClientName, meta.Date, e.fallbackName)
}

// Export runs the full pipeline and writes the finished PDF to w.
//
// Every failure - missing capability, empty layout, capture or assembly
// error - surfaces as a single *billcraft.ExportError and nothing is
// written, so the caller never receives a partial file.
func (e *Exporter) Export(ctx context.Context, layout *render.Layout, meta Meta, w io.Writer) error {
	buf, err := e.run(ctx, layout, meta)
	if err != nil {
		return billcraft.NewExportError("Export", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return billcraft.NewExportError("Export", fmt.Errorf("writing output: %w", err))
	}
	return nil
}

// ExportFile runs the pipeline and saves the PDF under the derived filename
// in dir, returning the full path. A file is only left behind on success.
func (e *Exporter) ExportFile(ctx context.Context, layout *render.Layout, meta Meta, dir string) (string, error) {
	buf, err := e.run(ctx, layout, meta)
	if err != nil {
		return "", billcraft.NewExportError("ExportFile", err)
	}
	path := filepath.Join(dir, e.Filename(meta))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		os.Remove(path)
		return "", billcraft.NewExportError("ExportFile", fmt.Errorf("saving %s: %w", path, err))
	}
	return path, nil
}

// run executes pipeline stages 1-9 and returns the assembled PDF in memory.
func (e *Exporter) run(ctx context.Context, layout *render.Layout, meta Meta) (*bytes.Buffer, error) {
	// Stage 1: the rasterization capability must be present.
	if e.fonts == nil {
		return nil, billcraft.ErrCapabilityUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Stage 2: wait for fonts so capture never uses missing glyphs.
	if err := e.fonts.Load(); err != nil {
		return nil, fmt.Errorf("%w: %v", billcraft.ErrCapabilityUnavailable, err)
	}

	if layout == nil || len(layout.Blocks) == 0 || layout.Width <= 0 {
		return nil, billcraft.ErrNoContent
	}

	// Stages 3-6: geometry, break points, layout adjustment.
	geom := ComputeGeometry(layout.Width, e.margins)
	pag := Paginate(layout.Blocks, geom)

	// Stage 7: settle before capture.
	if err := e.waitSettle(ctx); err != nil {
		return nil, err
	}

	// Stage 8: rasterize each page slice.
	pages, err := e.capture(layout, geom, pag)
	if err != nil {
		return nil, fmt.Errorf("capturing pages: %w", err)
	}

	// Stage 9: assemble the PDF.
	return e.assemble(pages, meta)
}

func (e *Exporter) waitSettle(ctx context.Context) error {
	if e.settle <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.settle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// capture draws every page slice into a page-sized canvas and encodes it as
// PNG. With stationery configured the canvases stay transparent so the
// imported background shows through.
func (e *Exporter) capture(layout *render.Layout, g Geometry, pag Pagination) ([][]byte, error) {
	pageH := int(math.Ceil(g.PageHeight))
	starts := append([]float64{0}, pag.Breaks...)

	out := make([][]byte, 0, len(starts))
	for pageIdx, sliceStart := range starts {
		sliceEnd := pag.Height
		if pageIdx < len(pag.Breaks) {
			sliceEnd = pag.Breaks[pageIdx]
		}

		var c *raster.Canvas
		if e.stationery != "" {
			c = raster.NewTransparentCanvas(layout.Width, pageH, e.fonts)
		} else {
			c = raster.NewCanvas(layout.Width, pageH, e.fonts)
		}

		// Page 1 starts flush at the top; later pages charge the top margin.
		offset := 0.0
		if pageIdx > 0 {
			offset = g.TopMargin
		}

		// Blocks spanning a cut are drawn on both pages; the band clip keeps
		// each page's share inside its usable area so margins stay blank.
		band := c.Clip(offset, offset+(sliceEnd-sliceStart))

		for i := range layout.Blocks {
			b := &layout.Blocks[i]
			y := b.Y + pag.Offsets[i]
			if y+b.Height <= sliceStart || y >= sliceEnd {
				continue
			}
			if err := b.DrawTo(band, y-sliceStart+offset); err != nil {
				return nil, fmt.Errorf("page %d, %s block: %w", pageIdx+1, b.Kind, err)
			}
		}

		var buf bytes.Buffer
		if err := c.EncodePNG(&buf); err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", pageIdx+1, err)
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}

// assemble builds the final PDF from the captured page images.
func (e *Exporter) assemble(pages [][]byte, meta Meta) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	var imp *gofpdi.Importer
	var stationeryTpl int
	if e.stationery != "" {
		imp = gofpdi.NewImporter()
		stationeryTpl = imp.ImportPage(pdf, e.stationery, 1, "/MediaBox")
	}

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	for i, png := range pages {
		pdf.AddPage()
		if imp != nil {
			imp.UseImportedTemplate(pdf, stationeryTpl, 0, 0, PageWidthMM, PageHeightMM)
		}
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(png))
		pdf.ImageOptions(name, 0, 0, PageWidthMM, PageHeightMM, false, opt, 0, "")

		if meta.Footer != "" {
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(120, 120, 120)
			pdf.SetXY(10, PageHeightMM-8)
			pdf.CellFormat(PageWidthMM-20, 5, meta.Footer, "", 0, "C", false, 0, "")
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("assembling pdf: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("assembling pdf: %w", err)
	}
	return &buf, nil
}
