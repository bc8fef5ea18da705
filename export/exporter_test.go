package export_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/billcraft/billcraft"
	"github.com/billcraft/billcraft/export"
	"github.com/billcraft/billcraft/raster"
	"github.com/billcraft/billcraft/reader"
	"github.com/billcraft/billcraft/render"
	"github.com/billcraft/billcraft/template"
)

func sampleDocument(items int) *billcraft.Document {
	doc := &billcraft.Document{
		Type:   billcraft.DocTypeInvoice,
		Number: "INV-2025-0042",
		Date:   "2025-06-01",
		Company: billcraft.Company{
			Party: billcraft.Party{
				Name:    "Mahadev Solutions",
				Address: "14 MG Road, Bengaluru, Karnataka 560001",
				Phone:   "+91 98450 00000",
				Email:   "accounts@mahadev.example",
				GSTIN:   "29ABCDE1234F1Z5",
			},
			PaymentRef: "upi://pay?pa=mahadev@upi",
		},
		Client: billcraft.Party{
			Name:    "Iyer Textiles",
			Address: "5 Anna Salai, Chennai, Tamil Nadu 600002",
			GSTIN:   "33FGHIJ5678K2Z9",
		},
		GSTMode: billcraft.GSTModeCGSTSGST,
		GSTRate: 18,
	}
	for i := 0; i < items; i++ {
		doc.Items = append(doc.Items, billcraft.LineItem{
			Service:  fmt.Sprintf("Consulting engagement phase %d with extended scope notes", i+1),
			UnitCost: 1250,
			Quantity: float64(1 + i%3),
			HSN:      "9983",
		})
	}
	return doc
}

func renderSample(t *testing.T, items int) *render.Layout {
	t.Helper()
	fonts := raster.NewFontSet()
	r := render.New(fonts, render.Classic())
	layout, err := r.Render(sampleDocument(items), template.Default(billcraft.DocTypeInvoice))
	if err != nil {
		t.Fatalf("rendering sample: %v", err)
	}
	return layout
}

func TestExportSinglePage(t *testing.T) {
	layout := renderSample(t, 2)
	e := export.New(raster.NewFontSet())

	var buf bytes.Buffer
	meta := export.Meta{ClientName: "Iyer Textiles", Date: "2025-06-01", Footer: "Mahadev Solutions"}
	if err := e.Export(context.Background(), layout, meta, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	doc, err := reader.ReadFrom(&buf)
	if err != nil {
		t.Fatalf("inspecting output: %v", err)
	}
	if got := doc.NumPages(); got != 1 {
		t.Errorf("NumPages() = %d, want 1", got)
	}
}

func TestExportLongDocumentSpansPages(t *testing.T) {
	layout := renderSample(t, 40)
	e := export.New(raster.NewFontSet())

	var buf bytes.Buffer
	meta := export.Meta{ClientName: "Iyer Textiles", Date: "2025-06-01"}
	if err := e.Export(context.Background(), layout, meta, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	doc, err := reader.ReadFrom(&buf)
	if err != nil {
		t.Fatalf("inspecting output: %v", err)
	}
	if got := doc.NumPages(); got < 2 {
		t.Errorf("NumPages() = %d, want multi-page output", got)
	}
	t.Logf("40-item document produced %d pages, %d bytes", doc.NumPages(), buf.Len())
}

func TestExportFileUsesDerivedName(t *testing.T) {
	layout := renderSample(t, 2)
	e := export.New(raster.NewFontSet())
	dir := t.TempDir()

	meta := export.Meta{ClientName: "Iyer/Textiles", Date: "2025-06-01"}
	path, err := e.ExportFile(context.Background(), layout, meta, dir)
	if err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	if want := filepath.Join(dir, "Iyer_Textiles-2025-06-01.pdf"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if _, err := reader.Open(path); err != nil {
		t.Errorf("saved file is not a readable PDF: %v", err)
	}
}

func TestExportMissingCapability(t *testing.T) {
	layout := renderSample(t, 1)
	e := export.New(nil)

	err := e.Export(context.Background(), layout, export.Meta{}, &bytes.Buffer{})
	if !errors.Is(err, billcraft.ErrCapabilityUnavailable) {
		t.Errorf("error = %v, want ErrCapabilityUnavailable", err)
	}
	var ee *billcraft.ExportError
	if !errors.As(err, &ee) {
		t.Errorf("error = %T, want *billcraft.ExportError", err)
	}
}

func TestExportEmptyLayout(t *testing.T) {
	e := export.New(raster.NewFontSet())

	for _, layout := range []*render.Layout{nil, {Width: render.DefaultCanvasWidth}} {
		err := e.Export(context.Background(), layout, export.Meta{}, &bytes.Buffer{})
		if !errors.Is(err, billcraft.ErrNoContent) {
			t.Errorf("layout %+v: error = %v, want ErrNoContent", layout, err)
		}
	}
}

func TestExportCancelledContext(t *testing.T) {
	layout := renderSample(t, 2)
	e := export.New(raster.NewFontSet())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := e.Export(ctx, layout, export.Meta{}, &buf)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes on failure, want none", buf.Len())
	}
}

func TestExportWithStationery(t *testing.T) {
	letterhead := filepath.Join(t.TempDir(), "letterhead.pdf")
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFillColor(235, 238, 250)
	pdf.Rect(0, 0, 210, 30, "F")
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(10, 10)
	pdf.Cell(100, 10, "Mahadev Solutions")
	if err := pdf.OutputFileAndClose(letterhead); err != nil {
		t.Fatalf("building letterhead: %v", err)
	}

	layout := renderSample(t, 2)
	e := export.New(raster.NewFontSet(), export.WithStationery(letterhead))

	var buf bytes.Buffer
	if err := e.Export(context.Background(), layout, export.Meta{ClientName: "Iyer"}, &buf); err != nil {
		t.Fatalf("Export with stationery: %v", err)
	}
	doc, err := reader.ReadFrom(&buf)
	if err != nil {
		t.Fatalf("inspecting output: %v", err)
	}
	if doc.NumPages() < 1 {
		t.Error("stationery export produced no pages")
	}
}

func TestExporterFilename(t *testing.T) {
	e := export.New(raster.NewFontSet(), export.WithFilenameFallback("quotation"))
	got := e.Filename(export.Meta{Date: "2025-06-01"})
	if !strings.HasPrefix(got, "quotation-") {
		t.Errorf("Filename = %q, want quotation fallback", got)
	}
}
