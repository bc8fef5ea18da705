package render_test

import (
	"testing"

	"github.com/billcraft/billcraft"
	"github.com/billcraft/billcraft/raster"
	"github.com/billcraft/billcraft/render"
	"github.com/billcraft/billcraft/template"
)

func sampleDocument() *billcraft.Document {
	return &billcraft.Document{
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
			Name:    "Acme Traders",
			Address: "7 Park Street, Kolkata",
		},
		Items: []billcraft.LineItem{
			{Service: "Website development", UnitCost: 45000, Quantity: 1, HSN: "9983"},
			{Service: "Hosting (12 months)", UnitCost: 750, Quantity: 12, HSN: "9984"},
			{Service: "Domain", UnitCost: 1200, Quantity: 1},
		},
		GSTMode: billcraft.GSTModeCGSTSGST,
		GSTRate: 18,
		Notes:   "Payment due within 15 days.",
		Terms:   "Goods once sold will not be taken back.",
	}
}

func TestRenderProducesOrderedBlocks(t *testing.T) {
	fonts := raster.NewFontSet()
	r := render.New(fonts, render.Classic())
	cfg := template.Resolve(template.Default(billcraft.DocTypeInvoice), nil)

	layout, err := r.Render(sampleDocument(), cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(layout.Blocks) == 0 {
		t.Fatal("no blocks rendered")
	}
	if layout.Width != render.DefaultCanvasWidth {
		t.Errorf("width = %d, want %d", layout.Width, render.DefaultCanvasWidth)
	}

	prevEnd := -1.0
	for i, b := range layout.Blocks {
		if b.Height <= 0 {
			t.Errorf("block %d (%s) has height %v", i, b.Kind, b.Height)
		}
		if b.Y <= prevEnd {
			t.Errorf("block %d (%s) starts at %v, before previous end %v", i, b.Kind, b.Y, prevEnd)
		}
		prevEnd = b.Y + b.Height
	}
	if layout.Height < prevEnd {
		t.Errorf("layout height %v < last block end %v", layout.Height, prevEnd)
	}
}

func TestRenderAtomicityFlags(t *testing.T) {
	fonts := raster.NewFontSet()
	r := render.New(fonts, render.Classic())
	cfg := template.Resolve(template.Default(billcraft.DocTypeInvoice), nil)

	layout, err := r.Render(sampleDocument(), cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	kinds := map[render.BlockKind]bool{}
	for _, b := range layout.Blocks {
		kinds[b.Kind] = true
		switch b.Kind {
		case render.BlockHeader, render.BlockTable, render.BlockTaxSummary:
			if !b.Atomic {
				t.Errorf("%s block must be atomic", b.Kind)
			}
		case render.BlockText:
			if b.Atomic {
				t.Errorf("text block should be breakable")
			}
		}
	}
	for _, want := range []render.BlockKind{render.BlockHeader, render.BlockTable, render.BlockTaxSummary, render.BlockText, render.BlockOther} {
		if !kinds[want] {
			t.Errorf("missing %s block", want)
		}
	}
}

func TestRenderHonorsConfiguration(t *testing.T) {
	fonts := raster.NewFontSet()
	r := render.New(fonts, render.Minimal())
	def := template.Default(billcraft.DocTypeInvoice)

	hide := false
	cfg := template.Resolve(def, &template.Override{
		Sections: []template.SectionOverride{
			{ID: template.SectionTaxSummary, Visible: &hide},
			{ID: template.SectionNotes, Visible: &hide},
		},
	})

	layout, err := r.Render(sampleDocument(), cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, b := range layout.Blocks {
		if b.Kind == render.BlockTaxSummary {
			t.Error("hidden tax summary was rendered")
		}
	}

	full := template.Resolve(def, nil)
	fullLayout, err := r.Render(sampleDocument(), full)
	if err != nil {
		t.Fatalf("render full: %v", err)
	}
	if layout.Height >= fullLayout.Height {
		t.Errorf("hiding sections did not shrink the document: %v >= %v", layout.Height, fullLayout.Height)
	}
}

func TestRenderHeaderFieldVisibility(t *testing.T) {
	fonts := raster.NewFontSet()
	r := render.New(fonts, render.Classic())
	def := template.Default(billcraft.DocTypeInvoice)

	full, err := r.Render(sampleDocument(), template.Resolve(def, nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	hide := false
	cfg := template.Resolve(def, &template.Override{
		Sections: []template.SectionOverride{
			{ID: template.SectionHeader, Fields: []template.FieldOverride{
				{Key: "gstin", Visible: &hide},
			}},
		},
	})
	trimmed, err := r.Render(sampleDocument(), cfg)
	if err != nil {
		t.Fatalf("render trimmed: %v", err)
	}

	if full.Blocks[0].Kind != render.BlockHeader || trimmed.Blocks[0].Kind != render.BlockHeader {
		t.Fatal("first block is not the header")
	}
	if trimmed.Blocks[0].Height >= full.Blocks[0].Height {
		t.Errorf("hiding the gstin field did not shrink the header: %v >= %v",
			trimmed.Blocks[0].Height, full.Blocks[0].Height)
	}
}

func TestRenderTotalsBox(t *testing.T) {
	fonts := raster.NewFontSet()
	r := render.New(fonts, render.Minimal())
	def := template.Default(billcraft.DocTypeInvoice)

	hide := false
	bare := template.Resolve(def, &template.Override{
		Sections: []template.SectionOverride{
			{ID: template.SectionTotals, Visible: &hide},
		},
	})

	full, err := r.Render(sampleDocument(), template.Resolve(def, nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	without, err := r.Render(sampleDocument(), bare)
	if err != nil {
		t.Fatalf("render without totals: %v", err)
	}
	if without.Height >= full.Height {
		t.Errorf("hiding the totals section did not shrink the document: %v >= %v",
			without.Height, full.Height)
	}

	// The totals block sits between the tax summary and the signature and
	// must be atomic.
	var sawAtomicOther bool
	for _, b := range full.Blocks {
		if b.Kind == render.BlockOther && b.Atomic {
			sawAtomicOther = true
		}
	}
	if !sawAtomicOther {
		t.Error("no atomic totals block in the full layout")
	}
}

func TestRenderGSTModeNoneSkipsTaxSummary(t *testing.T) {
	fonts := raster.NewFontSet()
	r := render.New(fonts, render.Classic())
	cfg := template.Resolve(template.Default(billcraft.DocTypeInvoice), nil)

	doc := sampleDocument()
	doc.GSTMode = billcraft.GSTModeNone

	layout, err := r.Render(doc, cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, b := range layout.Blocks {
		if b.Kind == render.BlockTaxSummary {
			t.Error("tax summary rendered with GST disabled")
		}
	}
}

func TestRenderInvalidDocument(t *testing.T) {
	fonts := raster.NewFontSet()
	r := render.New(fonts, render.Classic())
	cfg := template.Resolve(template.Default(billcraft.DocTypeInvoice), nil)

	if _, err := r.Render(&billcraft.Document{}, cfg); err == nil {
		t.Error("expected error for empty document")
	}
}

func TestDrawBlocks(t *testing.T) {
	fonts := raster.NewFontSet()
	r := render.New(fonts, render.Modern())
	cfg := template.Resolve(template.Default(billcraft.DocTypeInvoice), nil)

	layout, err := r.Render(sampleDocument(), cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	c := raster.NewCanvas(layout.Width, int(layout.Height)+1, fonts)
	for i := range layout.Blocks {
		b := &layout.Blocks[i]
		if err := b.DrawTo(c, b.Y); err != nil {
			t.Fatalf("drawing block %d (%s): %v", i, b.Kind, err)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "Rs. 0.00"},
		{295, "Rs. 295.00"},
		{1234.5, "Rs. 1,234.50"},
		{1234567.89, "Rs. 12,34,567.89"},
		{123456789, "Rs. 12,34,56,789.00"},
		{-450, "-Rs. 450.00"},
	}
	for _, tc := range cases {
		if got := render.FormatCurrency(tc.in); got != tc.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2, "2"},
		{2.5, "2.5"},
		{0, "0"},
		{12.25, "12.25"},
	}
	for _, tc := range cases {
		if got := render.FormatNumber(tc.in); got != tc.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
