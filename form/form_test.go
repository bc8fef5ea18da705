package form_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/billcraft/billcraft"
	"github.com/billcraft/billcraft/form"
	"github.com/billcraft/billcraft/reader"
	"github.com/billcraft/billcraft/store"
	"github.com/billcraft/billcraft/template"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fill(f *form.Form) {
	f.SetNumber("INV-2025-0001")
	f.SetDates("2025-06-01", "2025-06-15")
	f.SetCompany(billcraft.Company{
		Party: billcraft.Party{
			Name:    "Mahadev Solutions",
			Address: "14 MG Road, Bengaluru",
			Phone:   "+91 98450 00000",
			Email:   "accounts@mahadev.example",
			GSTIN:   "29ABCDE1234F1Z5",
		},
	})
	f.SetClient(billcraft.Party{Name: "Iyer Textiles", Address: "5 Anna Salai, Chennai"})
	f.AddItem(billcraft.LineItem{Service: "Site survey", UnitCost: 5000, Quantity: 1, HSN: "9983"})
	f.AddItem(billcraft.LineItem{Service: "Installation", UnitCost: 12000, Quantity: 2, HSN: "9987"})
}

func TestFormTotals(t *testing.T) {
	f := form.New(billcraft.DocTypeInvoice)
	fill(f)
	f.SetGST(billcraft.GSTModeCGSTSGST, 18)

	res := f.Totals()
	if res.Subtotal != 29000 {
		t.Errorf("Subtotal = %g, want 29000", res.Subtotal)
	}
	if res.TotalCGST != res.TotalSGST || res.TotalCGST == 0 {
		t.Errorf("split GST uneven: CGST %g, SGST %g", res.TotalCGST, res.TotalSGST)
	}
	if res.GrandTotal != res.Subtotal+res.TotalCGST+res.TotalSGST {
		t.Errorf("GrandTotal = %g, want subtotal plus tax", res.GrandTotal)
	}
}

func TestFormRemoveItem(t *testing.T) {
	f := form.New(billcraft.DocTypeInvoice)
	fill(f)

	f.RemoveItem(0)
	if got := len(f.Document().Items); got != 1 {
		t.Errorf("items after remove = %d, want 1", got)
	}
	f.RemoveItem(99)
	if got := len(f.Document().Items); got != 1 {
		t.Errorf("out-of-range remove changed items: %d", got)
	}
}

func TestFormDocumentIsACopy(t *testing.T) {
	f := form.New(billcraft.DocTypeInvoice)
	fill(f)

	doc := f.Document()
	doc.Items[0].Service = "tampered"
	if f.Document().Items[0].Service == "tampered" {
		t.Error("Document() shares item backing array with form state")
	}
}

func TestFormExportProducesPDF(t *testing.T) {
	f := form.New(billcraft.DocTypeInvoice)
	fill(f)

	var buf bytes.Buffer
	if err := f.Export(context.Background(), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	doc, err := reader.ReadFrom(&buf)
	if err != nil {
		t.Fatalf("inspecting output: %v", err)
	}
	if doc.NumPages() < 1 {
		t.Error("export produced no pages")
	}
	if f.Generating() {
		t.Error("Generating() still true after export returned")
	}
}

func TestFormExportFileName(t *testing.T) {
	f := form.New(billcraft.DocTypeInvoice)
	fill(f)

	path, err := f.ExportFile(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	if !strings.HasSuffix(path, "Iyer_Textiles-2025-06-01.pdf") {
		t.Errorf("path = %q, want derived client-date name", path)
	}
}

func TestFormExportInvalidDocument(t *testing.T) {
	f := form.New(billcraft.DocTypeInvoice)
	err := f.Export(context.Background(), &bytes.Buffer{})
	if !errors.Is(err, billcraft.ErrInvalidDocument) {
		t.Errorf("error = %v, want ErrInvalidDocument", err)
	}
}

func TestFormExportInFlightGuard(t *testing.T) {
	f := form.New(billcraft.DocTypeInvoice)
	fill(f)
	for i := 0; i < 60; i++ {
		f.AddItem(billcraft.LineItem{Service: "Filler line item with a reasonably long description", UnitCost: 100, Quantity: 1})
	}

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.Export(context.Background(), io.Discard)
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, billcraft.ErrExportInFlight):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok == 0 {
		t.Error("no export succeeded")
	}
	if ok+rejected != workers {
		t.Errorf("ok %d + rejected %d != %d workers", ok, rejected, workers)
	}
	if f.Generating() {
		t.Error("Generating() stuck true")
	}
}

func TestFormTemplateRoundTrip(t *testing.T) {
	st := store.New(t.TempDir(), store.WithLogger(quietLogger()))
	f := form.New(billcraft.DocTypeInvoice, form.WithStore(st), form.WithLogger(quietLogger()))
	fill(f)

	ed := f.Edit()
	if err := ed.SetSectionVisible(template.SectionNotes, false); err != nil {
		t.Fatalf("SetSectionVisible: %v", err)
	}
	if err := ed.RenameColumn(template.ColumnService, "Description"); err != nil {
		t.Fatalf("RenameColumn: %v", err)
	}
	f.ApplyOverride(ed.Override())
	f.SaveTemplate("monthly")

	// A fresh form restores the saved customizations.
	g := form.New(billcraft.DocTypeInvoice, form.WithStore(st), form.WithLogger(quietLogger()))
	g.LoadTemplate("monthly")

	cfg := g.Config()
	if sec := cfg.Section(template.SectionNotes); sec == nil || sec.Visible {
		t.Error("notes section still visible after restore")
	}
	if col := cfg.Column(template.ColumnService); col == nil || col.Label != "Description" {
		t.Error("column rename lost in round trip")
	}
}

func TestFormLoadTemplateMissingKeyLeavesDefaults(t *testing.T) {
	st := store.New(t.TempDir(), store.WithLogger(quietLogger()))
	f := form.New(billcraft.DocTypeInvoice, form.WithStore(st))
	f.LoadTemplate("never-saved")

	cfg := f.Config()
	def := template.Default(billcraft.DocTypeInvoice)
	if len(cfg.Sections) != len(def.Sections) {
		t.Errorf("sections = %d, want default %d", len(cfg.Sections), len(def.Sections))
	}
}

func TestFormSelectTheme(t *testing.T) {
	f := form.New(billcraft.DocTypeInvoice)
	f.SelectTheme("modern")
	if got := f.Theme().Name; got != "modern" {
		t.Errorf("theme = %q, want modern", got)
	}
	f.SelectTheme("no-such-theme")
	if got := f.Theme().Name; got != "classic" {
		t.Errorf("unknown theme fell back to %q, want classic", got)
	}
}
