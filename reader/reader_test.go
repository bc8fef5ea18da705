package reader_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/billcraft/billcraft/reader"
)

func buildPDF(t *testing.T, pages int, title string) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	if title != "" {
		pdf.SetTitle(title, false)
	}
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(40, 10, "page content")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building test pdf: %v", err)
	}
	return buf.Bytes()
}

func TestParseCountsPages(t *testing.T) {
	for _, pages := range []int{1, 3, 7} {
		doc, err := reader.Parse(buildPDF(t, pages, ""))
		if err != nil {
			t.Fatalf("Parse(%d pages): %v", pages, err)
		}
		if got := doc.NumPages(); got != pages {
			t.Errorf("NumPages() = %d, want %d", got, pages)
		}
	}
}

func TestParseReadsInfo(t *testing.T) {
	doc, err := reader.Parse(buildPDF(t, 1, "March Invoice"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := doc.Info("Title"); got != "March Invoice" {
		t.Errorf("Info(Title) = %q, want %q", got, "March Invoice")
	}
	if doc.Info("Producer") == "" {
		t.Error("Info(Producer) is empty, want the generator name")
	}
}

func TestOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	data := buildPDF(t, 2, "")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	doc, err := reader.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := doc.NumPages(); got != 2 {
		t.Errorf("NumPages() = %d, want 2", got)
	}
}

func TestReadFrom(t *testing.T) {
	doc, err := reader.ReadFrom(bytes.NewReader(buildPDF(t, 4, "")))
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if got := doc.NumPages(); got != 4 {
		t.Errorf("NumPages() = %d, want 4", got)
	}
}

func TestParseRejectsNonPDF(t *testing.T) {
	if _, err := reader.Parse([]byte("just some text")); err == nil {
		t.Error("Parse accepted non-PDF input")
	}
}

func TestParseRejectsEncrypted(t *testing.T) {
	data := buildPDF(t, 1, "")
	idx := bytes.Index(data, []byte("trailer"))
	if idx == -1 {
		t.Skip("no trailer keyword in fixture")
	}
	tampered := append([]byte{}, data[:idx]...)
	tampered = append(tampered, []byte("/Encrypt 9 0 R\n")...)
	tampered = append(tampered, data[idx:]...)

	_, err := reader.Parse(tampered)
	if !errors.Is(err, reader.ErrEncrypted) {
		t.Errorf("Parse error = %v, want ErrEncrypted", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := reader.Open(filepath.Join(t.TempDir(), "nope.pdf"))
	if err == nil || !strings.Contains(err.Error(), "nope.pdf") {
		t.Errorf("Open error = %v, want path in message", err)
	}
}
