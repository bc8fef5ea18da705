package export

import (
	"strings"
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	cases := []struct {
		client, date string
		want         string
	}{
		{"Mahadev Solutions", "2025-01-01", "Mahadev_Solutions-2025-01-01.pdf"},
		{"Mahadev/Solutions", "2025-01-01", "Mahadev_Solutions-2025-01-01.pdf"},
		{"  Acme & Co.  ", "2025-03-15", "Acme_Co-2025-03-15.pdf"},
		{"Café Müller", "2025-06-30", "Cafe_Muller-2025-06-30.pdf"},
		{"../../etc/passwd", "2025-01-01", "etc_passwd-2025-01-01.pdf"},
	}
	for _, tc := range cases {
		if got := Filename(tc.client, tc.date); got != tc.want {
			t.Errorf("Filename(%q, %q) = %q, want %q", tc.client, tc.date, got, tc.want)
		}
	}
}

func TestFilenameEmptyClientFallsBack(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	if got, want := Filename("", ""), "invoice-"+today+".pdf"; got != want {
		t.Errorf("Filename(\"\", \"\") = %q, want %q", got, want)
	}
	if got, want := Filename("///", "2025-01-01"), "invoice-2025-01-01.pdf"; got != want {
		t.Errorf("Filename(symbols) = %q, want %q", got, want)
	}
}

func TestFilenameWithFallback(t *testing.T) {
	got := FilenameWithFallback("", "2025-02-02", "quotation")
	if want := "quotation-2025-02-02.pdf"; got != want {
		t.Errorf("FilenameWithFallback = %q, want %q", got, want)
	}
}

func TestFilenameTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("VeryLongClientName", 20)
	got := Filename(long, "2025-01-01")
	base := strings.TrimSuffix(got, "-2025-01-01.pdf")
	if len(base) > maxFilenameComponent {
		t.Errorf("component length %d exceeds cap %d", len(base), maxFilenameComponent)
	}
	if strings.HasSuffix(base, "_") || strings.HasPrefix(base, "_") {
		t.Errorf("truncated component %q has dangling underscore", base)
	}
}
