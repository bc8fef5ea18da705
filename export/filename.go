package export

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxFilenameComponent caps each sanitized component's length.
const maxFilenameComponent = 100

// Filename derives "{client}-{date}.pdf" from the client name and document
// date. Both components are sanitized to filesystem-safe form; empty results
// fall back to "invoice" and today's date.
func Filename(client, date string) string {
	return FilenameWithFallback(client, date, "invoice")
}

// FilenameWithFallback is Filename with a caller-chosen fallback base name,
// e.g. "quotation" for quotation documents.
func FilenameWithFallback(client, date, fallback string) string {
	c := sanitizeComponent(client)
	if c == "" {
		c = fallback
	}
	d := sanitizeComponent(date)
	if d == "" {
		d = time.Now().Format("2006-01-02")
	}
	return c + "-" + d + ".pdf"
}

// sanitizeComponent folds the string to filesystem-safe characters: letters,
// digits, underscore, and hyphen. Everything else becomes an underscore,
// runs of underscores collapse, and the result is trimmed and truncated.
func sanitizeComponent(s string) string {
	// Fold accented characters to their base letters before filtering so
	// "Café" becomes "Cafe" rather than "Caf_".
	decomposed := norm.NFKD.String(s)

	var b strings.Builder
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Drop combining marks left over from decomposition.
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	out = strings.Trim(out, "_")
	if len(out) > maxFilenameComponent {
		out = out[:maxFilenameComponent]
		out = strings.Trim(out, "_")
	}
	return out
}
