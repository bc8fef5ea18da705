// Package reader is a minimal PDF inspector: enough of a parser to count
// pages and read the document information dictionary of generated files.
// It exists so exports can be verified without a full PDF implementation.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
)

// ErrEncrypted is returned for password-protected documents, which this
// inspector does not handle.
var ErrEncrypted = errors.New("reader: document is encrypted")

// Document is a parsed view of a PDF file.
type Document struct {
	pages int
	info  map[string]string
}

// Open reads and parses the PDF at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reader: opening %s: %w", path, err)
	}
	return Parse(data)
}

// ReadFrom parses a PDF from a stream.
func ReadFrom(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reader: reading input: %w", err)
	}
	return Parse(data)
}

// Parse parses an in-memory PDF.
func Parse(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, errors.New("reader: missing %PDF header")
	}
	if bytes.Contains(data, []byte("/Encrypt")) {
		return nil, ErrEncrypted
	}

	doc := &Document{info: make(map[string]string)}
	doc.pages = pageCount(data)
	if doc.pages == 0 {
		return nil, errors.New("reader: no pages found")
	}
	parseInfo(data, doc.info)
	return doc, nil
}

// NumPages returns the number of pages in the document.
func (d *Document) NumPages() int {
	return d.pages
}

// Info returns a document information value such as "Title" or "Producer",
// or "" when absent.
func (d *Document) Info(key string) string {
	return d.info[key]
}

var (
	rootRe  = regexp.MustCompile(`/Root\s+(\d+)\s+\d+\s+R`)
	pagesRe = regexp.MustCompile(`/Pages\s+(\d+)\s+\d+\s+R`)
	countRe = regexp.MustCompile(`/Count\s+(\d+)`)
	typeRe  = regexp.MustCompile(`/Type\s*/Page([^s]|$)`)
	infoRe  = regexp.MustCompile(`/Info\s+(\d+)\s+\d+\s+R`)
	entryRe = regexp.MustCompile(`/(Title|Author|Subject|Creator|Producer)\s*\(`)
)

// pageCount walks trailer -> catalog -> page tree root for the /Count
// entry, falling back to counting page objects when the structured walk
// fails.
func pageCount(data []byte) int {
	if m := rootRe.FindSubmatch(tail(data)); m != nil {
		rootNum, _ := strconv.Atoi(string(m[1]))
		if catalog := objectBody(data, rootNum); catalog != nil {
			if pm := pagesRe.FindSubmatch(catalog); pm != nil {
				pagesNum, _ := strconv.Atoi(string(pm[1]))
				if pages := objectBody(data, pagesNum); pages != nil {
					if cm := countRe.FindSubmatch(pages); cm != nil {
						if n, err := strconv.Atoi(string(cm[1])); err == nil && n > 0 {
							return n
						}
					}
				}
			}
		}
	}
	return len(typeRe.FindAllIndex(data, -1))
}

// objectBody returns the bytes of "num 0 obj ... endobj", or nil.
func objectBody(data []byte, num int) []byte {
	marker := []byte(fmt.Sprintf("\n%d 0 obj", num))
	idx := bytes.LastIndex(data, marker)
	if idx == -1 {
		marker = []byte(fmt.Sprintf("%d 0 obj", num))
		idx = bytes.Index(data, marker)
		if idx == -1 {
			return nil
		}
	}
	body := data[idx+len(marker):]
	if end := bytes.Index(body, []byte("endobj")); end != -1 {
		body = body[:end]
	}
	return body
}

// tail returns the last chunk of the file, where the trailer lives.
func tail(data []byte) []byte {
	const trailerWindow = 2048
	if len(data) <= trailerWindow {
		return data
	}
	return data[len(data)-trailerWindow:]
}

// parseInfo extracts literal-string entries from the information dictionary.
func parseInfo(data []byte, out map[string]string) {
	m := infoRe.FindSubmatch(tail(data))
	if m == nil {
		return
	}
	num, _ := strconv.Atoi(string(m[1]))
	body := objectBody(data, num)
	if body == nil {
		return
	}
	for _, loc := range entryRe.FindAllSubmatchIndex(body, -1) {
		key := string(body[loc[2]:loc[3]])
		if val, ok := literalString(body[loc[1]:]); ok {
			out[key] = val
		}
	}
}

// literalString reads a PDF literal string starting just after its opening
// parenthesis, honoring nesting and backslash escapes.
func literalString(data []byte) (string, bool) {
	var b bytes.Buffer
	depth := 1
	for i := 0; i < len(data); i++ {
		ch := data[i]
		switch ch {
		case '\\':
			if i+1 < len(data) {
				i++
				switch data[i] {
				case 'n':
					b.WriteByte('\n')
				case 'r':
					b.WriteByte('\r')
				case 't':
					b.WriteByte('\t')
				default:
					b.WriteByte(data[i])
				}
			}
		case '(':
			depth++
			b.WriteByte(ch)
		case ')':
			depth--
			if depth == 0 {
				return b.String(), true
			}
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}
	return "", false
}
