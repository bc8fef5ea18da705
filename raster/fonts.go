// Package raster draws laid-out document content onto page-sized bitmaps.
//
// It is the rasterization capability the export pipeline depends on: a font
// set that must be loaded before any capture, and a Canvas with text, shape,
// and image primitives backed by golang.org/x/image.
package raster

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Style selects a face and color for text drawing. SizePx is the em size in
// canvas pixels.
type Style struct {
	SizePx float64
	Bold   bool
}

// FontSet parses and caches the faces used for rasterization. Loading is
// explicit: callers must Load (or WaitReady) before drawing text so capture
// never falls back to missing glyphs.
type FontSet struct {
	mu      sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
	loadErr error
	loaded  bool
}

type faceKey struct {
	size int // tenths of a pixel
	bold bool
}

// NewFontSet creates an empty, unloaded font set.
func NewFontSet() *FontSet {
	return &FontSet{faces: make(map[faceKey]font.Face)}
}

// Load parses the embedded font programs. It is idempotent; subsequent calls
// return the first result.
func (fs *FontSet) Load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.loadLocked()
}

func (fs *FontSet) loadLocked() error {
	if fs.loaded {
		return fs.loadErr
	}
	fs.loaded = true
	if fs.regular, fs.loadErr = opentype.Parse(goregular.TTF); fs.loadErr != nil {
		fs.loadErr = fmt.Errorf("raster: parsing regular font: %w", fs.loadErr)
		return fs.loadErr
	}
	if fs.bold, fs.loadErr = opentype.Parse(gobold.TTF); fs.loadErr != nil {
		fs.loadErr = fmt.Errorf("raster: parsing bold font: %w", fs.loadErr)
		return fs.loadErr
	}
	return nil
}

// Ready reports whether the fonts loaded successfully.
func (fs *FontSet) Ready() bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.loaded && fs.loadErr == nil
}

// face returns a cached face for the style, loading fonts on first use.
func (fs *FontSet) face(st Style) (font.Face, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.loadLocked(); err != nil {
		return nil, err
	}
	size := st.SizePx
	if size <= 0 {
		size = 12
	}
	key := faceKey{size: int(size * 10), bold: st.Bold}
	if f, ok := fs.faces[key]; ok {
		return f, nil
	}
	src := fs.regular
	if st.Bold {
		src = fs.bold
	}
	// DPI 72 makes the point size equal to the pixel size.
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: building face: %w", err)
	}
	fs.faces[key] = f
	return f, nil
}

// MeasureString returns the advance width of s in pixels. It reports 0 when
// the fonts are unavailable.
func (fs *FontSet) MeasureString(s string, st Style) float64 {
	f, err := fs.face(st)
	if err != nil {
		return 0
	}
	return fixedToFloat(font.MeasureString(f, s))
}

// LineHeight returns the recommended baseline-to-baseline distance for the
// style, in pixels.
func (fs *FontSet) LineHeight(st Style) float64 {
	f, err := fs.face(st)
	if err != nil {
		return st.SizePx * 1.3
	}
	return fixedToFloat(f.Metrics().Height)
}

// Ascent returns the distance from the baseline to the top of the tallest
// glyph, in pixels.
func (fs *FontSet) Ascent(st Style) float64 {
	f, err := fs.face(st)
	if err != nil {
		return st.SizePx * 0.8
	}
	return fixedToFloat(f.Metrics().Ascent)
}

// WrapText splits s into lines no wider than maxWidth pixels, breaking on
// spaces and honoring embedded newlines. A single word wider than maxWidth
// occupies its own line.
func (fs *FontSet) WrapText(s string, st Style, maxWidth float64) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			cand := line + " " + w
			if fs.MeasureString(cand, st) > maxWidth {
				out = append(out, line)
				line = w
				continue
			}
			line = cand
		}
		out = append(out, line)
	}
	return out
}
