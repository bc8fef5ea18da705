package export

import "time"

// Option is a functional option for configuring an Exporter.
type Option func(*Exporter)

// WithMargins sets the vertical page margins in millimeters.
func WithMargins(topMM, bottomMM float64) Option {
	return func(e *Exporter) {
		if topMM >= 0 {
			e.margins.TopMM = topMM
		}
		if bottomMM >= 0 {
			e.margins.BottomMM = bottomMM
		}
	}
}

// WithStationery layers every captured page on top of the first page of an
// existing PDF, typically a pre-printed letterhead.
func WithStationery(path string) Option {
	return func(e *Exporter) {
		e.stationery = path
	}
}

// WithSettleDelay inserts a pause between layout adjustment and raster
// capture. The built-in rasterizer needs none; the knob exists for callers
// embedding capture backends that reflow asynchronously.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Exporter) {
		if d >= 0 {
			e.settle = d
		}
	}
}

// WithFilenameFallback sets the base name used when the client name
// sanitizes to nothing. Defaults to "invoice".
func WithFilenameFallback(name string) Option {
	return func(e *Exporter) {
		if name != "" {
			e.fallbackName = name
		}
	}
}
