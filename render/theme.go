package render

import (
	"fmt"
	"image/color"
)

// BarcodeKind selects the symbology used for the payment reference strip.
type BarcodeKind string

const (
	BarcodeNone   BarcodeKind = ""
	BarcodeQR     BarcodeKind = "qr"
	BarcodePDF417 BarcodeKind = "pdf417"
)

// Theme is a visual template: the palette and type scale one renderer
// varies between the built-in looks.
type Theme struct {
	Name       string
	Accent     color.RGBA
	AccentText color.RGBA
	Text       color.RGBA
	Muted      color.RGBA
	Border     color.RGBA
	RowFill    color.RGBA
	// HeaderRule draws a full-width accent bar above the document header.
	HeaderRule bool
	Barcode    BarcodeKind
}

// Classic is the default look: indigo accents and a QR payment code.
func Classic() Theme {
	return Theme{
		Name:       "classic",
		Accent:     color.RGBA{R: 63, G: 81, B: 181, A: 255},
		AccentText: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Text:       color.RGBA{R: 33, G: 33, B: 33, A: 255},
		Muted:      color.RGBA{R: 117, G: 117, B: 117, A: 255},
		Border:     color.RGBA{R: 200, G: 200, B: 200, A: 255},
		RowFill:    color.RGBA{R: 245, G: 245, B: 245, A: 255},
		HeaderRule: true,
		Barcode:    BarcodeQR,
	}
}

// Modern uses a teal palette and a PDF417 document-reference strip.
func Modern() Theme {
	return Theme{
		Name:       "modern",
		Accent:     color.RGBA{R: 0, G: 121, B: 107, A: 255},
		AccentText: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Text:       color.RGBA{R: 38, G: 50, B: 56, A: 255},
		Muted:      color.RGBA{R: 96, G: 125, B: 139, A: 255},
		Border:     color.RGBA{R: 176, G: 190, B: 197, A: 255},
		RowFill:    color.RGBA{R: 236, G: 239, B: 241, A: 255},
		HeaderRule: true,
		Barcode:    BarcodePDF417,
	}
}

// Minimal is monochrome with no barcode.
func Minimal() Theme {
	return Theme{
		Name:       "minimal",
		Accent:     color.RGBA{R: 33, G: 33, B: 33, A: 255},
		AccentText: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Text:       color.RGBA{R: 33, G: 33, B: 33, A: 255},
		Muted:      color.RGBA{R: 130, G: 130, B: 130, A: 255},
		Border:     color.RGBA{R: 180, G: 180, B: 180, A: 255},
		RowFill:    color.RGBA{R: 250, G: 250, B: 250, A: 255},
		Barcode:    BarcodeNone,
	}
}

// Themes lists the built-in theme names.
func Themes() []string {
	return []string{"classic", "modern", "minimal"}
}

// ThemeByName returns the built-in theme with the given name.
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "classic", "":
		return Classic(), nil
	case "modern":
		return Modern(), nil
	case "minimal":
		return Minimal(), nil
	}
	return Theme{}, fmt.Errorf("render: unknown theme %q", name)
}
