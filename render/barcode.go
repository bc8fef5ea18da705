package render

import (
	"fmt"
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/pdf417"
	"github.com/boombuler/barcode/qr"
)

// encodeBarcode produces a payment/reference barcode image of the requested
// symbology scaled to w by h pixels.
func encodeBarcode(kind BarcodeKind, payload string, w, h int) (image.Image, error) {
	var (
		code barcode.Barcode
		err  error
	)
	switch kind {
	case BarcodeQR:
		code, err = qr.Encode(payload, qr.M, qr.Auto)
	case BarcodePDF417:
		code, err = pdf417.Encode(payload, 2)
	default:
		return nil, fmt.Errorf("render: no barcode symbology configured")
	}
	if err != nil {
		return nil, fmt.Errorf("render: encoding %s barcode: %w", kind, err)
	}
	code, err = barcode.Scale(code, w, h)
	if err != nil {
		return nil, fmt.Errorf("render: scaling %s barcode: %w", kind, err)
	}
	return code, nil
}
