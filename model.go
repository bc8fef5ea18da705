package billcraft

import "strings"

// DocType identifies the kind of business document being produced.
type DocType string

const (
	DocTypeInvoice       DocType = "invoice"
	DocTypePurchaseOrder DocType = "purchase-order"
	DocTypeQuotation     DocType = "quotation"
)

// Title returns the human-readable heading for the document type.
func (t DocType) Title() string {
	switch t {
	case DocTypePurchaseOrder:
		return "Purchase Order"
	case DocTypeQuotation:
		return "Quotation"
	default:
		return "Tax Invoice"
	}
}

// GSTMode selects how GST is split across tax heads.
type GSTMode string

const (
	// GSTModeIGST applies the full rate as integrated GST (inter-state).
	GSTModeIGST GSTMode = "IGST"
	// GSTModeCGSTSGST splits the rate evenly between central and state GST.
	GSTModeCGSTSGST GSTMode = "CGST_SGST"
	// GSTModeNone disables tax computation entirely.
	GSTModeNone GSTMode = "NONE"
)

// LineItem is a single billable row on a document.
type LineItem struct {
	Service  string  `json:"service"`
	UnitCost float64 `json:"unitCost"`
	// Quantity of 0 is treated as 1 during computation.
	Quantity float64 `json:"quantity"`
	// GSTRate overrides the document-level rate when greater than zero.
	GSTRate float64 `json:"gstRate,omitempty"`
	// HSN is the HSN/SAC classification code used to group the tax summary.
	HSN string `json:"hsn,omitempty"`
}

// Party identifies one side of the transaction.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	GSTIN   string `json:"gstin,omitempty"`
}

// Company is the issuing party, extended with branding assets.
type Company struct {
	Party
	// LogoPath points at a PNG or JPEG on disk; empty means no logo.
	LogoPath string `json:"logoPath,omitempty"`
	// PaymentRef is encoded into the payment barcode when present,
	// e.g. a UPI address or bank reference.
	PaymentRef string `json:"paymentRef,omitempty"`
}

// Document is the complete set of user-entered fields a renderer consumes.
// It is owned by a single form container and never persisted server-side.
type Document struct {
	Type   DocType `json:"type"`
	Number string  `json:"number"`
	// Date is a display string, typically YYYY-MM-DD.
	Date    string     `json:"date"`
	DueDate string     `json:"dueDate,omitempty"`
	Company Company    `json:"company"`
	Client  Party      `json:"client"`
	Items   []LineItem `json:"items"`
	GSTMode GSTMode    `json:"gstMode"`
	// GSTRate is the document-level percentage applied to items that do not
	// carry their own rate.
	GSTRate float64 `json:"gstRate"`
	Notes   string  `json:"notes,omitempty"`
	Terms   string  `json:"terms,omitempty"`
}

// Validate reports whether the document carries the minimum data required
// for rendering.
func (d *Document) Validate() error {
	if d == nil {
		return ErrInvalidDocument
	}
	if strings.TrimSpace(d.Client.Name) == "" && len(d.Items) == 0 {
		return ErrInvalidDocument
	}
	switch d.GSTMode {
	case GSTModeIGST, GSTModeCGSTSGST, GSTModeNone, "":
	default:
		return ErrInvalidDocument
	}
	return nil
}

// FooterLine builds the one-line company summary embedded at the bottom of
// exported pages. Empty components are skipped.
func (d *Document) FooterLine() string {
	parts := make([]string, 0, 3)
	if d.Company.Name != "" {
		parts = append(parts, d.Company.Name)
	}
	if d.Company.Phone != "" {
		parts = append(parts, d.Company.Phone)
	}
	if d.Company.Email != "" {
		parts = append(parts, d.Company.Email)
	}
	return strings.Join(parts, "  |  ")
}
