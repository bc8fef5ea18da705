package template

import (
	"time"

	"github.com/billcraft/billcraft"
	"github.com/google/uuid"
)

// Well-known section IDs produced by the defaults factory. Renderers key off
// these to decide what each section shows.
const (
	SectionHeader     = "header"
	SectionParties    = "parties"
	SectionItems      = "items"
	SectionTaxSummary = "tax-summary"
	SectionTotals     = "totals"
	SectionNotes      = "notes"
)

// Well-known column keys.
const (
	ColumnService  = "service"
	ColumnHSN      = "hsn"
	ColumnQuantity = "quantity"
	ColumnUnitCost = "unitCost"
	ColumnTax      = "tax"
	ColumnAmount   = "amount"
)

// Default builds the factory configuration for a document type. Every call
// returns a fresh value with a new ID.
func Default(docType billcraft.DocType) *Config {
	cfg := &Config{
		ID:        uuid.NewString(),
		Name:      string(docType) + "-default",
		CreatedAt: time.Now().UTC(),
		DocType:   docType,
		Sections: []Section{
			{
				ID: SectionHeader, Label: docType.Title(), Visible: true,
				Fields: []Field{
					{Key: "number", Label: numberLabel(docType), Visible: true, Required: true, Style: "bold"},
					{Key: "date", Label: "Date", Visible: true, Required: true},
					{Key: "dueDate", Label: "Due Date", Visible: docType == billcraft.DocTypeInvoice},
					{Key: "gstin", Label: "GSTIN", Visible: true},
				},
			},
			{
				ID: SectionParties, Label: partiesLabel(docType), Visible: true,
				Fields: []Field{
					{Key: "name", Label: "Name", Visible: true, Required: true, Style: "bold"},
					{Key: "address", Label: "Address", Visible: true},
					{Key: "phone", Label: "Phone", Visible: true},
					{Key: "email", Label: "Email", Visible: true},
					{Key: "gstin", Label: "GSTIN", Visible: true},
				},
			},
			{ID: SectionItems, Label: "Items", Visible: true},
			{ID: SectionTaxSummary, Label: "HSN/SAC Summary", Visible: true},
			{ID: SectionTotals, Label: "Totals", Visible: true},
			{
				ID: SectionNotes, Label: "Notes", Visible: true,
				Fields: []Field{
					{Key: "notes", Label: "Notes", Visible: true},
					{Key: "terms", Label: "Terms & Conditions", Visible: true, Style: "muted"},
				},
			},
		},
		Columns: []Column{
			{Key: ColumnService, Label: "Service", Visible: true, Width: 4, Format: FormatText},
			{Key: ColumnHSN, Label: "HSN/SAC", Visible: true, Width: 1.5, Format: FormatText},
			{Key: ColumnQuantity, Label: "Qty", Visible: true, Width: 1, Format: FormatNumber},
			{Key: ColumnUnitCost, Label: "Rate", Visible: true, Width: 1.5, Format: FormatCurrency},
			{Key: ColumnTax, Label: "Tax", Visible: true, Width: 1.5, Format: FormatCurrency},
			{Key: ColumnAmount, Label: "Amount", Visible: true, Width: 2, Format: FormatCurrency},
		},
		Signature: Signature{Visible: true, Label: "Authorized Signatory"},
	}
	normalize(cfg)
	return cfg
}

func numberLabel(t billcraft.DocType) string {
	switch t {
	case billcraft.DocTypePurchaseOrder:
		return "PO No."
	case billcraft.DocTypeQuotation:
		return "Quotation No."
	default:
		return "Invoice No."
	}
}

func partiesLabel(t billcraft.DocType) string {
	switch t {
	case billcraft.DocTypePurchaseOrder:
		return "Vendor"
	default:
		return "Bill To"
	}
}

// normalize rewrites every Order value to its slice position, keeping each
// ordered collection a contiguous zero-based sequence.
func normalize(cfg *Config) {
	for i := range cfg.Sections {
		cfg.Sections[i].Order = i
		for j := range cfg.Sections[i].Fields {
			cfg.Sections[i].Fields[j].Order = j
		}
	}
	for i := range cfg.Columns {
		cfg.Columns[i].Order = i
	}
}
