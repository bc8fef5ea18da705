package render

import (
	"fmt"
	"image"
	"image/color"
	"os"

	_ "image/jpeg" // logo decoding
	_ "image/png"

	"github.com/billcraft/billcraft"
	"github.com/billcraft/billcraft/raster"
	"github.com/billcraft/billcraft/tax"
	"github.com/billcraft/billcraft/template"
)

// DefaultCanvasWidth is the document width in pixels, approximately 210mm at
// 96 dpi. The export pipeline derives its pixel-per-millimeter scale from
// this width.
const DefaultCanvasWidth = 794

// Renderer lays out a document through one visual theme. It is stateless
// across calls; every Render produces a fresh block tree.
type Renderer struct {
	fonts  *raster.FontSet
	theme  Theme
	width  int
	margin float64
	gap    float64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCanvasWidth overrides the canvas width in pixels.
func WithCanvasWidth(w int) Option {
	return func(r *Renderer) {
		if w >= 300 {
			r.width = w
		}
	}
}

// WithSideMargin overrides the left/right content margin in pixels.
func WithSideMargin(m float64) Option {
	return func(r *Renderer) {
		if m >= 0 {
			r.margin = m
		}
	}
}

// New creates a renderer for the given theme.
func New(fonts *raster.FontSet, theme Theme, opts ...Option) *Renderer {
	r := &Renderer{
		fonts:  fonts,
		theme:  theme,
		width:  DefaultCanvasWidth,
		margin: 40,
		gap:    18,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Render lays out the document under the resolved configuration and returns
// the measured block tree. Sections are emitted in configuration order;
// hidden sections and columns are skipped.
func (r *Renderer) Render(doc *billcraft.Document, cfg *template.Config) (*Layout, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := r.fonts.Load(); err != nil {
		return nil, fmt.Errorf("render: loading fonts: %w", err)
	}

	b := &builder{
		r:      r,
		doc:    doc,
		cfg:    cfg,
		totals: tax.Compute(doc.Items, doc.GSTMode, doc.GSTRate),
	}

	for _, sec := range cfg.Sections {
		if !sec.Visible {
			continue
		}
		var err error
		switch sec.ID {
		case template.SectionHeader:
			err = b.header(sec)
		case template.SectionParties:
			b.parties(sec)
		case template.SectionItems:
			b.items()
		case template.SectionTaxSummary:
			b.taxSummary(sec)
		case template.SectionTotals:
			b.totalsBox()
		case template.SectionNotes:
			b.notes(sec)
		default:
			b.custom(sec)
		}
		if err != nil {
			return nil, err
		}
	}
	if r.theme.Barcode != BarcodeNone {
		if err := b.paymentStrip(); err != nil {
			return nil, err
		}
	}
	if cfg.Signature.Visible {
		b.signature(cfg.Signature)
	}

	height := b.y
	if len(b.blocks) > 0 {
		height -= r.gap
	}
	return &Layout{Width: r.width, Height: height, Blocks: b.blocks}, nil
}

// builder accumulates measured blocks top to bottom.
type builder struct {
	r      *Renderer
	doc    *billcraft.Document
	cfg    *template.Config
	totals tax.Result
	blocks []Block
	y      float64
}

func (b *builder) add(kind BlockKind, atomic bool, h float64, draw func(c *raster.Canvas, y float64) error) {
	b.blocks = append(b.blocks, Block{Kind: kind, Y: b.y, Height: h, Atomic: atomic, draw: draw})
	b.y += h + b.r.gap
}

func (b *builder) contentWidth() float64 {
	return float64(b.r.width) - 2*b.r.margin
}

// Type scale.
func (b *builder) titleStyle() raster.Style { return raster.Style{SizePx: 22, Bold: true} }
func (b *builder) h2Style() raster.Style    { return raster.Style{SizePx: 15, Bold: true} }
func (b *builder) bodyStyle() raster.Style  { return raster.Style{SizePx: 13} }
func (b *builder) boldStyle() raster.Style  { return raster.Style{SizePx: 13, Bold: true} }
func (b *builder) smallStyle() raster.Style { return raster.Style{SizePx: 11} }

func (b *builder) header(sec template.Section) error {
	th := b.r.theme
	m := b.r.margin
	cw := b.contentWidth()
	fonts := b.r.fonts

	var logo image.Image
	if b.doc.Company.LogoPath != "" {
		if f, err := os.Open(b.doc.Company.LogoPath); err == nil {
			img, _, derr := image.Decode(f)
			f.Close()
			if derr == nil {
				logo = img
			}
		}
		// An unreadable logo is dropped rather than failing the render.
	}

	// Left column: logo, company identity.
	leftX := m
	if logo != nil {
		leftX += 64
	}
	leftW := cw*0.55 - (leftX - m)
	type line struct {
		text string
		st   raster.Style
		col  color.Color
	}
	var left []line
	if b.doc.Company.Name != "" {
		left = append(left, line{b.doc.Company.Name, b.titleStyle(), th.Text})
	}
	for _, l := range fonts.WrapText(b.doc.Company.Address, b.bodyStyle(), leftW) {
		if l != "" {
			left = append(left, line{l, b.bodyStyle(), th.Muted})
		}
	}
	if b.doc.Company.Phone != "" {
		left = append(left, line{b.doc.Company.Phone, b.bodyStyle(), th.Muted})
	}
	if b.doc.Company.Email != "" {
		left = append(left, line{b.doc.Company.Email, b.bodyStyle(), th.Muted})
	}
	if fieldVisible(sec, "gstin") && b.doc.Company.GSTIN != "" {
		left = append(left, line{"GSTIN: " + b.doc.Company.GSTIN, b.bodyStyle(), th.Text})
	}

	// Right column: document title and meta fields.
	var right []line
	right = append(right, line{b.doc.Type.Title(), raster.Style{SizePx: 20, Bold: true}, th.Accent})
	for _, fld := range sec.Fields {
		if !fld.Visible {
			continue
		}
		val := b.headerFieldValue(fld.Key)
		if val == "" {
			continue
		}
		st := b.bodyStyle()
		col := color.Color(th.Text)
		if fld.Style == "bold" {
			st = b.boldStyle()
		}
		if fld.Style == "muted" {
			col = th.Muted
		}
		right = append(right, line{fld.Label + ": " + val, st, col})
	}

	lineH := func(ls []line) float64 {
		h := 0.0
		for _, l := range ls {
			h += fonts.LineHeight(l.st)
		}
		return h
	}
	pad := 14.0
	rule := 0.0
	if th.HeaderRule {
		rule = 6
	}
	bodyH := lineH(left)
	if lh := lineH(right); lh > bodyH {
		bodyH = lh
	}
	if logo != nil && bodyH < 56 {
		bodyH = 56
	}
	h := rule + pad + bodyH + pad

	b.add(BlockHeader, true, h, func(c *raster.Canvas, y float64) error {
		if th.HeaderRule {
			c.FillRect(0, y, float64(b.r.width), rule, th.Accent)
		}
		if logo != nil {
			c.DrawImage(logo, m, y+rule+pad, 52, 52)
		}
		ly := y + rule + pad
		for _, l := range left {
			ly += fonts.Ascent(l.st)
			if err := c.Text(leftX, ly, l.text, l.st, l.col); err != nil {
				return err
			}
			ly += fonts.LineHeight(l.st) - fonts.Ascent(l.st)
		}
		ry := y + rule + pad
		for _, l := range right {
			ry += fonts.Ascent(l.st)
			if err := c.TextRight(m+cw, ry, l.text, l.st, l.col); err != nil {
				return err
			}
			ry += fonts.LineHeight(l.st) - fonts.Ascent(l.st)
		}
		c.HLine(m, y+h-1, cw, th.Border, 1)
		return nil
	})
	return nil
}

// fieldVisible reports whether the section configures the field as visible.
// Fields the configuration does not mention default to visible.
func fieldVisible(sec template.Section, key string) bool {
	for _, fld := range sec.Fields {
		if fld.Key == key {
			return fld.Visible
		}
	}
	return true
}

func (b *builder) headerFieldValue(key string) string {
	switch key {
	case "number":
		return b.doc.Number
	case "date":
		return b.doc.Date
	case "dueDate":
		return b.doc.DueDate
	case "gstin":
		// Shown in the left column with the company identity.
		return ""
	}
	return ""
}

func (b *builder) parties(sec template.Section) {
	th := b.r.theme
	m := b.r.margin
	fonts := b.r.fonts
	colW := b.contentWidth() * 0.6

	type line struct {
		text string
		st   raster.Style
		col  color.Color
	}
	lines := []line{{sec.Label, b.h2Style(), th.Accent}}
	for _, fld := range sec.Fields {
		if !fld.Visible {
			continue
		}
		val := b.clientFieldValue(fld.Key)
		if val == "" {
			continue
		}
		st := b.bodyStyle()
		col := color.Color(th.Text)
		switch fld.Style {
		case "bold":
			st = b.boldStyle()
		case "muted":
			col = th.Muted
		}
		prefix := ""
		if fld.Key != "name" && fld.Key != "address" {
			prefix = fld.Label + ": "
		}
		for _, wrapped := range fonts.WrapText(prefix+val, st, colW) {
			lines = append(lines, line{wrapped, st, col})
		}
	}

	h := 0.0
	for _, l := range lines {
		h += fonts.LineHeight(l.st)
	}
	h += 4

	b.add(BlockText, false, h, func(c *raster.Canvas, y float64) error {
		ly := y
		for _, l := range lines {
			ly += fonts.Ascent(l.st)
			if err := c.Text(m, ly, l.text, l.st, l.col); err != nil {
				return err
			}
			ly += fonts.LineHeight(l.st) - fonts.Ascent(l.st)
		}
		return nil
	})
}

func (b *builder) clientFieldValue(key string) string {
	switch key {
	case "name":
		return b.doc.Client.Name
	case "address":
		return b.doc.Client.Address
	case "phone":
		return b.doc.Client.Phone
	case "email":
		return b.doc.Client.Email
	case "gstin":
		return b.doc.Client.GSTIN
	}
	return ""
}

// items renders the line-item table as a single atomic block.
func (b *builder) items() {
	cols := b.cfg.VisibleColumns()
	if len(cols) == 0 || len(b.totals.Lines) == 0 {
		return
	}
	th := b.r.theme
	m := b.r.margin
	cw := b.contentWidth()
	fonts := b.r.fonts

	weight := 0.0
	for _, col := range cols {
		w := col.Width
		if w <= 0 {
			w = 1
		}
		weight += w
	}
	widths := make([]float64, len(cols))
	for i, col := range cols {
		w := col.Width
		if w <= 0 {
			w = 1
		}
		widths[i] = cw * w / weight
	}

	const cellPad = 7.0
	headStyle := raster.Style{SizePx: 12, Bold: true}
	cellStyle := b.bodyStyle()
	headH := fonts.LineHeight(headStyle) + 2*cellPad

	// Wrap every cell up front so row heights are known before drawing.
	rows := make([][][]string, len(b.totals.Lines))
	rowHs := make([]float64, len(b.totals.Lines))
	for i, ln := range b.totals.Lines {
		cells := make([][]string, len(cols))
		maxLines := 1
		for j, col := range cols {
			text := b.cellValue(col, ln)
			wrapped := fonts.WrapText(text, cellStyle, widths[j]-2*cellPad)
			if len(wrapped) == 0 {
				wrapped = []string{""}
			}
			cells[j] = wrapped
			if len(wrapped) > maxLines {
				maxLines = len(wrapped)
			}
		}
		rows[i] = cells
		rowHs[i] = float64(maxLines)*fonts.LineHeight(cellStyle) + 2*cellPad
	}

	h := headH
	for _, rh := range rowHs {
		h += rh
	}

	b.add(BlockTable, true, h, func(c *raster.Canvas, y float64) error {
		// Header row.
		c.FillRect(m, y, cw, headH, th.Accent)
		x := m
		for j, col := range cols {
			baseY := y + cellPad + fonts.Ascent(headStyle)
			var err error
			if numericColumn(col.Format) {
				err = c.TextRight(x+widths[j]-cellPad, baseY, col.Label, headStyle, th.AccentText)
			} else {
				err = c.Text(x+cellPad, baseY, col.Label, headStyle, th.AccentText)
			}
			if err != nil {
				return err
			}
			x += widths[j]
		}

		// Body rows.
		ry := y + headH
		for i, cells := range rows {
			if i%2 == 1 {
				c.FillRect(m, ry, cw, rowHs[i], th.RowFill)
			}
			x = m
			for j, col := range cols {
				ty := ry + cellPad
				for _, lineText := range cells[j] {
					baseY := ty + fonts.Ascent(cellStyle)
					var err error
					if numericColumn(col.Format) {
						err = c.TextRight(x+widths[j]-cellPad, baseY, lineText, cellStyle, th.Text)
					} else {
						err = c.Text(x+cellPad, baseY, lineText, cellStyle, th.Text)
					}
					if err != nil {
						return err
					}
					ty += fonts.LineHeight(cellStyle)
				}
				x += widths[j]
			}
			ry += rowHs[i]
			c.HLine(m, ry-1, cw, th.Border, 1)
		}
		c.StrokeRect(m, y, cw, h, th.Border, 1)
		return nil
	})
}

func numericColumn(f template.Format) bool {
	return f == template.FormatNumber || f == template.FormatCurrency
}

func (b *builder) cellValue(col template.Column, ln tax.Line) string {
	switch col.Key {
	case template.ColumnService:
		return ln.Service
	case template.ColumnHSN:
		if ln.HSN == "" {
			return tax.UnclassifiedHSN
		}
		return ln.HSN
	case template.ColumnQuantity:
		qty := ln.Quantity
		if qty == 0 {
			qty = 1
		}
		return formatByColumn(col.Format, qty)
	case template.ColumnUnitCost:
		return formatByColumn(col.Format, ln.UnitCost)
	case template.ColumnTax:
		return formatByColumn(col.Format, ln.CGST+ln.SGST+ln.IGST)
	case template.ColumnAmount:
		return formatByColumn(col.Format, ln.Amount)
	}
	// Custom columns have no backing data yet.
	return "-"
}

// taxSummary renders the per-HSN aggregation as a single atomic block.
func (b *builder) taxSummary(sec template.Section) {
	if b.doc.GSTMode == billcraft.GSTModeNone || len(b.totals.Groups) == 0 {
		return
	}
	th := b.r.theme
	m := b.r.margin
	cw := b.contentWidth()
	fonts := b.r.fonts

	split := b.doc.GSTMode == billcraft.GSTModeCGSTSGST
	heads := []string{"HSN/SAC", "Taxable Value"}
	if split {
		heads = append(heads, "CGST", "SGST")
	} else {
		heads = append(heads, "IGST")
	}
	heads = append(heads, "Total Tax")

	colW := cw / float64(len(heads))
	const cellPad = 6.0
	headStyle := raster.Style{SizePx: 11, Bold: true}
	cellStyle := b.smallStyle()
	rowH := fonts.LineHeight(cellStyle) + 2*cellPad
	headH := fonts.LineHeight(headStyle) + 2*cellPad
	labelH := fonts.LineHeight(b.h2Style()) + 6

	rows := make([][]string, 0, len(b.totals.Groups))
	for _, g := range b.totals.Groups {
		row := []string{g.HSN, FormatCurrency(g.TaxableValue)}
		if split {
			row = append(row, FormatCurrency(g.CGST), FormatCurrency(g.SGST))
		} else {
			row = append(row, FormatCurrency(g.IGST))
		}
		row = append(row, FormatCurrency(g.CGST+g.SGST+g.IGST))
		rows = append(rows, row)
	}

	h := labelH + headH + float64(len(rows))*rowH

	b.add(BlockTaxSummary, true, h, func(c *raster.Canvas, y float64) error {
		if err := c.Text(m, y+fonts.Ascent(b.h2Style()), sec.Label, b.h2Style(), th.Accent); err != nil {
			return err
		}
		ty := y + labelH
		c.FillRect(m, ty, cw, headH, th.RowFill)
		for j, head := range heads {
			x := m + float64(j)*colW
			baseY := ty + cellPad + fonts.Ascent(headStyle)
			if j == 0 {
				if err := c.Text(x+cellPad, baseY, head, headStyle, th.Text); err != nil {
					return err
				}
			} else if err := c.TextRight(x+colW-cellPad, baseY, head, headStyle, th.Text); err != nil {
				return err
			}
		}
		ty += headH
		for _, row := range rows {
			for j, cell := range row {
				x := m + float64(j)*colW
				baseY := ty + cellPad + fonts.Ascent(cellStyle)
				if j == 0 {
					if err := c.Text(x+cellPad, baseY, cell, cellStyle, th.Text); err != nil {
						return err
					}
				} else if err := c.TextRight(x+colW-cellPad, baseY, cell, cellStyle, th.Text); err != nil {
					return err
				}
			}
			ty += rowH
			c.HLine(m, ty-1, cw, th.Border, 1)
		}
		c.StrokeRect(m, y+labelH, cw, h-labelH, th.Border, 1)
		return nil
	})
}

// totalsBox renders the aggregate box. It is atomic: a page cut through the
// grand total is never acceptable.
func (b *builder) totalsBox() {
	th := b.r.theme
	m := b.r.margin
	cw := b.contentWidth()
	fonts := b.r.fonts

	type row struct {
		label, value string
		grand        bool
	}
	rows := []row{{"Subtotal", FormatCurrency(b.totals.Subtotal), false}}
	switch b.doc.GSTMode {
	case billcraft.GSTModeCGSTSGST:
		rows = append(rows,
			row{"CGST", FormatCurrency(b.totals.TotalCGST), false},
			row{"SGST", FormatCurrency(b.totals.TotalSGST), false},
		)
	case billcraft.GSTModeIGST:
		rows = append(rows, row{"IGST", FormatCurrency(b.totals.TotalIGST), false})
	}
	rows = append(rows, row{"Grand Total", FormatCurrency(b.totals.GrandTotal), true})

	boxW := cw * 0.45
	if boxW < 220 {
		boxW = 220
	}
	const rowPad = 8.0
	rowH := fonts.LineHeight(b.bodyStyle()) + rowPad
	grandH := fonts.LineHeight(b.boldStyle()) + rowPad + 4
	h := float64(len(rows)-1)*rowH + grandH

	b.add(BlockOther, true, h, func(c *raster.Canvas, y float64) error {
		x := m + cw - boxW
		ty := y
		for _, r := range rows {
			st := b.bodyStyle()
			labelCol := color.Color(th.Muted)
			valueCol := color.Color(th.Text)
			rh := rowH
			if r.grand {
				st = b.boldStyle()
				rh = grandH
				c.FillRect(x, ty, boxW, rh, th.Accent)
				labelCol = th.AccentText
				valueCol = th.AccentText
			}
			baseY := ty + rh/2 + fonts.Ascent(st)/2 - 1
			if err := c.Text(x+10, baseY, r.label, st, labelCol); err != nil {
				return err
			}
			if err := c.TextRight(x+boxW-10, baseY, r.value, st, valueCol); err != nil {
				return err
			}
			if !r.grand {
				c.HLine(x, ty+rh-1, boxW, th.Border, 1)
			}
			ty += rh
		}
		return nil
	})
}

func (b *builder) notes(sec template.Section) {
	th := b.r.theme
	m := b.r.margin
	cw := b.contentWidth()
	fonts := b.r.fonts

	type line struct {
		text string
		st   raster.Style
		col  color.Color
	}
	var lines []line
	for _, fld := range sec.Fields {
		if !fld.Visible {
			continue
		}
		var val string
		switch fld.Key {
		case "notes":
			val = b.doc.Notes
		case "terms":
			val = b.doc.Terms
		}
		if val == "" {
			continue
		}
		lines = append(lines, line{fld.Label, b.boldStyle(), th.Text})
		for _, wrapped := range fonts.WrapText(val, b.smallStyle(), cw) {
			lines = append(lines, line{wrapped, b.smallStyle(), th.Muted})
		}
	}
	if len(lines) == 0 {
		return
	}

	h := 0.0
	for _, l := range lines {
		h += fonts.LineHeight(l.st)
	}

	b.add(BlockText, false, h, func(c *raster.Canvas, y float64) error {
		ly := y
		for _, l := range lines {
			ly += fonts.Ascent(l.st)
			if err := c.Text(m, ly, l.text, l.st, l.col); err != nil {
				return err
			}
			ly += fonts.LineHeight(l.st) - fonts.Ascent(l.st)
		}
		return nil
	})
}

// custom renders an override-defined section as a labelled field list.
func (b *builder) custom(sec template.Section) {
	th := b.r.theme
	m := b.r.margin
	fonts := b.r.fonts

	lines := []string{}
	for _, fld := range sec.Fields {
		if fld.Visible {
			lines = append(lines, fld.Label)
		}
	}

	labelH := fonts.LineHeight(b.h2Style())
	h := labelH + float64(len(lines))*fonts.LineHeight(b.bodyStyle())

	b.add(BlockText, false, h, func(c *raster.Canvas, y float64) error {
		if err := c.Text(m, y+fonts.Ascent(b.h2Style()), sec.Label, b.h2Style(), th.Accent); err != nil {
			return err
		}
		ly := y + labelH
		for _, text := range lines {
			ly += fonts.Ascent(b.bodyStyle())
			if err := c.Text(m, ly, text, b.bodyStyle(), th.Text); err != nil {
				return err
			}
			ly += fonts.LineHeight(b.bodyStyle()) - fonts.Ascent(b.bodyStyle())
		}
		return nil
	})
}

// paymentStrip renders the payment/reference barcode.
func (b *builder) paymentStrip() error {
	payload := b.doc.Company.PaymentRef
	caption := "Scan to pay"
	if payload == "" {
		payload = b.doc.Number
		caption = "Document reference"
	}
	if payload == "" {
		return nil
	}

	th := b.r.theme
	m := b.r.margin
	fonts := b.r.fonts

	var imgW, imgH int
	switch th.Barcode {
	case BarcodePDF417:
		imgW, imgH = 220, 70
	default:
		imgW, imgH = 96, 96
	}
	img, err := encodeBarcode(th.Barcode, payload, imgW, imgH)
	if err != nil {
		return err
	}

	capH := fonts.LineHeight(b.smallStyle())
	h := float64(imgH) + 6 + capH

	b.add(BlockOther, true, h, func(c *raster.Canvas, y float64) error {
		c.DrawImage(img, m, y, float64(imgW), float64(imgH))
		return c.Text(m, y+float64(imgH)+6+fonts.Ascent(b.smallStyle()), caption, b.smallStyle(), th.Muted)
	})
	return nil
}

// signature renders the authorized-signature block.
func (b *builder) signature(sig template.Signature) {
	th := b.r.theme
	m := b.r.margin
	cw := b.contentWidth()
	fonts := b.r.fonts

	boxW := cw * 0.4
	h := 70.0

	b.add(BlockOther, true, h, func(c *raster.Canvas, y float64) error {
		x := m + cw - boxW
		if b.doc.Company.Name != "" {
			if err := c.TextRight(m+cw, y+fonts.Ascent(b.smallStyle()), "For "+b.doc.Company.Name, b.smallStyle(), th.Muted); err != nil {
				return err
			}
		}
		c.HLine(x, y+h-fonts.LineHeight(b.bodyStyle())-6, boxW, th.Text, 1)
		return c.TextRight(m+cw, y+h-6, sig.Label, b.bodyStyle(), th.Text)
	})
}
