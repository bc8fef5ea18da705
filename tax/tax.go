// Package tax computes per-item and aggregate GST figures for a list of
// line items.
//
// Computation is pure: the same input always produces the same output, and
// the input slice is never modified.
package tax

import (
	"sort"

	"github.com/billcraft/billcraft"
)

// UnclassifiedHSN is the grouping key used for items without an HSN/SAC code.
const UnclassifiedHSN = "N/A"

// Line is a line item augmented with computed amounts.
type Line struct {
	billcraft.LineItem
	// Rate is the effective GST percentage applied to this line.
	Rate float64
	// Amount is unit cost times quantity, before tax.
	Amount float64
	CGST   float64
	SGST   float64
	IGST   float64
	// Total is Amount plus all tax heads.
	Total float64
}

// HSNGroup aggregates taxable value and tax for one classification code.
type HSNGroup struct {
	HSN          string
	Rate         float64
	TaxableValue float64
	CGST         float64
	SGST         float64
	IGST         float64
}

// Result carries the augmented lines and document-level aggregates.
type Result struct {
	Lines      []Line
	Subtotal   float64
	TotalCGST  float64
	TotalSGST  float64
	TotalIGST  float64
	GrandTotal float64
	// Groups is ordered by HSN code for deterministic output; the
	// unclassified group sorts with its sentinel key.
	Groups []HSNGroup
}

// Compute derives tax figures for items under the given mode. Items missing
// a quantity default to 1, missing unit costs default to 0, and items
// without their own GST rate fall back to rate.
func Compute(items []billcraft.LineItem, mode billcraft.GSTMode, rate float64) Result {
	res := Result{Lines: make([]Line, 0, len(items))}
	groups := make(map[string]*HSNGroup)

	for _, it := range items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		cost := it.UnitCost
		if cost < 0 {
			cost = 0
		}
		r := it.GSTRate
		if r <= 0 {
			r = rate
		}

		line := Line{LineItem: it, Rate: r, Amount: cost * qty}
		switch mode {
		case billcraft.GSTModeIGST:
			line.IGST = line.Amount * r / 100
		case billcraft.GSTModeCGSTSGST:
			half := line.Amount * r / 200
			line.CGST = half
			line.SGST = half
		default:
			line.Rate = 0
		}
		line.Total = line.Amount + line.CGST + line.SGST + line.IGST

		res.Lines = append(res.Lines, line)
		res.Subtotal += line.Amount
		res.TotalCGST += line.CGST
		res.TotalSGST += line.SGST
		res.TotalIGST += line.IGST

		key := it.HSN
		if key == "" {
			key = UnclassifiedHSN
		}
		g, ok := groups[key]
		if !ok {
			g = &HSNGroup{HSN: key, Rate: line.Rate}
			groups[key] = g
		}
		g.TaxableValue += line.Amount
		g.CGST += line.CGST
		g.SGST += line.SGST
		g.IGST += line.IGST
	}

	res.GrandTotal = res.Subtotal + res.TotalCGST + res.TotalSGST + res.TotalIGST

	res.Groups = make([]HSNGroup, 0, len(groups))
	for _, g := range groups {
		res.Groups = append(res.Groups, *g)
	}
	sort.Slice(res.Groups, func(i, j int) bool {
		return res.Groups[i].HSN < res.Groups[j].HSN
	})

	return res
}
