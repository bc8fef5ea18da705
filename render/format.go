package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/billcraft/billcraft/template"
)

// FormatNumber renders a quantity-style value, dropping a trailing ".00".
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// FormatCurrency renders an amount with Indian digit grouping, e.g.
// "Rs. 12,34,567.89". The last three integer digits form one group and the
// rest pair off.
func FormatCurrency(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	grouped := intPart
	if len(intPart) > 3 {
		head := intPart[:len(intPart)-3]
		tail := intPart[len(intPart)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		grouped = strings.Join(append(groups, tail), ",")
	}

	out := fmt.Sprintf("Rs. %s.%s", grouped, fracPart)
	if neg {
		out = "-" + out
	}
	return out
}

// formatByColumn renders a numeric cell according to the column format.
func formatByColumn(f template.Format, v float64) string {
	switch f {
	case template.FormatCurrency:
		return FormatCurrency(v)
	case template.FormatNumber:
		return FormatNumber(v)
	default:
		return FormatNumber(v)
	}
}
