// Package template defines the section/field/column configuration that
// controls how a document template is laid out, along with per-document-type
// defaults, a resolver that merges stored user overrides into the defaults,
// and editing operations for customizing a configuration.
package template

import (
	"time"

	"github.com/billcraft/billcraft"
)

// Format selects how a column value is rendered.
type Format string

const (
	FormatText     Format = "text"
	FormatNumber   Format = "number"
	FormatCurrency Format = "currency"
)

// Field is a single labelled value inside a section.
type Field struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Visible  bool   `json:"visible"`
	Required bool   `json:"required"`
	Order    int    `json:"order"`
	// Style is a free-form hint for the renderer ("bold", "muted", "").
	Style string `json:"style,omitempty"`
}

// Section is an ordered, named group of fields.
type Section struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Visible bool    `json:"visible"`
	Order   int     `json:"order"`
	Fields  []Field `json:"fields"`
}

// Column describes one line-item table column.
type Column struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
	// Width is a relative weight; effective widths are the weights
	// normalized over all visible columns.
	Width  float64 `json:"width"`
	Format Format  `json:"format"`
	Order  int     `json:"order"`
	// Custom marks columns introduced by an override rather than the
	// defaults factory.
	Custom bool `json:"custom,omitempty"`
}

// Signature configures the authorized-signature block.
type Signature struct {
	Visible bool   `json:"visible"`
	Label   string `json:"label"`
}

// Config is a fully-populated template configuration. Instances returned by
// Default and Resolve always have contiguous zero-based Order sequences for
// sections, each section's fields, and columns.
type Config struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	CreatedAt time.Time         `json:"createdAt"`
	DocType   billcraft.DocType `json:"docType"`
	Sections  []Section         `json:"sections"`
	Columns   []Column          `json:"columns"`
	Signature Signature         `json:"signature"`
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Sections = make([]Section, len(c.Sections))
	for i, s := range c.Sections {
		cs := s
		cs.Fields = append([]Field(nil), s.Fields...)
		out.Sections[i] = cs
	}
	out.Columns = append([]Column(nil), c.Columns...)
	return &out
}

// Section returns the section with the given id, or nil.
func (c *Config) Section(id string) *Section {
	for i := range c.Sections {
		if c.Sections[i].ID == id {
			return &c.Sections[i]
		}
	}
	return nil
}

// Column returns the column with the given key, or nil.
func (c *Config) Column(key string) *Column {
	for i := range c.Columns {
		if c.Columns[i].Key == key {
			return &c.Columns[i]
		}
	}
	return nil
}

// VisibleColumns returns the visible columns in order.
func (c *Config) VisibleColumns() []Column {
	out := make([]Column, 0, len(c.Columns))
	for _, col := range c.Columns {
		if col.Visible {
			out = append(out, col)
		}
	}
	return out
}
