package template

import (
	"sort"
	"time"
)

// Override is a partial configuration persisted by the editor. Nil pointer
// fields mean "keep the default"; collections are matched by stable
// identifier and entries unknown to the defaults are appended.
type Override struct {
	ID        *string            `json:"id,omitempty"`
	Name      *string            `json:"name,omitempty"`
	CreatedAt *time.Time         `json:"createdAt,omitempty"`
	Sections  []SectionOverride  `json:"sections,omitempty"`
	Columns   []ColumnOverride   `json:"columns,omitempty"`
	Signature *SignatureOverride `json:"signature,omitempty"`
}

// SectionOverride overrides one section, matched by ID.
type SectionOverride struct {
	ID      string          `json:"id"`
	Label   *string         `json:"label,omitempty"`
	Visible *bool           `json:"visible,omitempty"`
	Order   *int            `json:"order,omitempty"`
	Fields  []FieldOverride `json:"fields,omitempty"`
}

// FieldOverride overrides one field, matched by key.
type FieldOverride struct {
	Key      string  `json:"key"`
	Label    *string `json:"label,omitempty"`
	Visible  *bool   `json:"visible,omitempty"`
	Required *bool   `json:"required,omitempty"`
	Order    *int    `json:"order,omitempty"`
	Style    *string `json:"style,omitempty"`
}

// ColumnOverride overrides one column, matched by key.
type ColumnOverride struct {
	Key     string   `json:"key"`
	Label   *string  `json:"label,omitempty"`
	Visible *bool    `json:"visible,omitempty"`
	Width   *float64 `json:"width,omitempty"`
	Format  *Format  `json:"format,omitempty"`
	Order   *int     `json:"order,omitempty"`
}

// SignatureOverride overrides the authorized-signature block.
type SignatureOverride struct {
	Visible *bool   `json:"visible,omitempty"`
	Label   *string `json:"label,omitempty"`
}

// Resolve merges an optional override into a default configuration and
// returns the authoritative result. Neither input is modified, and resolving
// the same pair twice yields identical output.
func Resolve(def *Config, ov *Override) *Config {
	cfg := def.Clone()
	if ov == nil {
		normalize(cfg)
		return cfg
	}

	if ov.ID != nil {
		cfg.ID = *ov.ID
	}
	if ov.Name != nil {
		cfg.Name = *ov.Name
	}
	if ov.CreatedAt != nil {
		cfg.CreatedAt = *ov.CreatedAt
	}

	for _, so := range ov.Sections {
		sec := cfg.Section(so.ID)
		if sec == nil {
			cfg.Sections = append(cfg.Sections, newSection(so, len(cfg.Sections)))
			continue
		}
		mergeSection(sec, so)
	}

	for _, co := range ov.Columns {
		col := cfg.Column(co.Key)
		if col == nil {
			cfg.Columns = append(cfg.Columns, newColumn(co, len(cfg.Columns)))
			continue
		}
		mergeColumn(col, co)
	}

	if ov.Signature != nil {
		if ov.Signature.Visible != nil {
			cfg.Signature.Visible = *ov.Signature.Visible
		}
		if ov.Signature.Label != nil {
			cfg.Signature.Label = *ov.Signature.Label
		}
	}

	sortConfig(cfg)
	normalize(cfg)
	return cfg
}

func mergeSection(sec *Section, so SectionOverride) {
	if so.Label != nil {
		sec.Label = *so.Label
	}
	if so.Visible != nil {
		sec.Visible = *so.Visible
	}
	if so.Order != nil {
		sec.Order = *so.Order
	}
	for _, fo := range so.Fields {
		fld := sectionField(sec, fo.Key)
		if fld == nil {
			sec.Fields = append(sec.Fields, newField(fo, len(sec.Fields)))
			continue
		}
		if fo.Label != nil {
			fld.Label = *fo.Label
		}
		if fo.Visible != nil {
			fld.Visible = *fo.Visible
		}
		if fo.Required != nil {
			fld.Required = *fo.Required
		}
		if fo.Order != nil {
			fld.Order = *fo.Order
		}
		if fo.Style != nil {
			fld.Style = *fo.Style
		}
	}
}

func mergeColumn(col *Column, co ColumnOverride) {
	if co.Label != nil {
		col.Label = *co.Label
	}
	if co.Visible != nil {
		col.Visible = *co.Visible
	}
	if co.Width != nil {
		col.Width = *co.Width
	}
	if co.Format != nil {
		col.Format = *co.Format
	}
	if co.Order != nil {
		col.Order = *co.Order
	}
}

func sectionField(sec *Section, key string) *Field {
	for i := range sec.Fields {
		if sec.Fields[i].Key == key {
			return &sec.Fields[i]
		}
	}
	return nil
}

// newSection builds a section from an override entry with no matching
// default. Unspecified attributes get sensible values.
func newSection(so SectionOverride, order int) Section {
	sec := Section{ID: so.ID, Label: so.ID, Visible: true, Order: order}
	if so.Label != nil {
		sec.Label = *so.Label
	}
	if so.Visible != nil {
		sec.Visible = *so.Visible
	}
	if so.Order != nil {
		sec.Order = *so.Order
	}
	for _, fo := range so.Fields {
		sec.Fields = append(sec.Fields, newField(fo, len(sec.Fields)))
	}
	return sec
}

func newField(fo FieldOverride, order int) Field {
	fld := Field{Key: fo.Key, Label: fo.Key, Visible: true, Order: order}
	if fo.Label != nil {
		fld.Label = *fo.Label
	}
	if fo.Visible != nil {
		fld.Visible = *fo.Visible
	}
	if fo.Required != nil {
		fld.Required = *fo.Required
	}
	if fo.Order != nil {
		fld.Order = *fo.Order
	}
	if fo.Style != nil {
		fld.Style = *fo.Style
	}
	return fld
}

// newColumn builds a column from an override entry with no matching default;
// such columns are marked custom.
func newColumn(co ColumnOverride, order int) Column {
	col := Column{Key: co.Key, Label: co.Key, Visible: true, Width: 1, Format: FormatText, Order: order, Custom: true}
	if co.Label != nil {
		col.Label = *co.Label
	}
	if co.Visible != nil {
		col.Visible = *co.Visible
	}
	if co.Width != nil {
		col.Width = *co.Width
	}
	if co.Format != nil {
		col.Format = *co.Format
	}
	if co.Order != nil {
		col.Order = *co.Order
	}
	return col
}

// sortConfig orders every collection by its Order values ahead of
// renormalization. Sorting is stable so ties keep their relative position.
func sortConfig(cfg *Config) {
	sort.SliceStable(cfg.Sections, func(i, j int) bool {
		return cfg.Sections[i].Order < cfg.Sections[j].Order
	})
	for s := range cfg.Sections {
		fields := cfg.Sections[s].Fields
		sort.SliceStable(fields, func(i, j int) bool {
			return fields[i].Order < fields[j].Order
		})
	}
	sort.SliceStable(cfg.Columns, func(i, j int) bool {
		return cfg.Columns[i].Order < cfg.Columns[j].Order
	})
}
