package template

import "fmt"

// Editor applies customization operations to a configuration. It works on
// its own copy; call Config to read the edited result and Override to derive
// a persistable diff-free override snapshot.
type Editor struct {
	cfg *Config
}

// NewEditor starts editing a copy of cfg.
func NewEditor(cfg *Config) *Editor {
	return &Editor{cfg: cfg.Clone()}
}

// Config returns the current edited configuration.
func (e *Editor) Config() *Config {
	return e.cfg
}

// MoveSection moves the section with the given id to position idx and
// renumbers all sections.
func (e *Editor) MoveSection(id string, idx int) error {
	from := -1
	for i := range e.cfg.Sections {
		if e.cfg.Sections[i].ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return fmt.Errorf("template: unknown section %q", id)
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(e.cfg.Sections) {
		idx = len(e.cfg.Sections) - 1
	}
	sec := e.cfg.Sections[from]
	e.cfg.Sections = append(e.cfg.Sections[:from], e.cfg.Sections[from+1:]...)
	e.cfg.Sections = append(e.cfg.Sections[:idx], append([]Section{sec}, e.cfg.Sections[idx:]...)...)
	normalize(e.cfg)
	return nil
}

// SetSectionVisible shows or hides a section.
func (e *Editor) SetSectionVisible(id string, visible bool) error {
	sec := e.cfg.Section(id)
	if sec == nil {
		return fmt.Errorf("template: unknown section %q", id)
	}
	sec.Visible = visible
	return nil
}

// RenameSection changes a section label.
func (e *Editor) RenameSection(id, label string) error {
	sec := e.cfg.Section(id)
	if sec == nil {
		return fmt.Errorf("template: unknown section %q", id)
	}
	sec.Label = label
	return nil
}

// field resolves a field by section ID and field key.
func (e *Editor) field(sectionID, key string) (*Field, error) {
	sec := e.cfg.Section(sectionID)
	if sec == nil {
		return nil, fmt.Errorf("template: unknown section %q", sectionID)
	}
	for i := range sec.Fields {
		if sec.Fields[i].Key == key {
			return &sec.Fields[i], nil
		}
	}
	return nil, fmt.Errorf("template: unknown field %q in section %q", key, sectionID)
}

// SetFieldVisible shows or hides a field within a section.
func (e *Editor) SetFieldVisible(sectionID, key string, visible bool) error {
	fld, err := e.field(sectionID, key)
	if err != nil {
		return err
	}
	fld.Visible = visible
	return nil
}

// RenameField changes a field label.
func (e *Editor) RenameField(sectionID, key, label string) error {
	fld, err := e.field(sectionID, key)
	if err != nil {
		return err
	}
	fld.Label = label
	return nil
}

// MoveField moves a field to position idx within its section.
func (e *Editor) MoveField(sectionID, key string, idx int) error {
	sec := e.cfg.Section(sectionID)
	if sec == nil {
		return fmt.Errorf("template: unknown section %q", sectionID)
	}
	from := -1
	for i := range sec.Fields {
		if sec.Fields[i].Key == key {
			from = i
			break
		}
	}
	if from == -1 {
		return fmt.Errorf("template: unknown field %q in section %q", key, sectionID)
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sec.Fields) {
		idx = len(sec.Fields) - 1
	}
	fld := sec.Fields[from]
	sec.Fields = append(sec.Fields[:from], sec.Fields[from+1:]...)
	sec.Fields = append(sec.Fields[:idx], append([]Field{fld}, sec.Fields[idx:]...)...)
	normalize(e.cfg)
	return nil
}

// SetColumnVisible shows or hides a column.
func (e *Editor) SetColumnVisible(key string, visible bool) error {
	col := e.cfg.Column(key)
	if col == nil {
		return fmt.Errorf("template: unknown column %q", key)
	}
	col.Visible = visible
	return nil
}

// RenameColumn changes a column label.
func (e *Editor) RenameColumn(key, label string) error {
	col := e.cfg.Column(key)
	if col == nil {
		return fmt.Errorf("template: unknown column %q", key)
	}
	col.Label = label
	return nil
}

// SetColumnWidth changes a column's relative width weight.
func (e *Editor) SetColumnWidth(key string, width float64) error {
	col := e.cfg.Column(key)
	if col == nil {
		return fmt.Errorf("template: unknown column %q", key)
	}
	if width <= 0 {
		return fmt.Errorf("template: column width must be positive, got %v", width)
	}
	col.Width = width
	return nil
}

// MoveColumn moves a column to position idx and renumbers all columns.
func (e *Editor) MoveColumn(key string, idx int) error {
	from := -1
	for i := range e.cfg.Columns {
		if e.cfg.Columns[i].Key == key {
			from = i
			break
		}
	}
	if from == -1 {
		return fmt.Errorf("template: unknown column %q", key)
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(e.cfg.Columns) {
		idx = len(e.cfg.Columns) - 1
	}
	col := e.cfg.Columns[from]
	e.cfg.Columns = append(e.cfg.Columns[:from], e.cfg.Columns[from+1:]...)
	e.cfg.Columns = append(e.cfg.Columns[:idx], append([]Column{col}, e.cfg.Columns[idx:]...)...)
	normalize(e.cfg)
	return nil
}

// AddColumn appends a custom column.
func (e *Editor) AddColumn(key, label string, format Format) error {
	if e.cfg.Column(key) != nil {
		return fmt.Errorf("template: column %q already exists", key)
	}
	e.cfg.Columns = append(e.cfg.Columns, Column{
		Key: key, Label: label, Visible: true, Width: 1,
		Format: format, Order: len(e.cfg.Columns), Custom: true,
	})
	normalize(e.cfg)
	return nil
}

// SetSignature configures the authorized-signature block.
func (e *Editor) SetSignature(visible bool, label string) {
	e.cfg.Signature.Visible = visible
	if label != "" {
		e.cfg.Signature.Label = label
	}
}

// Override converts the edited configuration into an override that, resolved
// against the same defaults, reproduces it.
func (e *Editor) Override() *Override {
	cfg := e.cfg
	ov := &Override{
		ID:        strPtr(cfg.ID),
		Name:      strPtr(cfg.Name),
		CreatedAt: &cfg.CreatedAt,
		Signature: &SignatureOverride{Visible: &cfg.Signature.Visible, Label: strPtr(cfg.Signature.Label)},
	}
	for i := range cfg.Sections {
		sec := &cfg.Sections[i]
		so := SectionOverride{
			ID:      sec.ID,
			Label:   strPtr(sec.Label),
			Visible: boolPtr(sec.Visible),
			Order:   intPtr(sec.Order),
		}
		for j := range sec.Fields {
			fld := &sec.Fields[j]
			so.Fields = append(so.Fields, FieldOverride{
				Key:      fld.Key,
				Label:    strPtr(fld.Label),
				Visible:  boolPtr(fld.Visible),
				Required: boolPtr(fld.Required),
				Order:    intPtr(fld.Order),
				Style:    strPtr(fld.Style),
			})
		}
		ov.Sections = append(ov.Sections, so)
	}
	for i := range cfg.Columns {
		col := &cfg.Columns[i]
		fmtCopy := col.Format
		ov.Columns = append(ov.Columns, ColumnOverride{
			Key:     col.Key,
			Label:   strPtr(col.Label),
			Visible: boolPtr(col.Visible),
			Width:   floatPtr(col.Width),
			Format:  &fmtCopy,
			Order:   intPtr(col.Order),
		})
	}
	return ov
}

func strPtr(s string) *string     { v := s; return &v }
func boolPtr(b bool) *bool        { v := b; return &v }
func intPtr(i int) *int           { v := i; return &v }
func floatPtr(f float64) *float64 { v := f; return &v }
