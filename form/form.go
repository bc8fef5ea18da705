// Package form is the stateful front door of the module: it holds one
// document under edit, the selected theme, the template customizations, and
// the export pipeline, and guards against overlapping export runs.
package form

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/billcraft/billcraft"
	"github.com/billcraft/billcraft/export"
	"github.com/billcraft/billcraft/raster"
	"github.com/billcraft/billcraft/render"
	"github.com/billcraft/billcraft/store"
	"github.com/billcraft/billcraft/tax"
	"github.com/billcraft/billcraft/template"
)

// Form owns one in-progress document and everything needed to turn it into a
// PDF. All methods are safe for concurrent use; at most one export runs at a
// time.
type Form struct {
	mu       sync.Mutex
	doc      billcraft.Document
	theme    render.Theme
	override *template.Override

	fonts        *raster.FontSet
	exporter     *export.Exporter
	exporterOpts []export.Option
	store        *store.Store
	log          *logrus.Logger

	generating atomic.Bool
}

// Option configures a Form.
type Option func(*Form)

// WithStore attaches a template override store for Save/Load by key.
func WithStore(s *store.Store) Option {
	return func(f *Form) { f.store = s }
}

// WithLogger sets the logger used for non-fatal persistence warnings.
func WithLogger(log *logrus.Logger) Option {
	return func(f *Form) { f.log = log }
}

// WithFonts shares a font set between the renderer and the exporter, so
// repeated exports reuse parsed faces.
func WithFonts(fonts *raster.FontSet) Option {
	return func(f *Form) {
		if fonts != nil {
			f.fonts = fonts
		}
	}
}

// WithExporterOptions forwards options to the underlying Exporter, e.g.
// export.WithStationery or export.WithMargins.
func WithExporterOptions(opts ...export.Option) Option {
	return func(f *Form) { f.exporterOpts = append(f.exporterOpts, opts...) }
}

// New creates a Form for the given document type with the classic theme.
func New(docType billcraft.DocType, opts ...Option) *Form {
	f := &Form{
		doc:   billcraft.Document{Type: docType, GSTMode: billcraft.GSTModeCGSTSGST, GSTRate: 18},
		theme: render.Classic(),
		fonts: raster.NewFontSet(),
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.exporter = export.New(f.fonts, f.exporterOpts...)
	return f
}

// SetNumber sets the document number.
func (f *Form) SetNumber(n string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc.Number = n
}

// SetDates sets the issue date and, optionally, the due date.
func (f *Form) SetDates(date, dueDate string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc.Date = date
	f.doc.DueDate = dueDate
}

// SetCompany replaces the issuing company details.
func (f *Form) SetCompany(c billcraft.Company) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc.Company = c
}

// SetClient replaces the billed party.
func (f *Form) SetClient(p billcraft.Party) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc.Client = p
}

// AddItem appends a line item.
func (f *Form) AddItem(item billcraft.LineItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc.Items = append(f.doc.Items, item)
}

// RemoveItem deletes the line item at idx. Out-of-range indexes are ignored.
func (f *Form) RemoveItem(idx int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if idx < 0 || idx >= len(f.doc.Items) {
		return
	}
	f.doc.Items = append(f.doc.Items[:idx], f.doc.Items[idx+1:]...)
}

// SetGST sets the tax mode and default rate.
func (f *Form) SetGST(mode billcraft.GSTMode, rate float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc.GSTMode = mode
	f.doc.GSTRate = rate
}

// SetNotes sets the free-form notes and terms text.
func (f *Form) SetNotes(notes, terms string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc.Notes = notes
	f.doc.Terms = terms
}

// Document returns a copy of the current document state.
func (f *Form) Document() billcraft.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := f.doc
	doc.Items = append([]billcraft.LineItem(nil), f.doc.Items...)
	return doc
}

// SelectTheme switches the visual theme by name. Unknown names fall back to
// the classic theme.
func (f *Form) SelectTheme(name string) {
	th, err := render.ThemeByName(name)
	if err != nil {
		th = render.Classic()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.theme = th
}

// Theme returns the active theme.
func (f *Form) Theme() render.Theme {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.theme
}

// ApplyOverride replaces the template customizations for this form.
func (f *Form) ApplyOverride(ov *template.Override) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.override = ov
}

// Config returns the effective template configuration: the document-type
// defaults with this form's overrides resolved on top.
func (f *Form) Config() *template.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configLocked()
}

func (f *Form) configLocked() *template.Config {
	return template.Resolve(template.Default(f.doc.Type), f.override)
}

// Edit returns an editor seeded with the effective configuration. Call
// ApplyOverride with Editor.Override() to commit the edits.
func (f *Form) Edit() *template.Editor {
	return template.NewEditor(f.Config())
}

// SaveTemplate persists the current overrides under key. Without a store or
// overrides it is a no-op; persistence failures are logged and swallowed so
// an unwritable disk never blocks document work.
func (f *Form) SaveTemplate(key string) {
	f.mu.Lock()
	ov := f.override
	f.mu.Unlock()
	if f.store == nil || ov == nil {
		return
	}
	if err := f.store.Save(key, ov); err != nil {
		f.log.WithError(err).Warnf("form: saving template %q", key)
	}
}

// LoadTemplate restores overrides saved under key. Missing or corrupt
// entries leave the form on defaults.
func (f *Form) LoadTemplate(key string) {
	if f.store == nil {
		return
	}
	ov := f.store.Load(key)
	f.mu.Lock()
	f.override = ov
	f.mu.Unlock()
}

// Totals computes the current tax summary and grand total.
func (f *Form) Totals() tax.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return tax.Compute(f.doc.Items, f.doc.GSTMode, f.doc.GSTRate)
}

// Filename returns the name an export of the current state would use.
func (f *Form) Filename() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exporter.Filename(f.meta())
}

// Generating reports whether an export is currently running.
func (f *Form) Generating() bool {
	return f.generating.Load()
}

// Export renders the current state and writes the PDF to w. A second export
// started while one is running fails immediately with ErrExportInFlight.
func (f *Form) Export(ctx context.Context, w io.Writer) error {
	if !f.generating.CompareAndSwap(false, true) {
		return billcraft.NewExportError("Export", billcraft.ErrExportInFlight)
	}
	defer f.generating.Store(false)

	layout, meta, err := f.snapshot()
	if err != nil {
		return billcraft.NewExportError("Export", err)
	}
	return f.exporter.Export(ctx, layout, meta, w)
}

// ExportFile renders the current state and saves the PDF in dir under the
// derived filename, returning the full path.
func (f *Form) ExportFile(ctx context.Context, dir string) (string, error) {
	if !f.generating.CompareAndSwap(false, true) {
		return "", billcraft.NewExportError("ExportFile", billcraft.ErrExportInFlight)
	}
	defer f.generating.Store(false)

	layout, meta, err := f.snapshot()
	if err != nil {
		return "", billcraft.NewExportError("ExportFile", err)
	}
	return f.exporter.ExportFile(ctx, layout, meta, dir)
}

// snapshot renders the document under the lock so concurrent edits cannot
// tear the layout, then releases it for the capture stages.
func (f *Form) snapshot() (*render.Layout, export.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.doc
	doc.Items = append([]billcraft.LineItem(nil), f.doc.Items...)
	cfg := f.configLocked()

	layout, err := render.New(f.fonts, f.theme).Render(&doc, cfg)
	if err != nil {
		return nil, export.Meta{}, err
	}
	return layout, f.meta(), nil
}

func (f *Form) meta() export.Meta {
	return export.Meta{
		ClientName: f.doc.Client.Name,
		Date:       f.doc.Date,
		Footer:     f.doc.FooterLine(),
	}
}
