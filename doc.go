// Package billcraft generates business documents (invoices, purchase orders,
// quotations) as multi-page PDF files.
//
// The root package holds the shared document data model and error types.
// Rendering, tax computation, template configuration, and the export
// pipeline live in subpackages:
//
//   - tax computes per-item and aggregate GST figures.
//   - template defines the section/field/column configuration model, its
//     per-document-type defaults, and the override resolver.
//   - store persists template overrides on device and optionally uploads
//     them to a remote endpoint.
//   - render turns document data plus a resolved configuration into a
//     measured tree of content blocks.
//   - raster draws content blocks onto page-sized bitmaps.
//   - export paginates the block tree, avoiding page cuts through atomic
//     blocks, and assembles the captured pages into a PDF.
//   - form ties everything together as a single mutable document state
//     container.
//
// A minimal flow:
//
//	fonts := raster.NewFontSet()
//	f := form.New(billcraft.DocTypeInvoice, form.WithFonts(fonts))
//	f.SetClient(billcraft.Party{Name: "Acme Traders"})
//	f.AddItem(billcraft.LineItem{Service: "Consulting", UnitCost: 5000, Quantity: 2})
//	name, err := f.ExportFile(ctx, ".")
package billcraft
