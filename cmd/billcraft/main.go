// Command billcraft generates business-document PDFs (invoices, purchase
// orders, quotations) from JSON input and inspects generated files.
//
// Usage:
//
//	billcraft generate -doc invoice.json [-theme modern] [-template custom.json] [-out DIR]
//	billcraft info FILE.pdf
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/billcraft/billcraft"
	"github.com/billcraft/billcraft/export"
	"github.com/billcraft/billcraft/raster"
	"github.com/billcraft/billcraft/reader"
	"github.com/billcraft/billcraft/render"
	"github.com/billcraft/billcraft/template"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "billcraft:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: billcraft generate -doc FILE [-theme NAME] [-template FILE] [-stationery FILE] [-out DIR]")
	fmt.Fprintln(os.Stderr, "       billcraft info FILE")
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	docPath := fs.String("doc", "", "document JSON file (required)")
	themeName := fs.String("theme", "", "visual theme: classic, modern, or minimal")
	tplPath := fs.String("template", "", "template override JSON file")
	stationery := fs.String("stationery", "", "letterhead PDF layered under every page")
	outDir := fs.String("out", ".", "output directory")
	fs.Parse(args)

	if *docPath == "" {
		return fmt.Errorf("generate: -doc is required")
	}

	var doc billcraft.Document
	if err := readJSON(*docPath, &doc); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	cfg := template.Default(doc.Type)
	if *tplPath != "" {
		var ov template.Override
		if err := readJSON(*tplPath, &ov); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		cfg = template.Resolve(cfg, &ov)
	}

	theme, err := render.ThemeByName(*themeName)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	fonts := raster.NewFontSet()
	layout, err := render.New(fonts, theme).Render(&doc, cfg)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	var opts []export.Option
	if *stationery != "" {
		opts = append(opts, export.WithStationery(*stationery))
	}
	meta := export.Meta{
		ClientName: doc.Client.Name,
		Date:       doc.Date,
		Footer:     doc.FooterLine(),
	}
	path, err := export.New(fonts, opts...).ExportFile(context.Background(), layout, meta, *outDir)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("info: expected exactly one PDF file")
	}

	doc, err := reader.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("pages: %d\n", doc.NumPages())
	for _, k := range []string{"Title", "Author", "Subject", "Creator", "Producer"} {
		if v := doc.Info(k); v != "" {
			fmt.Printf("%s: %s\n", k, v)
		}
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
