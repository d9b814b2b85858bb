package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/assembler"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/typography"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	catalogPath string
	logLevel    string
	title       string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "docoutline",
		Short: "Recover the heading outline of a typeset document",
		Long: `docoutline classifies the words of a PDF (or a pdfplumber-style JSON
token dump) by font, size and casing against a typography catalog, and
rebuilds the document's section hierarchy from its headings.

Examples:
  docoutline render act.pdf -f markdown
  docoutline headings act.json
  docoutline chunks act.pdf --chunk-size 800
  docoutline catalog > catalog.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "typography catalog YAML (default: built-in catalog)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&opts.title, "title", "", "override the document title")

	root.AddCommand(
		newRenderCmd(opts),
		newHeadingsCmd(opts),
		newChunksCmd(opts),
		newTreeCmd(),
		newCatalogCmd(opts),
		newVersionCmd(),
	)
	return root
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(o.logLevel)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
}

func (o *options) catalog() (*typography.Catalog, error) {
	return config.LoadCatalog(config.Config{CatalogPath: o.catalogPath})
}

// outline parses path and assembles its outline.
func (o *options) outline(cmd *cobra.Command, path string) (*doctree.Outline, error) {
	cat, err := o.catalog()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := pipeline.Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if o.title != "" {
		doc.Title = o.title
	}
	log := o.logger(cmd).With("file", path)
	outline, err := assembler.Build(cat, doc, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info("outline assembled", "pages", len(doc.Pages), "tokens", doc.TokenCount(), "headings", len(outline.Headings))
	return outline, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docoutline %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  Commit: %s\n", commit)
		},
	}
}
