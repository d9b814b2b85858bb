package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/chunker"
	"github.com/dgallion1/docoutline/internal/render"
)

func newRenderCmd(opts *options) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Outline a document and write it in an output format",
		Long: fmt.Sprintf(`Outline a document and write it in an output format.

Formats: %s. The tagged format is the canonical <hN> rendering; docx
requires --output.`, strings.Join(render.Formats(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rend, err := render.ForFormat(format)
			if err != nil {
				return err
			}
			if format == "docx" && output == "" {
				return fmt.Errorf("docx output needs --output")
			}
			outline, err := opts.outline(cmd, args[0])
			if err != nil {
				return err
			}
			return writeTo(cmd, output, func(w io.Writer) error { return rend.Render(w, outline) })
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "tagged", "output format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newHeadingsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "headings FILE",
		Short: "List every heading found, indented by tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outline, err := opts.outline(cmd, args[0])
			if err != nil {
				return err
			}
			return render.Headings{}.Render(cmd.OutOrStdout(), outline)
		},
	}
}

func newChunksCmd(opts *options) *cobra.Command {
	cfg := chunker.DefaultConfig()
	var model string
	cmd := &cobra.Command{
		Use:   "chunks FILE",
		Short: "Split the outline into token-budgeted chunks (JSON lines)",
		Long: `Split the outline into token-budgeted chunks, one JSON object per line.

Each chunk carries the breadcrumb of headings above it. With --model the
chunk sizes are measured with that model's tokenizer; otherwise a word-based
estimate is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.ChunkOverlap >= cfg.ChunkSize {
				return fmt.Errorf("--overlap (%d) must be smaller than --chunk-size (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
			}
			outline, err := opts.outline(cmd, args[0])
			if err != nil {
				return err
			}
			counter := chunker.CounterFor(model, opts.logger(cmd))
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, c := range chunker.ChunkOutline(outline, cfg, counter) {
				if err := enc.Encode(c); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "target chunk size in tokens")
	cmd.Flags().IntVar(&cfg.ChunkOverlap, "overlap", cfg.ChunkOverlap, "overlap between chunks in tokens")
	cmd.Flags().IntVar(&cfg.MinChunk, "min-chunk", cfg.MinChunk, "drop chunks smaller than this many tokens")
	cmd.Flags().StringVar(&model, "model", "", "tokenizer model for token counts (e.g. gpt-4o)")
	return cmd
}

// newTreeCmd re-reads a tagged rendering, so outlines saved as HTML can be
// converted to the other formats without the source document.
func newTreeCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "tree FILE.html",
		Short: "Convert a saved tagged outline to another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rend, err := render.ForFormat(format)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			outline, err := render.ReadTagged(f, strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return writeTo(cmd, output, func(w io.Writer) error { return rend.Render(w, outline) })
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func writeTo(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

