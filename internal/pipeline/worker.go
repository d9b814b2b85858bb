package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/assembler"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/token"
	"github.com/dgallion1/docoutline/internal/typography"
)

// Publisher receives finished outlines. The orchestrator runs without one
// when publication is disabled.
type Publisher interface {
	Publish(ctx context.Context, docID, contentHash string, o *doctree.Outline) (int, error)
	FindByHash(ctx context.Context, contentHash string) (string, bool, error)
}

// Parse reads an uploaded file with the parser registered for its extension.
func Parse(filename string, data []byte) (*token.Document, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return doc, nil
}

// Worker processes a single document job.
type Worker struct {
	catalog   *typography.Catalog
	publisher Publisher
	stats     *ProcessingStats
	log       *slog.Logger
}

func NewWorker(catalog *typography.Catalog, pub Publisher, stats *ProcessingStats, log *slog.Logger) *Worker {
	return &Worker{
		catalog:   catalog,
		publisher: pub,
		stats:     stats,
		log:       log,
	}
}

// Process runs parse, outline and publish for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)
	start := time.Now()
	defer func() {
		if w.stats != nil {
			w.stats.Record(time.Since(start))
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			phase := job.Snapshot().Phase
			log.Error("job panicked", "phase", phase, "panic", r)
			job.AddError(fmt.Sprintf("%s: internal error: %v", phase, r))
			job.SetStatus(StatusFailed, phase)
		}
	}()

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	doc, err := Parse(job.Filename, job.FileData())
	job.releaseFileData()
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}
	job.SetParsed(len(doc.Pages), doc.TokenCount())
	job.SetContentHash(ContentHashHex([]byte(flattenText(doc))))

	// Phase 2: Outline
	job.SetStatus(StatusOutlining, "outlining")
	outline, err := assembler.Build(w.catalog, doc, log)
	if err != nil {
		log.Error("outline failed", "error", err)
		job.AddError(fmt.Sprintf("outline: %s", err))
		job.SetStatus(StatusFailed, "outlining")
		return
	}
	job.SetOutline(outline)
	snap := job.Snapshot()
	log.Info("outline assembled", "pages", snap.Progress.Pages, "headings", snap.Progress.Headings, "sections", snap.Progress.Sections)

	if w.publisher == nil {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 2.5: Dedup check
	existing, exists, err := w.publisher.FindByHash(ctx, snap.ContentHash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if exists {
		log.Info("duplicate document, skipping publish", "existing_doc_id", existing)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 3: Publish
	job.SetStatus(StatusPublishing, "publishing")
	n, err := w.publisher.Publish(ctx, job.DocID, snap.ContentHash, outline)
	job.SetPublished(n)
	if err != nil {
		log.Error("publish failed", "published", n, "error", err)
		job.AddError(fmt.Sprintf("publish: %s", err))
		job.SetStatus(StatusFailed, "publishing")
		return
	}
	log.Info("outline published", "sections", n)
	job.SetStatus(StatusCompleted, "done")
}

// flattenText joins the text of every page for hashing.
func flattenText(doc *token.Document) string {
	var sb strings.Builder
	for _, p := range doc.Pages {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(token.Join(p.Tokens))
	}
	return sb.String()
}
