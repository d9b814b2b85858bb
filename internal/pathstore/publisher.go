package pathstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dgallion1/docoutline/internal/doctree"
)

const (
	outlinesRoot = "outlines"
	docsPrefix   = outlinesRoot + "/docs"
	indexPrefix  = outlinesRoot + "/index"
	hashPrefix   = outlinesRoot + "/by_hash"
	sourcePrefix = "docoutline:"
)

// ErrInvalidDocID is returned for document IDs that are not a single key segment.
var ErrInvalidDocID = errors.New("invalid document id")

func checkDocID(docID string) error {
	if docID == "" || strings.ContainsAny(docID, "/.*") {
		return fmt.Errorf("%w: %q", ErrInvalidDocID, docID)
	}
	return nil
}

// Publisher writes finished outlines to pathstore, one node per section.
type Publisher struct {
	client   *Client
	log      *slog.Logger
	attempts uint
	delay    time.Duration
}

func NewPublisher(client *Client, attempts uint, log *slog.Logger) *Publisher {
	if attempts == 0 {
		attempts = 3
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Publisher{client: client, log: log, attempts: attempts, delay: 500 * time.Millisecond}
}

// Summary is the index entry of a published outline.
type Summary struct {
	DocID       string `json:"doc_id"`
	Title       string `json:"title"`
	Sections    int    `json:"sections"`
	Headings    int    `json:"headings"`
	ContentHash string `json:"content_hash,omitempty"`
	PublishedAt string `json:"published_at"`
}

type sectionNode struct {
	Heading    string   `json:"heading"`
	Tier       int      `json:"tier"`
	Page       int      `json:"page,omitempty"`
	Content    string   `json:"content,omitempty"`
	Breadcrumb []string `json:"breadcrumb"`
}

// IsTemporary reports whether a publish error is worth retrying.
func IsTemporary(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	// Transport failures (refused connections, resets) are retried.
	return true
}

func (p *Publisher) retry(ctx context.Context, op string, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(p.delay),
		retry.RetryIf(IsTemporary),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.log.Warn("pathstore retry", "op", op, "attempt", n+1, "error", err)
		}),
	)
}

func (p *Publisher) put(ctx context.Context, key string, value any, salience float64, docID string) error {
	return p.retry(ctx, "put "+key, func() error {
		return p.client.PutNode(ctx, key, NodeRequest{
			Value:      value,
			MemoryType: "semantic",
			Salience:   salience,
			Source:     sourcePrefix + docID,
		})
	})
}

func sectionKey(docID string, n int) string {
	return fmt.Sprintf("%s/%s/sections/%04d", docsPrefix, docID, n)
}

// Publish writes every section of o in document order, links each
// subsection to its parent and finally records the index entry. It returns
// the number of sections written.
func (p *Publisher) Publish(ctx context.Context, docID, contentHash string, o *doctree.Outline) (int, error) {
	if err := checkDocID(docID); err != nil {
		return 0, err
	}
	type pending struct {
		key    string
		parent string
		node   sectionNode
	}
	var nodes []pending
	var walk func(sec *doctree.Section, parent string, breadcrumb []string)
	walk = func(sec *doctree.Section, parent string, breadcrumb []string) {
		bc := append(append([]string(nil), breadcrumb...), sec.Heading)
		key := sectionKey(docID, len(nodes))
		nodes = append(nodes, pending{key: key, parent: parent, node: sectionNode{
			Heading: sec.Heading, Tier: sec.Tier, Page: sec.Page, Content: sec.Content, Breadcrumb: bc,
		}})
		for _, sub := range sec.Subsections {
			walk(sub, key, bc)
		}
	}
	for _, sec := range o.Sections {
		walk(sec, "", nil)
	}

	written := 0
	for _, n := range nodes {
		// Higher tiers sit closer to the root and rank higher.
		salience := 1.0 / float64(max(n.node.Tier, 1))
		if err := p.put(ctx, n.key, n.node, salience, docID); err != nil {
			return written, fmt.Errorf("publish section %q: %w", n.node.Heading, err)
		}
		written++
		if n.parent == "" {
			continue
		}
		link := LinkRequest{From: n.parent, To: n.key, Weight: 1, Summary: "subsection"}
		if err := p.retry(ctx, "link "+n.key, func() error { return p.client.PutLink(ctx, link) }); err != nil {
			return written, fmt.Errorf("link section %q: %w", n.node.Heading, err)
		}
	}

	if o.Preamble != "" {
		if err := p.put(ctx, fmt.Sprintf("%s/%s/preamble", docsPrefix, docID), map[string]any{"content": o.Preamble}, 0.2, docID); err != nil {
			return written, fmt.Errorf("publish preamble: %w", err)
		}
	}

	summary := Summary{
		DocID:       docID,
		Title:       o.Title,
		Sections:    written,
		Headings:    len(o.Headings),
		ContentHash: contentHash,
		PublishedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := p.put(ctx, indexPrefix+"/"+docID, summary, 0.5, docID); err != nil {
		return written, fmt.Errorf("publish index: %w", err)
	}
	if contentHash != "" {
		hashKey := fmt.Sprintf("%s/%s/%s", hashPrefix, contentHash, docID)
		if err := p.put(ctx, hashKey, map[string]any{"published_at": summary.PublishedAt}, 0.1, docID); err != nil {
			// The outline is complete without the dedup entry.
			p.log.Warn("hash index write failed", "doc_id", docID, "error", err)
		}
	}
	return written, nil
}

// FindByHash returns the document already published for contentHash.
func (p *Publisher) FindByHash(ctx context.Context, contentHash string) (string, bool, error) {
	children, err := p.client.ListChildren(ctx, hashPrefix+"/"+contentHash, 1)
	if err != nil {
		return "", false, err
	}
	if len(children) == 0 {
		return "", false, nil
	}
	return lastSegment(children[0].Key), true, nil
}

// List returns index entries of published outlines.
func (p *Publisher) List(ctx context.Context, limit int) ([]Summary, error) {
	children, err := p.client.ListChildren(ctx, indexPrefix, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(children))
	for _, c := range children {
		var s Summary
		if err := json.Unmarshal(c.Value, &s); err != nil {
			return nil, fmt.Errorf("decode index entry %s: %w", c.Key, err)
		}
		if s.DocID == "" {
			s.DocID = lastSegment(c.Key)
		}
		out = append(out, s)
	}
	return out, nil
}

// Get returns the index entry for docID, or nil when it was never published.
func (p *Publisher) Get(ctx context.Context, docID string) (*Summary, error) {
	if err := checkDocID(docID); err != nil {
		return nil, err
	}
	node, err := p.client.GetNode(ctx, indexPrefix+"/"+docID)
	if err != nil || node == nil {
		return nil, err
	}
	var s Summary
	if err := json.Unmarshal(node.Value, &s); err != nil {
		return nil, fmt.Errorf("decode index entry: %w", err)
	}
	return &s, nil
}

// Delete removes a published outline with its sections and index entries.
func (p *Publisher) Delete(ctx context.Context, docID string) error {
	summary, err := p.Get(ctx, docID)
	if err != nil {
		return err
	}
	if err := p.client.DeleteNode(ctx, docsPrefix+"/"+docID, true); err != nil {
		return err
	}
	if summary != nil && summary.ContentHash != "" {
		if err := p.client.DeleteNode(ctx, fmt.Sprintf("%s/%s/%s", hashPrefix, summary.ContentHash, docID), false); err != nil {
			p.log.Warn("hash index delete failed", "doc_id", docID, "error", err)
		}
	}
	return p.client.DeleteNode(ctx, indexPrefix+"/"+docID, false)
}

// lastSegment extracts the final path segment; pathstore reports keys with
// either '/' or '.' separators.
func lastSegment(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '/' || r == '.' })
	if len(parts) == 0 {
		return key
	}
	return parts[len(parts)-1]
}
