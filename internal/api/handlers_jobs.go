package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/assembler"
	"github.com/dgallion1/docoutline/internal/chunker"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
	"github.com/go-chi/chi/v5"
)

var errTooLarge = errors.New("file exceeds max size")

// handleOutline parses and outlines an upload synchronously and renders the
// result in the requested format (json by default).
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	rend, ok := s.renderer(w, r)
	if !ok {
		return
	}
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	doc, err := pipeline.Parse(filename, data)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if title := r.FormValue("title"); title != "" {
		doc.Title = title
	}
	outline, err := assembler.Build(s.orchestrator.Catalog(), doc, s.log.With("filename", filename))
	if err != nil {
		jsonError(w, "outline: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeOutline(w, rend, outline)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	job := pipeline.NewJob(filename, r.FormValue("title"), data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(submitted(job))
}

func (s *Server) handleBatchSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	results := make([]map[string]any, 0, len(files))
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}
		data, err := s.readPart(fh)
		if err != nil {
			results = append(results, map[string]any{"filename": filename, "error": err.Error()})
			continue
		}

		job := pipeline.NewJob(filename, "", data)
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{"filename": filename, "error": err.Error()})
			continue
		}
		results = append(results, submitted(job))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": results})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.job(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleJobOutline(w http.ResponseWriter, r *http.Request) {
	rend, ok := s.renderer(w, r)
	if !ok {
		return
	}
	outline, ok := s.jobOutline(w, r)
	if !ok {
		return
	}
	s.writeOutline(w, rend, outline)
}

// handleJobChunks splits a finished outline into token-budgeted chunks.
// chunk_size, overlap and min_chunk override the configured defaults.
func (s *Server) handleJobChunks(w http.ResponseWriter, r *http.Request) {
	outline, ok := s.jobOutline(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	cfg := chunker.Config{
		ChunkSize:    positiveInt(q.Get("chunk_size"), s.cfg.DefaultChunkSize),
		ChunkOverlap: positiveInt(q.Get("overlap"), s.cfg.DefaultChunkOverlap),
		MinChunk:     positiveInt(q.Get("min_chunk"), chunker.DefaultConfig().MinChunk),
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		jsonError(w, "overlap must be smaller than chunk_size", http.StatusBadRequest)
		return
	}
	chunks := chunker.ChunkOutline(outline, cfg, s.counter)
	if chunks == nil {
		chunks = []doctree.Chunk{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"title":  outline.Title,
		"chunks": chunks,
	})
}

func (s *Server) job(w http.ResponseWriter, r *http.Request) (*pipeline.Job, bool) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil, false
	}
	return job, true
}

func (s *Server) jobOutline(w http.ResponseWriter, r *http.Request) (*doctree.Outline, bool) {
	job, ok := s.job(w, r)
	if !ok {
		return nil, false
	}
	outline := job.Outline()
	if outline == nil {
		snap := job.Snapshot()
		if snap.Status == pipeline.StatusFailed {
			jsonError(w, fmt.Sprintf("job failed during %s", snap.Phase), http.StatusConflict)
		} else {
			jsonError(w, fmt.Sprintf("outline not ready (status %s)", snap.Status), http.StatusConflict)
		}
		return nil, false
	}
	return outline, true
}

func (s *Server) renderer(w http.ResponseWriter, r *http.Request) (render.Renderer, bool) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	rend, err := render.ForFormat(format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return rend, true
}

func (s *Server) writeOutline(w http.ResponseWriter, rend render.Renderer, o *doctree.Outline) {
	w.Header().Set("Content-Type", rend.ContentType())
	if err := rend.Render(w, o); err != nil {
		// Headers are already sent; the client sees a truncated body.
		s.log.Error("render failed", "error", err)
	}
}

// readUpload pulls the multipart "file" field, enforcing the upload limit
// and the supported extensions. It writes the error response itself.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return "", nil, false
	}

	data, err := s.readLimited(file)
	if errors.Is(err, errTooLarge) {
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", nil, false
	}
	return filename, data, true
}

func (s *Server) readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.New("failed to open file")
	}
	defer f.Close()
	return s.readLimited(f)
}

func (s *Server) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w (%d bytes)", errTooLarge, s.cfg.MaxUploadBytes)
	}
	return data, nil
}

func submitted(job *pipeline.Job) map[string]any {
	snap := job.Snapshot()
	return map[string]any{
		"filename": snap.Filename,
		"job_id":   snap.ID,
		"doc_id":   snap.DocID,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s", snap.ID),
	}
}

func positiveInt(v string, fallback int) int {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return fallback
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
