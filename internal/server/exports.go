package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/matzehuels/labelsheet/pkg/compose"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

// codeBusy is returned with 503 when the export registry is full.
const codeBusy errors.Code = "TOO_MANY_EXPORTS"

// =============================================================================
// Registry
// =============================================================================

type exportJob struct {
	id       string
	job      label.Job
	exporter *compose.Exporter
	cancel   context.CancelFunc
	created  time.Time
	finished time.Time
}

// registry holds async exports by id. Finished exports are dropped once
// they are older than retention.
type registry struct {
	mu        sync.Mutex
	jobs      map[string]*exportJob
	max       int
	retention time.Duration
	now       func() time.Time
}

func newRegistry(max int, retention time.Duration) *registry {
	if max <= 0 {
		max = DefaultMaxExports
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &registry{
		jobs:      make(map[string]*exportJob),
		max:       max,
		retention: retention,
		now:       time.Now,
	}
}

// add stores x under a fresh id. It reports false when the registry is
// full after pruning.
func (r *registry) add(x *exportJob) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	if len(r.jobs) >= r.max {
		return false
	}
	x.id = ulid.Make().String()
	x.created = r.now()
	r.jobs[x.id] = x
	return true
}

func (r *registry) get(id string) (*exportJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	x, ok := r.jobs[id]
	return x, ok
}

func (r *registry) remove(id string) (*exportJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, ok := r.jobs[id]
	delete(r.jobs, id)
	return x, ok
}

func (r *registry) finish(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, ok := r.jobs[id]; ok {
		x.finished = r.now()
	}
}

func (r *registry) pruneLocked() {
	now := r.now()
	for id, x := range r.jobs {
		if !x.finished.IsZero() && now.Sub(x.finished) > r.retention {
			delete(r.jobs, id)
		}
	}
}

// =============================================================================
// Handlers
// =============================================================================

type exportStatus struct {
	ID       string     `json:"id"`
	State    string     `json:"state"`
	Page     int        `json:"page"`
	Pages    int        `json:"pages"`
	Progress float64    `json:"progress"`
	Created  time.Time  `json:"created"`
	Error    *errorBody `json:"error,omitempty"`
}

func statusOf(x *exportJob) exportStatus {
	p := x.exporter.Progress()
	st := exportStatus{
		ID:       x.id,
		State:    p.State.String(),
		Page:     p.Page,
		Pages:    p.Pages,
		Progress: p.Fraction(),
		Created:  x.created,
	}
	if _, err := x.exporter.Result(); err != nil {
		err = pipeline.ExportError(err)
		st.Error = &errorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	}
	return st
}

// handleCreateExport plans the job synchronously so input errors are
// reported immediately, then exports in the background.
func (s *Server) handleCreateExport(w http.ResponseWriter, r *http.Request) {
	job, opts, err := s.readJob(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatPDF}
	opts.Progress = nil
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, res, err := s.runner.Compose(r.Context(), job, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithCancel(s.base)
	x := &exportJob{
		job:      res.Job,
		exporter: pipeline.NewExporter(c, opts),
		cancel:   cancel,
	}
	if !s.exports.add(x) {
		cancel()
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Code:    codeBusy,
			Message: "too many exports in progress, try again later",
		})
		return
	}

	go func() {
		defer cancel()
		_, err := x.exporter.Run(ctx)
		s.exports.finish(x.id)
		if err != nil {
			s.logger.Warn("export failed", "id", x.id, "error", pipeline.ExportError(err))
			return
		}
		s.logger.Info("export finished", "id", x.id, "pages", c.TotalPages())
	}()

	w.Header().Set("Location", "/v1/exports/"+x.id)
	writeJSON(w, http.StatusAccepted, statusOf(x))
}

func (s *Server) handleGetExport(w http.ResponseWriter, r *http.Request) {
	x, ok := s.exports.get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "export not found"))
		return
	}
	writeJSON(w, http.StatusOK, statusOf(x))
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	x, ok := s.exports.get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "export not found"))
		return
	}
	doc, err := x.exporter.Result()
	if err != nil {
		s.writeError(w, r, pipeline.ExportError(err))
		return
	}
	if doc == nil {
		writeJSON(w, http.StatusConflict, statusOf(x))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+pipeline.Filename(x.job, pipeline.FormatPDF)+`"`)
	w.Write(doc)
}

func (s *Server) handleDeleteExport(w http.ResponseWriter, r *http.Request) {
	x, ok := s.exports.remove(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "export not found"))
		return
	}
	x.cancel()
	w.WriteHeader(http.StatusNoContent)
}
