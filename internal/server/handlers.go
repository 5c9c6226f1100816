package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/labelsheet/pkg/buildinfo"
	"github.com/matzehuels/labelsheet/pkg/errors"
	labelio "github.com/matzehuels/labelsheet/pkg/io"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

// jobRequest is the body of plan, render and export requests. A missing
// job renders the starter job.
type jobRequest struct {
	Job     *label.Job       `json:"job"`
	Options pipeline.Options `json:"options"`
}

func (s *Server) readJob(w http.ResponseWriter, r *http.Request) (label.Job, pipeline.Options, error) {
	var req jobRequest
	if err := s.decode(w, r, &req); err != nil {
		return label.Job{}, pipeline.Options{}, err
	}
	job := label.DefaultJob()
	if req.Job != nil {
		var err error
		if job, err = labelio.Prepare(*req.Job); err != nil {
			return label.Job{}, pipeline.Options{}, err
		}
	}
	return job, req.Options, nil
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handlePapers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, label.Papers())
}

type sequenceResponse struct {
	Count  int      `json:"count"`
	Values []string `json:"values"`
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	var batch label.BatchSettings
	if err := s.decode(w, r, &batch); err != nil {
		s.writeError(w, r, err)
		return
	}
	values, err := pipeline.Values(label.Job{Batch: batch})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sequenceResponse{Count: len(values), Values: values})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	job, opts, err := s.readJob(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, _, err := s.runner.Compose(r.Context(), job, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := labelio.WriteLayout(c, &buf); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "layout"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatPageSVG: "image/svg+xml",
	pipeline.FormatPDF:     "application/pdf",
	pipeline.FormatPNG:     "image/png",
	pipeline.FormatJSON:    "application/json",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	job, opts, err := s.readJob(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.Progress = nil

	res, err := s.runner.Execute(r.Context(), job, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data := res.Artifacts[format]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+pipeline.Filename(res.Job, format)+`"`)
	w.Header().Set("X-Label-Count", strconv.Itoa(res.Stats.Labels))
	w.Header().Set("X-Page-Count", strconv.Itoa(res.Pages))
	if res.CacheInfo.RenderHit() {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.Write(data)
}
