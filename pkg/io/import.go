package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/label"
)

// Format is a job file encoding.
type Format string

// Supported job encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from the file extension. Anything that
// is not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReadJob decodes a job from r, normalizes its design and validates it.
//
// A job without elements gets the starter design, and a job without a batch
// mode gets the sequence mode. Decode failures return INVALID_FORMAT,
// unknown papers INVALID_PAPER, and design problems INVALID_INPUT.
// ReadJob does not close r.
func ReadJob(r io.Reader, format Format) (label.Job, error) {
	var job label.Job
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&job)
	case FormatJSON, "":
		err = json.NewDecoder(r).Decode(&job)
	default:
		return label.Job{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported job format %q", format)
	}
	if err != nil {
		return label.Job{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode job")
	}
	return Prepare(job)
}

// Prepare applies the defaults and checks that [ReadJob] performs to a job
// built in memory, such as one decoded from an HTTP request body.
func Prepare(job label.Job) (label.Job, error) {
	if len(job.Design.Elements) == 0 {
		lbl := job.Design.Label
		job.Design = label.DefaultDesign()
		if lbl.Width > 0 && lbl.Height > 0 {
			job.Design.Label = lbl
		}
	}
	if job.Paper == "" {
		job.Paper = label.DefaultPaper
	}
	if job.Batch.Mode == "" {
		job.Batch.Mode = label.ModeSequence
	}
	job.Design.Normalize()

	if _, err := job.PaperSize(); err != nil {
		return label.Job{}, errors.Wrap(errors.ErrCodeInvalidPaper, err, "paper")
	}
	if err := job.Validate(); err != nil {
		return label.Job{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "job")
	}
	if job.Batch.Mode == label.ModeSequence {
		if err := errors.ValidatePrefix(job.Batch.Prefix); err != nil {
			return label.Job{}, err
		}
	}
	return job, nil
}

// ImportJob reads the job file at path. The encoding follows the extension.
func ImportJob(path string) (label.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return label.Job{}, errors.Wrap(errors.ErrCodeNotFound, err, "job file %s", path)
		}
		return label.Job{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJob(f, FormatFromPath(path))
}
