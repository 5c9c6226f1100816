package label

import "fmt"

// BatchMode selects how the per-label data values are generated.
type BatchMode string

// Batch modes.
const (
	ModeSequence BatchMode = "sequence"
	ModeCustom   BatchMode = "custom"
)

// BatchSettings drives the sequence generator.
type BatchSettings struct {
	Mode       BatchMode `json:"mode" yaml:"mode"`
	Prefix     string    `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Start      int       `json:"start,omitempty" yaml:"start,omitempty"`
	End        int       `json:"end,omitempty" yaml:"end,omitempty"`
	CustomList string    `json:"customList,omitempty" yaml:"customList,omitempty"`
}

// DefaultBatch is the starter batch: ABC-20010 through ABC-20025.
func DefaultBatch() BatchSettings {
	return BatchSettings{Mode: ModeSequence, Prefix: "ABC-", Start: 20010, End: 20025}
}

// Job is the immutable snapshot handed to one render or export operation.
type Job struct {
	Design       Design        `json:"design" yaml:"design"`
	Paper        string        `json:"paper,omitempty" yaml:"paper,omitempty"`
	Batch        BatchSettings `json:"batch" yaml:"batch"`
	ShowCutLines bool          `json:"showCutLines,omitempty" yaml:"showCutLines,omitempty"`
}

// DefaultJob returns the starter design on A4 with the starter batch.
func DefaultJob() Job {
	return Job{Design: DefaultDesign(), Paper: DefaultPaper, Batch: DefaultBatch()}
}

// Clone returns a deep copy of the job.
func (j Job) Clone() Job {
	c := j
	c.Design = j.Design.Clone()
	return c
}

// PaperSize resolves the job's paper key against the catalogue.
func (j Job) PaperSize() (PaperSize, error) {
	key := j.Paper
	if key == "" {
		key = DefaultPaper
	}
	p, ok := LookupPaper(key)
	if !ok {
		return PaperSize{}, fmt.Errorf("unknown paper size %q", j.Paper)
	}
	return p, nil
}

// Validate checks the design, paper and batch mode.
func (j Job) Validate() error {
	if err := j.Design.Validate(); err != nil {
		return err
	}
	if _, err := j.PaperSize(); err != nil {
		return err
	}
	switch j.Batch.Mode {
	case ModeSequence, ModeCustom, "":
	default:
		return fmt.Errorf("unknown batch mode %q", j.Batch.Mode)
	}
	return nil
}
