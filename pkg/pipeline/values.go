package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/labelsheet/pkg/assets"
	"github.com/matzehuels/labelsheet/pkg/compose"
	lserrors "github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/observability"
	"github.com/matzehuels/labelsheet/pkg/sequence"
)

// =============================================================================
// Values and Plan stages
// =============================================================================

// Values expands the job's batch settings into data values.
func Values(job label.Job) ([]string, error) {
	if job.Batch.Mode != label.ModeCustom {
		if err := lserrors.ValidatePrefix(job.Batch.Prefix); err != nil {
			return nil, err
		}
		if err := lserrors.ValidateRange(job.Batch.Start, job.Batch.End); err != nil {
			return nil, err
		}
	}
	values := sequence.Generate(job.Batch)
	if err := lserrors.ValidateCount(len(values)); err != nil {
		return nil, err
	}
	return values, nil
}

// Plan lays the values out for job. Paper and fit failures come back as
// INVALID_PAPER and LABEL_DOES_NOT_FIT.
func Plan(ctx context.Context, job label.Job, values []string, set assets.Set, opts Options) (*compose.Composer, error) {
	copts := opts.ComposeOptions()
	copts.Assets = set
	c, err := compose.New(job, values, copts)

	paper := job.Paper
	if err != nil {
		observability.Pipeline().OnPlan(ctx, paper, 0, 0, err)
		if errors.Is(err, layout.ErrLabelDoesNotFit) {
			return nil, lserrors.Wrap(lserrors.ErrCodeLabelDoesNotFit, err,
				"%gx%gmm label on %s", job.Design.Label.Width, job.Design.Label.Height, paper)
		}
		return nil, lserrors.Wrap(lserrors.ErrCodeInvalidPaper, err, "plan")
	}
	p := c.Plan()
	observability.Pipeline().OnPlan(ctx, c.Paper().Key, p.Cols, p.Rows, nil)
	return c, nil
}

// planStage runs Values, asset resolution and Plan, filling result.
func (r *Runner) planStage(ctx context.Context, job label.Job, opts Options, result *Result) (*compose.Composer, error) {
	start := time.Now()
	values, err := Values(job)
	if err != nil {
		return nil, err
	}
	result.Values = values
	result.Stats.Labels = len(values)

	set, err := r.resolver().ResolveAll(ctx, assets.Refs(job.Design))
	if err != nil {
		return nil, lserrors.Wrap(lserrors.ErrCodeRenderFailed, err, "resolve assets")
	}
	result.Stats.Assets = len(set)

	c, err := Plan(ctx, job, values, set, opts)
	if err != nil {
		return nil, err
	}
	result.Plan = c.Plan()
	result.Pages = c.TotalPages()
	result.Stats.PlanTime = time.Since(start)
	return c, nil
}
