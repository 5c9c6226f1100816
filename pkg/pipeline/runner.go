package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/labelsheet/pkg/assets"
	"github.com/matzehuels/labelsheet/pkg/cache"
	"github.com/matzehuels/labelsheet/pkg/compose"
	lserrors "github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching and defaults behave the same.
//
// The Runner holds no per-job state. Multiple goroutines can share one
// Runner with different jobs and options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Assets loads image and logo references. Nil resolves data URIs and
	// local files only.
	Assets *assets.Resolver
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs values → plan → render for job with caching.
//
// The job is copied, normalized and validated first, so later edits by the
// caller never affect a run in progress.
func (r *Runner) Execute(ctx context.Context, job label.Job, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	job, err := prepareJob(job)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Job:       job,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}
	hash, err := cache.HashJSON(job)
	if err != nil {
		return nil, lserrors.Wrap(lserrors.ErrCodeInternal, err, "hash job")
	}
	result.JobHash = hash

	// Stage 1+2: Values and Plan
	c, err := r.planStage(ctx, job, opts, result)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("planned labels",
		"labels", result.Stats.Labels,
		"grid", gridString(result),
		"pages", result.Pages,
		"duration", result.Stats.PlanTime)

	// Stage 3: Render
	renderStart := time.Now()
	for _, format := range opts.Formats {
		data, hit, err := r.renderCached(ctx, c, hash, format, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = data
		if hit {
			result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
		} else {
			result.CacheInfo.Misses = append(result.CacheInfo.Misses, format)
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(result.CacheInfo.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Compose runs the values and plan stages only and returns the composer,
// for callers that drive rendering themselves (previews, async exports).
func (r *Runner) Compose(ctx context.Context, job label.Job, opts Options) (*compose.Composer, *Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	job, err := prepareJob(job)
	if err != nil {
		return nil, nil, err
	}
	result := &Result{Job: job, Artifacts: map[string][]byte{}}
	c, err := r.planStage(ctx, job, opts, result)
	if err != nil {
		return nil, nil, err
	}
	return c, result, nil
}

// renderCached returns the artifact for format, from the cache when
// possible. Cache errors are logged and treated as misses.
func (r *Runner) renderCached(ctx context.Context, c *compose.Composer, hash, format string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
	hooks := observability.Cache()

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		case hit:
			hooks.OnCacheHit(ctx, key)
			r.Logger.Debug("cache hit", "format", format)
			return data, true, nil
		default:
			hooks.OnCacheMiss(ctx, key)
		}
	}

	data, err := Render(ctx, c, format, opts)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "error", err)
	} else {
		hooks.OnCacheSet(ctx, key, len(data))
	}
	return data, false, nil
}

func (r *Runner) resolver() *assets.Resolver {
	if r.Assets != nil {
		return r.Assets
	}
	return &assets.Resolver{Logger: r.Logger}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// prepareJob copies and normalizes job and checks it.
func prepareJob(job label.Job) (label.Job, error) {
	job = job.Clone()
	job.Design.Normalize()
	if _, err := job.PaperSize(); err != nil {
		return label.Job{}, lserrors.Wrap(lserrors.ErrCodeInvalidPaper, err, "paper")
	}
	if err := job.Validate(); err != nil {
		return label.Job{}, lserrors.Wrap(lserrors.ErrCodeInvalidInput, err, "job")
	}
	return job, nil
}

func gridString(res *Result) string {
	return fmt.Sprintf("%dx%d", res.Plan.Cols, res.Plan.Rows)
}
