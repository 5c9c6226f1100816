package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/compose"
	"github.com/matzehuels/labelsheet/pkg/errors"
	labelio "github.com/matzehuels/labelsheet/pkg/io"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

// jobFlags override fields of the loaded job.
type jobFlags struct {
	paper  string
	prefix string
	start  int
	end    int
	list   string // custom list file (.txt or .xlsx)
	cut    bool
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.paper, "paper", "", "paper size: a4, a3, letter")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "sequence prefix")
	cmd.Flags().IntVar(&f.start, "start", 0, "first sequence number")
	cmd.Flags().IntVar(&f.end, "end", 0, "last sequence number (inclusive)")
	cmd.Flags().StringVar(&f.list, "list", "", "custom value list, one per line (.txt) or first column (.xlsx)")
	cmd.Flags().BoolVar(&f.cut, "cut", false, "draw cut lines around each label")
}

// apply copies every flag the user set onto job.
func (f *jobFlags) apply(cmd *cobra.Command, job *label.Job) error {
	changed := cmd.Flags().Changed
	if changed("paper") {
		job.Paper = strings.ToLower(f.paper)
	}
	if changed("prefix") {
		job.Batch.Prefix = f.prefix
	}
	if changed("start") {
		job.Batch.Start = f.start
	}
	if changed("end") {
		job.Batch.End = f.end
	}
	if changed("prefix") || changed("start") || changed("end") {
		job.Batch.Mode = label.ModeSequence
	}
	if changed("list") {
		list, err := labelio.ImportCustomList(f.list)
		if err != nil {
			return err
		}
		job.Batch.Mode = label.ModeCustom
		job.Batch.CustomList = list
	}
	if changed("cut") {
		job.ShowCutLines = f.cut
	}
	return nil
}

// loadJob reads the job file at path, or returns the starter job when path
// is empty.
func loadJob(path string) (label.Job, error) {
	if path == "" {
		return label.DefaultJob(), nil
	}
	return labelio.ImportJob(path)
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	job        jobFlags
	output     string // output directory
	formats    string
	page       int
	margin     float64
	gap        float64
	pageGap    float64
	dpi        float64
	quality    int
	rasterizer string
	noCache    bool
	refresh    bool
	noProgress bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [job-file]",
		Short: "Render a label job to laser SVG, print PDF, previews or layout JSON",
		Long: `Render a label job.

Without a job file the starter design is used (60x40mm label, QR code,
caption and the {code} variable) with the sequence ABC-20010..ABC-20025.
Batch and paper flags override the job.`,
		Example: `  labelsheet render job.yaml -f svg,pdf -o out/
  labelsheet render --prefix INV- --start 1 --end 500 --cut -f pdf
  labelsheet render job.json --list serials.xlsx -f page-svg --page 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runRender(cmd.Context(), cmd, path, &opts)
		},
	}

	opts.job.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output format(s): svg, pdf, page-svg, png, json (comma-separated)")
	cmd.Flags().IntVar(&opts.page, "page", 1, "sheet to preview for page-svg and png (1-based)")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "page margin in mm (default 6, negative for none)")
	cmd.Flags().Float64Var(&opts.gap, "gap", 0, "gap between labels in mm (default 2, negative for none)")
	cmd.Flags().Float64Var(&opts.pageGap, "page-gap", 0, "gap between pages in the laser SVG in mm (default 10)")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 0, "raster resolution for pdf and png (default 150)")
	cmd.Flags().IntVar(&opts.quality, "jpeg-quality", 0, "JPEG quality of PDF pages, 1-100 (default 85)")
	cmd.Flags().StringVar(&opts.rasterizer, "rasterizer", "", "page rasterizer: gg (default), rsvg")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable the interactive progress display")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, path string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	job, err := loadJob(path)
	if err != nil {
		return err
	}
	if err := opts.job.apply(cmd, &job); err != nil {
		return err
	}

	popts := pipeline.Options{
		Formats:     parseFormats(opts.formats),
		Page:        opts.page,
		Margin:      opts.margin,
		Gap:         opts.gap,
		PageGap:     opts.pageGap,
		DPI:         opts.dpi,
		JPEGQuality: opts.quality,
		Rasterizer:  opts.rasterizer,
		Refresh:     opts.refresh,
		Logger:      logger,
	}
	applyConfig(cmd, c.Config, &popts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	interactive := !opts.noProgress && isatty.IsTerminal(os.Stderr.Fd())
	var result *pipeline.Result
	switch {
	case interactive && slices.Contains(popts.Formats, pipeline.FormatPDF):
		result, err = runWithProgress(ctx, func(ctx context.Context, progress func(compose.Progress)) (*pipeline.Result, error) {
			popts.Progress = progress
			return runner.Execute(ctx, job, popts)
		})
	case interactive:
		spinner := newSpinnerWithContext(ctx, "Rendering labels...")
		spinner.Start()
		result, err = runner.Execute(ctx, job, popts)
		spinner.Stop()
	default:
		prog := newProgress(logger)
		result, err = runner.Execute(ctx, job, popts)
		if err == nil {
			prog.done("rendered labels", "labels", result.Stats.Labels, "pages", result.Pages)
		}
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create output dir")
	}
	printSuccess("Rendered %s labels on %s",
		StyleNumber.Render(fmt.Sprint(result.Stats.Labels)),
		pluralPages(result.Pages))
	printStats(result)
	for _, format := range popts.Formats {
		out := filepath.Join(opts.output, pipeline.Filename(result.Job, format))
		if format == pipeline.FormatPageSVG || format == pipeline.FormatPNG {
			out = pagePath(out, popts.Page)
		}
		if err := os.WriteFile(out, result.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
		}
		printFile(out)
	}
	return nil
}

// pagePath inserts the page number before the extension.
func pagePath(path string, page int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_p%d%s", strings.TrimSuffix(path, ext), page, ext)
}

func pluralPages(n int) string {
	if n == 1 {
		return "1 page"
	}
	return fmt.Sprintf("%d pages", n)
}
