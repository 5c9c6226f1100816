package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/errors"
	labelio "github.com/matzehuels/labelsheet/pkg/io"
	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/layout"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

type planOpts struct {
	job    jobFlags
	width  float64
	height float64
	margin float64
	gap    float64
	asJSON bool
}

// planCommand creates the plan command, which prints the grid geometry
// without rendering anything.
func (c *CLI) planCommand() *cobra.Command {
	var opts planOpts

	cmd := &cobra.Command{
		Use:   "plan [job-file]",
		Short: "Show how many labels fit on a sheet",
		Example: `  labelsheet plan --width 50 --height 25 --paper letter
  labelsheet plan job.yaml --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runPlan(cmd.Context(), cmd, path, &opts)
		},
	}

	opts.job.register(cmd)
	cmd.Flags().Float64Var(&opts.width, "width", 0, "label width in mm (overrides the job)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "label height in mm (overrides the job)")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "page margin in mm (default 6, negative for none)")
	cmd.Flags().Float64Var(&opts.gap, "gap", 0, "gap between labels in mm (default 2, negative for none)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the layout JSON with every slot")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, cmd *cobra.Command, path string, opts *planOpts) error {
	job, err := loadJob(path)
	if err != nil {
		return err
	}
	if err := opts.job.apply(cmd, &job); err != nil {
		return err
	}
	if cmd.Flags().Changed("width") {
		job.Design.Label.Width = opts.width
	}
	if cmd.Flags().Changed("height") {
		job.Design.Label.Height = opts.height
	}

	popts := pipeline.Options{Margin: opts.margin, Gap: opts.gap, Logger: loggerFromContext(ctx)}
	applyConfig(cmd, c.Config, &popts)

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	if runner.Assets, err = c.newResolver("."); err != nil {
		return err
	}
	comp, res, err := runner.Compose(ctx, job, popts)
	if err != nil {
		if errors.Is(err, errors.ErrCodeLabelDoesNotFit) {
			printError("A %gx%gmm label does not fit on %s", job.Design.Label.Width, job.Design.Label.Height, job.Paper)
		}
		return err
	}

	if opts.asJSON {
		return labelio.WriteLayout(comp, os.Stdout)
	}
	printPlan(comp.Paper(), res.Plan, len(res.Values))
	return nil
}

// printPlan prints the grid summary as key/value lines.
func printPlan(paper label.PaperSize, p layout.Plan, labels int) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("%gx%gmm on %s", p.Label.Width, p.Label.Height, paper.Name)))
	printKeyValue("grid", fmt.Sprintf("%d cols x %d rows", p.Cols, p.Rows))
	printKeyValue("per page", StyleNumber.Render(fmt.Sprint(p.ItemsPerPage())))
	printKeyValue("labels", fmt.Sprint(labels))
	printKeyValue("pages", fmt.Sprint(p.TotalPages(labels)))
	printKeyValue("offset", fmt.Sprintf("%.2f, %.2f mm", p.OffsetX, p.OffsetY))
	printKeyValue("margin/gap", fmt.Sprintf("%g / %g mm", p.Margin, p.Gap))
}

// papersCommand lists the paper catalogue.
func (c *CLI) papersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "papers",
		Short: "List supported paper sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(papersTable(label.Papers()))
			return nil
		},
	}
}

func papersTable(papers []label.PaperSize) string {
	rows := make([][]string, len(papers))
	for i, p := range papers {
		rows[i] = []string{p.Key, p.Name, fmt.Sprintf("%g x %g mm", p.Width, p.Height)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Name", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return StyleHighlight.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		}).
		Render()
}
