package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/label"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

// sequenceCommand prints the data values a batch expands to, one per line.
func (c *CLI) sequenceCommand() *cobra.Command {
	var flags jobFlags
	var count bool

	cmd := &cobra.Command{
		Use:   "sequence [job-file]",
		Short: "Print the data values of a batch",
		Example: `  labelsheet sequence --prefix ABC- --start 20010 --end 20025
  labelsheet sequence --list serials.xlsx --count`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job := label.Job{Batch: label.DefaultBatch()}
			if len(args) == 1 {
				var err error
				if job, err = loadJob(args[0]); err != nil {
					return err
				}
			}
			if err := flags.apply(cmd, &job); err != nil {
				return err
			}
			values, err := pipeline.Values(job)
			if err != nil {
				return err
			}
			if count {
				fmt.Println(len(values))
				return nil
			}
			for _, v := range values {
				fmt.Println(v)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&count, "count", false, "print only the number of values")
	return cmd
}
