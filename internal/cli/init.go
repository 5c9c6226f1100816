package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/errors"
	labelio "github.com/matzehuels/labelsheet/pkg/io"
	"github.com/matzehuels/labelsheet/pkg/label"
)

// initCommand writes the starter job to a file.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write the starter job to a file (JSON or YAML by extension)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "labels.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}
			if err := labelio.ExportJob(label.DefaultJob(), path); err != nil {
				return err
			}
			printSuccess("Wrote starter job")
			printFile(path)
			printNextStep("Render it", "labelsheet render "+path+" -f svg,pdf")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
