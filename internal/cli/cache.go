package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered-output and download caches",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cached outputs and downloaded images",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer store.Close()

			if cl, ok := store.(cache.Clearer); ok {
				if err := cl.Clear(ctx); err != nil {
					return fmt.Errorf("clear %s cache: %w", c.backendName(), err)
				}
				printSuccess("Cleared %s cache", c.backendName())
			}

			root, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			httpDir := filepath.Join(root, "http")
			if _, err := os.Stat(httpDir); os.IsNotExist(err) {
				printInfo("Download cache is empty")
				return nil
			}
			if err := os.RemoveAll(httpDir); err != nil {
				printWarning("Could not remove download cache: %v", err)
				return nil
			}
			printSuccess("Cleared download cache")
			printDetail("Directory: %s", httpDir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if c.backendName() == "file" {
				dir, err := c.artifactDir()
				if err != nil {
					return err
				}
				printKeyValue("artifacts", dir)
			} else {
				printKeyValue("artifacts", c.backendName())
			}
			printKeyValue("downloads", filepath.Join(root, "http"))
			return nil
		},
	}
}

// backendName returns the configured cache backend, "file" by default.
func (c *CLI) backendName() string {
	if c.Config.Cache.Backend == "" {
		return "file"
	}
	return c.Config.Cache.Backend
}
