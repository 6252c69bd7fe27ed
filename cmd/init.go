package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bcomnes/bop/internal/config"
)

func newInitCommand(f *rootFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write " + config.DefaultConfigFilename + " with the default settings and any flags given",
		Example: "  bop init --version-file include/app.h --main-branch trunk\n" +
			"  bop init --no-sign --force",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := f.configPath
			if path == "" {
				path = filepath.Join(f.dir, config.DefaultConfigFilename)
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite it", path)
			}

			cfg := config.Default()
			f.applyOverrides(cmd, cfg)

			if err := config.Save(path, cfg); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	return cmd
}
