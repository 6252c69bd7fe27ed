package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	bop "github.com/bcomnes/bop/pkg"
)

func newCurrentCommand(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the version found in the version file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, opts, err := f.setup(cmd)
			if err != nil {
				return err
			}
			v, err := bop.CurrentVersion(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newReleasesCommand(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "releases",
		Short: "List the released versions recorded in the changelog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, opts, err := f.setup(cmd)
			if err != nil {
				return err
			}
			releases, err := bop.Releases(opts)
			if err != nil {
				return err
			}
			if len(releases) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No releases recorded in", opts.ChangelogFile)
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Version", "Tag", "Date"})
			for _, r := range releases {
				date := "-"
				if !r.Date.IsZero() {
					date = r.Date.Format("2006-01-02")
				}
				t.AppendRow(table.Row{r.Version.String(), r.Version.Tag(), date})
			}
			t.Render()
			return nil
		},
	}
}

// newVersionCommand returns the `version` subcommand printing the tool version.
func newVersionCommand(toolVersion string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bop CLI version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "bop CLI version", toolVersion)
		},
	}
}
