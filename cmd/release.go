package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	bop "github.com/bcomnes/bop/pkg"
)

func newKindCommand(f *rootFlags, kind string) *cobra.Command {
	return &cobra.Command{
		Use:   kind,
		Short: fmt.Sprintf("Bump the %s version, release the changelog, commit and tag", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.release(cmd, bop.Bump{Kind: kind})
		},
	}
}

func newBumpCommand(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "bump <major|minor|patch>",
		Short: "Bump the named version component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.release(cmd, bop.Bump{Kind: args[0]})
		},
	}
}

func newToCommand(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "to <version>",
		Short:   "Release an explicit version such as 1.4.0",
		Example: "  bop to 2.0.0\n  bop --dry-run to v1.10.0",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.release(cmd, bop.Bump{Explicit: args[0]})
		},
	}
}

func (f *rootFlags) release(cmd *cobra.Command, bump bop.Bump) error {
	ctx, opts, err := f.setup(cmd)
	if err != nil {
		return err
	}

	var result bop.Result
	if f.dryRun {
		result, err = bop.DryRun(ctx, opts, bump)
	} else {
		result, err = bop.Run(ctx, opts, bump)
	}
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), result, f.dryRun)
	return nil
}

func printSummary(w io.Writer, result bop.Result, dryRun bool) {
	if dryRun {
		fmt.Fprintln(w, "Dry run complete — no files were modified.")
	} else {
		fmt.Fprintln(w, "Version bump successful!")
	}
	fmt.Fprintf(w, "Old Version: %s\n", result.OldVersion)
	fmt.Fprintf(w, "New Version: %s\n", result.NewVersion)
	fmt.Fprintf(w, "Bump Type:   %s\n", result.BumpType)
	fmt.Fprintf(w, "Tag:         %s\n", result.Tag)

	if len(result.UpdatedFiles) > 0 {
		if dryRun {
			fmt.Fprintln(w, "Files that would be updated:")
		} else {
			fmt.Fprintln(w, "Files updated:")
		}
		for _, file := range result.UpdatedFiles {
			fmt.Fprintf(w, "  %s\n", file)
		}
	}
}
