// Package cmd implements the bop command tree.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bcomnes/bop/internal/config"
	"github.com/bcomnes/bop/internal/logger"
	bop "github.com/bcomnes/bop/pkg"
)

// rootFlags are the persistent flags shared by every subcommand. They
// override values from the configuration file when set explicitly.
type rootFlags struct {
	configPath    string
	dir           string
	versionFile   string
	changelogFile string
	repoURL       string
	mainBranch    string
	logLevel      string
	dryRun        bool
	noSign        bool
	resetLower    bool
	scoped        bool
	allowDirty    bool
}

// NewRootCommand builds the bop command tree. toolVersion is reported by the
// version subcommand.
func NewRootCommand(toolVersion string) *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:   "bop",
		Short: "Bump the project version, release the changelog, commit and tag",
		Long: `bop reads the version from a VERSION "X.Y.Z" literal in a header file, bumps it,
turns the "## [Next]" section of CHANGELOG.md into a dated release section,
then stages both files, commits them and creates a signed tag vX.Y.Z.

Major and minor bumps keep lower components unless --reset-lower (or
reset_lower in .bop.yaml) is set.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "path to configuration file (default "+config.DefaultConfigFilename+" in --dir)")
	pf.StringVarP(&f.dir, "dir", "C", "", "repository working directory (default current directory)")
	pf.StringVar(&f.versionFile, "version-file", config.DefaultVersionFile, "header file holding the VERSION \"X.Y.Z\" literal")
	pf.StringVar(&f.changelogFile, "changelog", config.DefaultChangelogFile, "markdown changelog with a ## [Next] section")
	pf.StringVar(&f.repoURL, "repo-url", "", "repository web URL for changelog links (default derived from origin)")
	pf.StringVar(&f.mainBranch, "main-branch", bop.DefaultMainBranch, "branch unreleased compare links point at")
	pf.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.BoolVarP(&f.dryRun, "dry-run", "n", false, "compute the release without modifying files or the git repository")
	pf.BoolVar(&f.noSign, "no-sign", false, "create an annotated tag instead of a signed one")
	pf.BoolVar(&f.resetLower, "reset-lower", false, "zero lower components on major and minor bumps")
	pf.BoolVar(&f.scoped, "scoped", false, "only rewrite the VERSION literal in the version file")
	pf.BoolVar(&f.allowDirty, "allow-dirty", false, "skip the uncommitted changes check")

	for _, kind := range []string{bop.BumpMajor, bop.BumpMinor, bop.BumpPatch} {
		root.AddCommand(newKindCommand(f, kind))
	}
	root.AddCommand(
		newBumpCommand(f),
		newToCommand(f),
		newCurrentCommand(f),
		newReleasesCommand(f),
		newInitCommand(f),
		newVersionCommand(toolVersion),
	)

	return root
}

// Execute runs the bop CLI and exits with non-zero status on error.
func Execute(toolVersion string) {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	err := NewRootCommand(toolVersion).ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// applyOverrides copies explicitly set flags into cfg.
func (f *rootFlags) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("version-file") {
		cfg.VersionFile = f.versionFile
	}
	if flags.Changed("changelog") {
		cfg.ChangelogFile = f.changelogFile
	}
	if flags.Changed("repo-url") {
		cfg.RepositoryURL = f.repoURL
	}
	if flags.Changed("main-branch") {
		cfg.MainBranch = f.mainBranch
	}
	if flags.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = f.logLevel
	}
	if f.noSign {
		cfg.SignTag = false
	}
	if f.resetLower {
		cfg.ResetLower = true
	}
	if f.scoped {
		cfg.ScopedReplace = true
	}
	if f.allowDirty {
		cfg.AllowDirty = true
	}
}

// setup loads the configuration, applies flag overrides and returns a
// context carrying the command logger.
func (f *rootFlags) setup(cmd *cobra.Command) (context.Context, bop.Options, error) {
	path := f.configPath
	if path == "" && f.dir != "" {
		candidate := filepath.Join(f.dir, config.DefaultConfigFilename)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, bop.Options{}, err
	}

	f.applyOverrides(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, bop.Options{}, err
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return nil, bop.Options{}, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.ToContext(ctx, logger.New(level, cmd.ErrOrStderr()))
	logger.DebugKV(ctx, "configuration loaded", "config", path, "version_file", cfg.VersionFile, "changelog", cfg.ChangelogFile)

	return ctx, bop.Options{
		Dir:           f.dir,
		VersionFile:   cfg.VersionFile,
		ChangelogFile: cfg.ChangelogFile,
		RepositoryURL: cfg.RepositoryURL,
		MainBranch:    cfg.MainBranch,
		CommitMessage: cfg.CommitMessage,
		SignTag:       cfg.SignTag,
		Policy:        bop.BumpPolicy{ResetLower: cfg.ResetLower},
		ScopedReplace: cfg.ScopedReplace,
		AllowDirty:    cfg.AllowDirty,
	}, nil
}
