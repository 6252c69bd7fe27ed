package bop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bcomnes/bop/internal/logger"
)

// ErrRepositoryURL is returned when no repository URL is configured and none
// can be derived from the origin remote.
var ErrRepositoryURL = errors.New("repository URL is not configured")

// DefaultCommitMessage is used when Options.CommitMessage is empty.
const DefaultCommitMessage = "Bump version to {version}"

// Options configures a release run.
type Options struct {
	// Dir is the repository working directory; relative file paths are
	// resolved against it. Empty means the current directory.
	Dir string
	// VersionFile holds the VERSION "X.Y.Z" literal.
	VersionFile string
	// ChangelogFile is the markdown changelog.
	ChangelogFile string
	// RepositoryURL is the web URL for changelog links. Derived from the
	// origin remote when empty.
	RepositoryURL string
	// MainBranch is the branch unreleased compare links point at.
	MainBranch string
	// CommitMessage is the commit message template; "{version}" is replaced.
	CommitMessage string
	// SignTag creates a signed tag (git tag -s) instead of an annotated one.
	SignTag bool
	// Policy controls lower component resets on major and minor bumps.
	Policy BumpPolicy
	// ScopedReplace limits the version file rewrite to the VERSION literal.
	ScopedReplace bool
	// AllowDirty skips the uncommitted changes check.
	AllowDirty bool
	// Now returns the release date; time.Now when nil.
	Now func() time.Time
}

// Bump selects the target version: either a named bump kind or an explicit version.
type Bump struct {
	Kind     string
	Explicit string
}

// Result holds metadata about a release run.
type Result struct {
	OldVersion string
	NewVersion string
	// BumpType is the bump kind, or "explicit".
	BumpType string
	Tag      string
	// UpdatedFiles are the files written (or, in a dry run, that would be).
	UpdatedFiles []string
	// LinkAdded reports whether a version link was added to the changelog footer.
	LinkAdded bool
}

// plan is a fully computed release that has not touched the disk yet.
type plan struct {
	result        Result
	newVersion    Version
	versionPath   string
	versionOut    []byte
	changelogPath string
	changelogOut  string
}

// Run bumps the version file, releases the changelog, then stages both files,
// commits, and tags the commit. Both files are rendered before either is
// written, so a changelog error leaves the version file untouched.
func Run(ctx context.Context, opts Options, bump Bump) (Result, error) {
	git := Git{Dir: opts.Dir}

	if err := git.Available(ctx); err != nil {
		return Result{}, err
	}

	p, err := prepare(ctx, git, opts, bump)
	if err != nil {
		return p.result, err
	}

	if !opts.AllowDirty {
		if err := git.CheckClean(ctx, []string{opts.VersionFile, opts.ChangelogFile}); err != nil {
			return p.result, err
		}
	}

	if err := writeFileKeepMode(p.versionPath, p.versionOut); err != nil {
		return p.result, err
	}
	logger.Debugf(ctx, "wrote %s", p.versionPath)

	if err := writeFileKeepMode(p.changelogPath, []byte(p.changelogOut)); err != nil {
		return p.result, err
	}
	logger.Debugf(ctx, "wrote %s", p.changelogPath)

	if err := git.Add(ctx, opts.ChangelogFile, opts.VersionFile); err != nil {
		return p.result, err
	}

	message := commitMessage(opts.CommitMessage, p.newVersion)
	if err := git.Commit(ctx, message); err != nil {
		return p.result, err
	}
	logger.InfoKV(ctx, "committed release", "message", message)

	if err := git.Tag(ctx, p.result.Tag, p.result.Tag, opts.SignTag); err != nil {
		return p.result, err
	}
	logger.InfoKV(ctx, "tagged release", "tag", p.result.Tag, "signed", opts.SignTag)

	return p.result, nil
}

// DryRun computes the release without writing files or touching git. It
// reports the files a real run would update.
func DryRun(ctx context.Context, opts Options, bump Bump) (Result, error) {
	p, err := prepare(ctx, Git{Dir: opts.Dir}, opts, bump)
	return p.result, err
}

// CurrentVersion reads the version from the configured version file.
func CurrentVersion(opts Options) (Version, error) {
	return ReadCurrentVersion(resolvePath(opts.Dir, opts.VersionFile))
}

// Releases lists the released sections of the configured changelog.
func Releases(opts Options) ([]Release, error) {
	return ReadReleases(resolvePath(opts.Dir, opts.ChangelogFile))
}

// NextVersion computes the target version for bump.
func NextVersion(current Version, bump Bump, policy BumpPolicy) (Version, string, error) {
	if bump.Explicit != "" {
		v, err := ParseExplicit(bump.Explicit)
		if err != nil {
			return current, "", err
		}
		if v.Compare(current) <= 0 {
			return current, "", fmt.Errorf("new version (%s) must be greater than the current version (%s)", v, current)
		}
		return v, "explicit", nil
	}

	v, err := BumpByName(current, bump.Kind, policy)
	if err != nil {
		return current, "", err
	}
	return v, bump.Kind, nil
}

func prepare(ctx context.Context, git Git, opts Options, bump Bump) (plan, error) {
	var p plan

	p.versionPath = resolvePath(opts.Dir, opts.VersionFile)
	p.changelogPath = resolvePath(opts.Dir, opts.ChangelogFile)

	// Validate the bump before reading anything.
	if bump.Explicit == "" {
		if _, err := BumpByName(Version{}, bump.Kind, opts.Policy); err != nil {
			return p, err
		}
	}

	current, err := ReadCurrentVersion(p.versionPath)
	if err != nil {
		return p, err
	}
	p.result.OldVersion = current.String()

	next, bumpType, err := NextVersion(current, bump, opts.Policy)
	if err != nil {
		return p, err
	}
	p.newVersion = next
	p.result.NewVersion = next.String()
	p.result.BumpType = bumpType
	p.result.Tag = next.Tag()

	ctx = logger.WithKV(ctx, "from", p.result.OldVersion, "to", p.result.NewVersion)
	logger.Infof(ctx, "bumping version from %s to %s", current, next)

	versionIn, err := os.ReadFile(p.versionPath)
	if err != nil {
		return p, fmt.Errorf("failed to read version file: %w", err)
	}
	if n := countOccurrences(versionIn, current); n > 1 && !opts.ScopedReplace {
		logger.WarnKV(ctx, "version string occurs more than once; every occurrence will be rewritten",
			"file", opts.VersionFile, "occurrences", n)
	}
	p.versionOut, err = RenderNewVersion(versionIn, current, next, opts.ScopedReplace)
	if err != nil {
		return p, err
	}

	repoURL, err := repositoryURL(ctx, git, opts.RepositoryURL)
	if err != nil {
		return p, err
	}

	changelogIn, err := os.ReadFile(p.changelogPath)
	if err != nil {
		return p, fmt.Errorf("failed to read changelog: %w", err)
	}
	out, report, err := RenderChangelog(string(changelogIn), ReleaseOptions{
		Version:       next,
		Date:          now(opts),
		RepositoryURL: repoURL,
		MainBranch:    opts.MainBranch,
	})
	if err != nil {
		return p, err
	}
	p.changelogOut = out
	p.result.LinkAdded = report.LinkAdded

	if !report.LinkAdded {
		logger.WarnKV(ctx, "changelog has no [Next] link definition; version link not added", "file", opts.ChangelogFile)
	}
	for _, h := range report.Removed {
		logger.Infof(ctx, "removed placeholder section %q", h)
	}
	logger.Debugf(ctx, "repointed %d compare link(s) at %s", report.CompareLinksUpdated, next.Tag())

	p.result.UpdatedFiles = []string{opts.VersionFile, opts.ChangelogFile}
	return p, nil
}

func repositoryURL(ctx context.Context, git Git, configured string) (string, error) {
	if configured != "" {
		return strings.TrimSuffix(configured, "/"), nil
	}
	remote, err := git.RemoteURL(ctx, "origin")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRepositoryURL, err)
	}
	web, err := RepositoryWebURL(remote)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRepositoryURL, err)
	}
	logger.Debugf(ctx, "using repository URL %s from origin", web)
	return web, nil
}

func commitMessage(template string, v Version) string {
	if template == "" {
		template = DefaultCommitMessage
	}
	return strings.ReplaceAll(template, "{version}", v.String())
}

func now(opts Options) time.Time {
	if opts.Now != nil {
		return opts.Now()
	}
	return time.Now()
}

func resolvePath(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
