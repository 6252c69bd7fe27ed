package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	bop "github.com/bcomnes/bop/pkg"
)

// Config holds the release settings for a repository.
type Config struct {
	// VersionFile is the header holding the VERSION "X.Y.Z" literal.
	VersionFile string `yaml:"version_file"`
	// ChangelogFile is the markdown changelog with a "## [Next]" section.
	ChangelogFile string `yaml:"changelog_file"`
	// RepositoryURL is the web URL used for compare and tree links.
	// When empty it is derived from the "origin" remote.
	RepositoryURL string `yaml:"repository_url,omitempty"`
	// MainBranch is the branch unreleased compare links point at.
	MainBranch string `yaml:"main_branch"`
	// CommitMessage is the release commit message; {version} is substituted.
	CommitMessage string `yaml:"commit_message"`
	// SignTag creates GPG/SSH signed tags instead of plain annotated ones.
	SignTag bool `yaml:"sign_tag"`
	// ResetLower zeroes lower components on major and minor bumps.
	ResetLower bool `yaml:"reset_lower"`
	// ScopedReplace only rewrites the VERSION literal in the version file.
	ScopedReplace bool `yaml:"scoped_replace"`
	// AllowDirty skips the uncommitted changes check.
	AllowDirty bool `yaml:"allow_dirty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

const (
	// DefaultConfigFilename is looked up in the working directory when no path is given.
	DefaultConfigFilename = ".bop.yaml"
	// DefaultVersionFile is the default version header path.
	DefaultVersionFile = "src/version.h"
	// DefaultChangelogFile is the default changelog path.
	DefaultChangelogFile = "CHANGELOG.md"
	// VersionPlaceholder is replaced with the new version in CommitMessage.
	VersionPlaceholder = "{version}"

	// DefaultFilePermissions is the permission used when saving settings.
	DefaultFilePermissions = 0o644
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBadBranch is returned for branch names that cannot appear in a compare link.
	errBadBranch = errors.New("main branch must be a single word without spaces")
	// errBadTemplate is returned when the commit message template has no version placeholder.
	errBadTemplate = errors.New("commit message must contain " + VersionPlaceholder)
)

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		VersionFile:   DefaultVersionFile,
		ChangelogFile: DefaultChangelogFile,
		MainBranch:    bop.DefaultMainBranch,
		CommitMessage: bop.DefaultCommitMessage,
		SignTag:       true,
	}
}

// Load reads configuration from path on top of Default and validates it.
// An empty path means DefaultConfigFilename, which may be absent.
func Load(path string) (*Config, error) {
	optional := path == ""
	if optional {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults for empty fields and checks formatting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.VersionFile == "" {
		cfg.VersionFile = DefaultVersionFile
	}

	if cfg.ChangelogFile == "" {
		cfg.ChangelogFile = DefaultChangelogFile
	}

	if cfg.MainBranch == "" {
		cfg.MainBranch = bop.DefaultMainBranch
	}

	if strings.ContainsAny(cfg.MainBranch, " \t\n") {
		return errBadBranch
	}

	if cfg.CommitMessage == "" {
		cfg.CommitMessage = bop.DefaultCommitMessage
	}

	if !strings.Contains(cfg.CommitMessage, VersionPlaceholder) {
		return errBadTemplate
	}

	if cfg.RepositoryURL == "" {
		return nil
	}

	u, err := url.ParseRequestURI(cfg.RepositoryURL)
	if err != nil {
		return fmt.Errorf("invalid repository URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid repository URL %q: want an http(s) URL", cfg.RepositoryURL)
	}

	return nil
}
