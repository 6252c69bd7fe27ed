// Package main implements the bop CLI tool.
//
// bop automates the release of a project whose version lives in a header
// file. It reads the version from the first line containing a
// VERSION "X.Y.Z" literal (default src/version.h), bumps it, rewrites the
// changelog (default CHANGELOG.md) so the "## [Next]" section becomes a dated
// "## [vX.Y.Z]" section, stages exactly those two files, commits them with the
// message "Bump version to X.Y.Z" and creates a signed annotated tag vX.Y.Z.
//
// Command Usage:
//
//	bop [flags] <command>
//
// Commands:
//
//	major, minor, patch  Bump the named component and release.
//	bump <kind>          Same as above with the kind given as an argument.
//	to <version>         Release an explicit version.
//	current              Print the current version.
//	releases             List released versions from the changelog.
//	init [--force]       Write .bop.yaml from the defaults and the given flags.
//	version              Print the CLI version.
//
// Flags:
//
//	-c, --config:       Configuration file (default .bop.yaml in --dir).
//	-C, --dir:          Repository working directory.
//	--version-file:     Header holding the VERSION literal.
//	--changelog:        Markdown changelog.
//	--repo-url:         Web URL for compare and tree links. Derived from the
//	                    origin remote when omitted.
//	--main-branch:      Branch unreleased compare links point at (default main).
//	-n, --dry-run:      Compute the release without touching files or git.
//	--no-sign:          Create an annotated tag instead of a signed one.
//	--reset-lower:      Zero lower components on major and minor bumps.
//	--scoped:           Only rewrite the VERSION literal, not every occurrence
//	                    of the old version string.
//	--allow-dirty:      Skip the uncommitted changes check.
//	--log-level:        debug, info, warn or error.
//
// Bumping major or minor does not reset lower components by default: 1.2.3
// bumped by minor becomes 1.3.3. Use --reset-lower for 1.3.0.
//
// Examples:
//
//	# Release the next patch version (e.g. 1.2.3 → 1.2.4)
//	bop patch
//
//	# Preview a minor release
//	bop --dry-run minor
//
//	# Release 2.0.0 with an unsigned tag
//	bop --no-sign to 2.0.0
//
// Configuration (.bop.yaml):
//
//	version_file: include/project.h
//	changelog_file: CHANGELOG.md
//	repository_url: https://github.com/owner/project
//	main_branch: main
//	commit_message: "Bump version to {version}"
//	sign_tag: true
//	reset_lower: false
//	scoped_replace: false
//	allow_dirty: false
//	log_level: info
//
// For the library API see the documentation of package bop in pkg/.
package main
