// Package bop bumps a project version and records the release in its changelog.
//
// It provides:
//   - A three component Version value with major, minor and patch bumps.
//   - Reading and rewriting a VERSION "X.Y.Z" literal in a header file.
//   - A changelog tokenizer that turns the "## [Next]" section into a dated
//     release section, repoints compare links and adds a version link.
//   - Git integration to stage the two files, commit, and create a signed
//     annotated tag "vX.Y.Z". Failing git commands abort the run.
//
// The library backs the bop command line tool and can be used directly:
//
//	result, err := bop.Run(ctx, bop.Options{
//	    VersionFile:   "src/version.h",
//	    ChangelogFile: "CHANGELOG.md",
//	    RepositoryURL: "https://github.com/owner/project",
//	    SignTag:       true,
//	}, bop.Bump{Kind: bop.BumpPatch})
//	if err != nil {
//	    log.Fatalf("release failed: %v", err)
//	}
//	log.Printf("released %s", result.Tag)
package bop
