package bop

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	// ErrChangelogSectionNotFound is returned when the changelog has no "## [Next]" heading.
	ErrChangelogSectionNotFound = errors.New("changelog section not found")
	// ErrReleaseExists is returned when the changelog already has a section for the target version.
	ErrReleaseExists = errors.New("changelog already has a section for this version")
)

const (
	nextHeading        = "## [Next]"
	placeholderHeading = "## [v0.0.0]"
	// DefaultMainBranch is the branch compare links point at before a release.
	DefaultMainBranch = "main"
	dateLayout        = "2006-01-02"
)

var (
	// headingLine matches a line made of two or more '#' and a title. It only
	// starts a section when the next line is blank.
	headingLine = regexp.MustCompile(`^#{2,}[^#\n][^\n]*$`)
	// linkDefinition matches reference-style link definitions, "[label]: url".
	linkDefinition = regexp.MustCompile(`^\[[^\]]+\]:\s*\S`)
	nextLink       = regexp.MustCompile(`\[Next\]: .+`)
	releaseHeading = regexp.MustCompile(`^## \[v(\d+\.\d+\.\d+)\](.*)$`)
)

// Section is one heading-delimited part of a changelog.
type Section struct {
	// Heading is the heading line without its line break.
	Heading string
	// Body is everything after the blank line that follows the heading, up to
	// the next heading.
	Body string
}

// Changelog is a markdown changelog split into sections. String reproduces the
// parsed text exactly.
type Changelog struct {
	// Preamble is the text before the first section heading.
	Preamble string
	Sections []Section
	// Footer is the trailing block of reference link definitions.
	Footer string
}

// ReleaseOptions describes the release being recorded in the changelog.
type ReleaseOptions struct {
	Version       Version
	Date          time.Time
	RepositoryURL string
	MainBranch    string
}

// ReleaseReport summarises what Release changed.
type ReleaseReport struct {
	// LinkAdded is false when the footer had no "[Next]: ..." definition to
	// anchor the new version link on.
	LinkAdded bool
	// CompareLinksUpdated counts "...<branch>" references repointed at the new tag.
	CompareLinksUpdated int
	// Removed lists placeholder headings that were dropped.
	Removed []string
}

// Release is a released section of the changelog.
type Release struct {
	Version Version
	// Date is zero when the heading carries no parseable date.
	Date    time.Time
	Heading string
}

// ParseChangelog splits text into a preamble, sections and a link footer.
func ParseChangelog(text string) *Changelog {
	lines := splitLines(text)
	c := &Changelog{}

	var buf strings.Builder
	current := -1
	flush := func() {
		if current < 0 {
			c.Preamble = buf.String()
		} else {
			c.Sections[current].Body = buf.String()
		}
		buf.Reset()
	}

	for i := 0; i < len(lines); i++ {
		if isHeading(lines, i) {
			flush()
			c.Sections = append(c.Sections, Section{Heading: strings.TrimSuffix(lines[i], "\n")})
			current = len(c.Sections) - 1
			i++ // the blank line belongs to the heading
			continue
		}
		buf.WriteString(lines[i])
	}
	flush()

	if n := len(c.Sections); n > 0 {
		c.Sections[n-1].Body, c.Footer = splitFooter(c.Sections[n-1].Body)
	} else {
		c.Preamble, c.Footer = splitFooter(c.Preamble)
	}
	return c
}

// String joins the changelog back into markdown text.
func (c *Changelog) String() string {
	var b strings.Builder
	b.WriteString(c.Preamble)
	for _, s := range c.Sections {
		b.WriteString(s.Heading)
		b.WriteString("\n\n")
		b.WriteString(s.Body)
	}
	b.WriteString(c.Footer)
	return b.String()
}

// Release turns the "## [Next]" section into a dated section for opts.Version
// and opens a fresh "## [Next]" section above it.
func (c *Changelog) Release(opts ReleaseOptions) (ReleaseReport, error) {
	var report ReleaseReport

	next := c.index(func(h string) bool { return strings.HasPrefix(h, nextHeading) })
	if next < 0 {
		return report, fmt.Errorf("%w: no %q heading", ErrChangelogSectionNotFound, nextHeading)
	}

	tag := opts.Version.Tag()
	if c.index(func(h string) bool { return strings.HasPrefix(h, "## ["+tag+"]") }) >= 0 {
		return report, fmt.Errorf("%w: %s", ErrReleaseExists, tag)
	}

	branch := opts.MainBranch
	if branch == "" {
		branch = DefaultMainBranch
	}
	repo := strings.TrimSuffix(opts.RepositoryURL, "/")

	decoration := strings.TrimPrefix(c.Sections[next].Heading, nextHeading)
	body := c.Sections[next].Body
	report.CompareLinksUpdated = strings.Count(body, "..."+branch)

	released := Section{
		Heading: fmt.Sprintf("## [%s]%s — %s", tag, decoration, opts.Date.Format(dateLayout)),
		Body:    strings.ReplaceAll(body, "..."+branch, "..."+tag),
	}
	c.Sections[next] = Section{
		Heading: nextHeading,
		Body:    fmt.Sprintf("[Compare %s...%s](%s/compare/%s...%s)\n\n", tag, branch, repo, tag, branch),
	}
	c.Sections = append(c.Sections[:next+1], append([]Section{released}, c.Sections[next+1:]...)...)

	kept := c.Sections[:0]
	for i, s := range c.Sections {
		if strings.HasPrefix(s.Heading, placeholderHeading) {
			report.Removed = append(report.Removed, s.Heading)
			if i == len(c.Sections)-1 {
				// Link definitions trapped in a trailing placeholder move to
				// the end of what remains.
				if links := trailingLinks(s.Body); links != "" {
					if len(kept) > 0 {
						kept[len(kept)-1].Body += links
					} else {
						c.Preamble += links
					}
				}
			}
			continue
		}
		kept = append(kept, s)
	}
	c.Sections = kept

	// The [Next] definition normally sits in the footer. Any non-link text
	// after it leaves it in the body of the last section instead.
	link := fmt.Sprintf("\n[%s]: %s/tree/%s", tag, repo, tag)
	var ok bool
	if c.Footer, ok = insertAfterNextLink(c.Footer, link); !ok {
		last := &c.Sections[len(c.Sections)-1]
		last.Body, ok = insertAfterNextLink(last.Body, link)
	}
	report.LinkAdded = ok

	return report, nil
}

// Releases lists the released sections in document order.
func (c *Changelog) Releases() []Release {
	var out []Release
	for _, s := range c.Sections {
		m := releaseHeading.FindStringSubmatch(s.Heading)
		if m == nil {
			continue
		}
		v, err := ParseVersion(m[1])
		if err != nil {
			continue
		}
		r := Release{Version: v, Heading: s.Heading}
		if tail := strings.TrimLeft(m[2], " —–-"); tail != "" {
			if d, err := dateparse.ParseAny(tail); err == nil {
				r.Date = d
			}
		}
		out = append(out, r)
	}
	return out
}

func (c *Changelog) index(match func(heading string) bool) int {
	for i, s := range c.Sections {
		if match(s.Heading) {
			return i
		}
	}
	return -1
}

// RenderChangelog applies Release to changelog text.
func RenderChangelog(text string, opts ReleaseOptions) (string, ReleaseReport, error) {
	c := ParseChangelog(text)
	report, err := c.Release(opts)
	if err != nil {
		return "", report, err
	}
	return c.String(), report, nil
}

// RewriteChangelog applies Release to the changelog file at path.
func RewriteChangelog(path string, opts ReleaseOptions) (ReleaseReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReleaseReport{}, fmt.Errorf("failed to read changelog: %w", err)
	}
	out, report, err := RenderChangelog(string(data), opts)
	if err != nil {
		return report, err
	}
	return report, writeFileKeepMode(path, []byte(out))
}

// ReadReleases parses the changelog at path and returns its released sections.
func ReadReleases(path string) ([]Release, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read changelog: %w", err)
	}
	return ParseChangelog(string(data)).Releases(), nil
}

func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func isHeading(lines []string, i int) bool {
	if i+1 >= len(lines) || lines[i+1] != "\n" {
		return false
	}
	return headingLine.MatchString(strings.TrimSuffix(lines[i], "\n"))
}

func insertAfterNextLink(s, link string) (string, bool) {
	loc := nextLink.FindStringIndex(s)
	if loc == nil {
		return s, false
	}
	return s[:loc[1]] + link + s[loc[1]:], true
}

// trailingLinks returns s from its first link definition line on, or "".
func trailingLinks(s string) string {
	lines := splitLines(s)
	for k, line := range lines {
		if linkDefinition.MatchString(strings.TrimRight(line, "\r\n")) {
			return strings.Join(lines[k:], "")
		}
	}
	return ""
}

// splitFooter separates the trailing run of link definitions (blank lines
// allowed in between) from s.
func splitFooter(s string) (body, footer string) {
	lines := splitLines(s)
	start := -1
scan:
	for k := len(lines) - 1; k >= 0; k-- {
		line := strings.TrimRight(lines[k], "\r\n")
		switch {
		case linkDefinition.MatchString(line):
			start = k
		case strings.TrimSpace(line) == "":
		default:
			break scan
		}
	}
	if start < 0 {
		return s, ""
	}
	return strings.Join(lines[:start], ""), strings.Join(lines[start:], "")
}
