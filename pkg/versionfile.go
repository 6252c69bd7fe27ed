package bop

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrVersionNotFound is returned when the version file has no VERSION "X.Y.Z" literal.
var ErrVersionNotFound = errors.New("version literal not found")

// versionLiteral matches lines such as `#define PROJECT_VERSION "1.2.3"`.
var versionLiteral = regexp.MustCompile(`VERSION "(\d+\.\d+\.\d+)"`)

// ReadCurrentVersion returns the version from the first line of the file at
// path that contains a VERSION "X.Y.Z" literal.
func ReadCurrentVersion(path string) (Version, error) {
	f, err := os.Open(path)
	if err != nil {
		return Version{}, fmt.Errorf("failed to open version file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := versionLiteral.FindStringSubmatch(scanner.Text()); m != nil {
			return ParseVersion(m[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return Version{}, fmt.Errorf("failed to read version file: %w", err)
	}
	return Version{}, fmt.Errorf("%w in %s", ErrVersionNotFound, path)
}

// RenderNewVersion returns content with the old version replaced by the new one.
//
// Unscoped, every textual occurrence of the old version is rewritten, including
// ones that have nothing to do with the VERSION literal. Scoped, only the
// version inside the first VERSION "X.Y.Z" literal changes.
func RenderNewVersion(content []byte, oldVersion, newVersion Version, scoped bool) ([]byte, error) {
	oldText := []byte(oldVersion.String())
	newText := []byte(newVersion.String())

	if !scoped {
		return bytes.ReplaceAll(content, oldText, newText), nil
	}

	loc := versionLiteral.FindSubmatchIndex(content)
	if loc == nil || !bytes.Equal(content[loc[2]:loc[3]], oldText) {
		return nil, fmt.Errorf("%w: no VERSION literal holding %s", ErrVersionNotFound, oldVersion)
	}

	var out bytes.Buffer
	out.Grow(len(content) + len(newText) - len(oldText))
	out.Write(content[:loc[2]])
	out.Write(newText)
	out.Write(content[loc[3]:])
	return out.Bytes(), nil
}

// WriteNewVersion rewrites every occurrence of oldVersion in the file at path
// with newVersion.
func WriteNewVersion(path string, oldVersion, newVersion Version) error {
	return writeNewVersion(path, oldVersion, newVersion, false)
}

func writeNewVersion(path string, oldVersion, newVersion Version, scoped bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read version file: %w", err)
	}
	out, err := RenderNewVersion(data, oldVersion, newVersion, scoped)
	if err != nil {
		return err
	}
	return writeFileKeepMode(path, out)
}

// writeFileKeepMode overwrites path, keeping its permission bits.
func writeFileKeepMode(path string, data []byte) error {
	mode := os.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// countOccurrences reports how many times v appears in content. Used to warn
// about incidental matches an unscoped rewrite will touch.
func countOccurrences(content []byte, v Version) int {
	return strings.Count(string(content), v.String())
}
