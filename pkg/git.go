package bop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrExternalProcess matches any failed git invocation via errors.Is.
var ErrExternalProcess = errors.New("external process failed")

// CommandError describes a git invocation that could not be started or exited non-zero.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed: %v", strings.Join(e.Args, " "), e.Err)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += ", detail: " + detail
	}
	return msg
}

func (e *CommandError) Unwrap() []error {
	return []error{ErrExternalProcess, e.Err}
}

// Git runs git commands inside a working tree.
type Git struct {
	// Dir is the working directory; empty means the current directory.
	Dir string
}

func (g Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

// Available verifies that git can be executed.
func (g Git) Available(ctx context.Context) error {
	if _, err := g.run(ctx, "--version"); err != nil {
		return fmt.Errorf("git is not available on the system: %w", err)
	}
	return nil
}

// Add stages exactly the given paths.
func (g Git) Add(ctx context.Context, paths ...string) error {
	_, err := g.run(ctx, append([]string{"add", "--"}, paths...)...)
	return err
}

// Commit records the staged changes with message.
func (g Git) Commit(ctx context.Context, message string) error {
	_, err := g.run(ctx, "commit", "-m", message)
	return err
}

// Tag creates an annotated tag on HEAD. Signed tags use the user's
// configured signing key.
func (g Git) Tag(ctx context.Context, name, message string, sign bool) error {
	_, err := g.run(ctx, tagArgs(name, message, sign)...)
	return err
}

func tagArgs(name, message string, sign bool) []string {
	mode := "-a"
	if sign {
		mode = "-s"
	}
	return []string{"tag", mode, "-m", message, name}
}

// RemoteURL returns the fetch URL of the named remote.
func (g Git) RemoteURL(ctx context.Context, remote string) (string, error) {
	out, err := g.run(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// TopLevel returns the absolute path of the working tree root.
func (g Git) TopLevel(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CheckClean fails when files other than allowed have uncommitted changes.
// Allowed paths are resolved against Dir.
func (g Git) CheckClean(ctx context.Context, allowed []string) error {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return fmt.Errorf("failed to check git status: %w", err)
	}
	root, err := g.TopLevel(ctx)
	if err != nil {
		return err
	}
	root = resolveSymlinks(root)

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		abs, err := g.abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve path %q: %w", f, err)
		}
		allowedSet[resolveSymlinks(abs)] = struct{}{}
	}

	var disallowed []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		if _, ok := allowedSet[filepath.Join(root, path)]; !ok {
			disallowed = append(disallowed, path)
		}
	}

	if len(disallowed) > 0 {
		return fmt.Errorf("working directory is dirty; uncommitted files not included in commit: %v", disallowed)
	}
	return nil
}

func (g Git) abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Abs(filepath.Join(g.Dir, path))
}

// resolveSymlinks evaluates symlinks in the directory part of path so paths
// reported by git compare equal to user supplied ones.
func resolveSymlinks(path string) string {
	dir, file := filepath.Split(path)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return filepath.Join(resolved, file)
	}
	return filepath.Clean(path)
}

// RepositoryWebURL converts a git remote URL into the https base URL used in
// changelog links: "git@github.com:owner/repo.git" and
// "https://github.com/owner/repo.git" both become "https://github.com/owner/repo".
func RepositoryWebURL(remote string) (string, error) {
	u := strings.TrimSpace(remote)
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, ".git")

	switch {
	case strings.HasPrefix(u, "https://"), strings.HasPrefix(u, "http://"):
		return u, nil
	case strings.HasPrefix(u, "ssh://"):
		rest := strings.TrimPrefix(u, "ssh://")
		if at := strings.Index(rest, "@"); at >= 0 {
			rest = rest[at+1:]
		}
		host, path, ok := strings.Cut(rest, "/")
		if !ok {
			break
		}
		if colon := strings.Index(host, ":"); colon >= 0 {
			host = host[:colon]
		}
		return "https://" + host + "/" + path, nil
	case strings.Contains(u, "@") && strings.Contains(u, ":"):
		rest := u[strings.Index(u, "@")+1:]
		host, path, _ := strings.Cut(rest, ":")
		return "https://" + host + "/" + path, nil
	}
	return "", fmt.Errorf("cannot derive a web URL from remote %q", remote)
}
