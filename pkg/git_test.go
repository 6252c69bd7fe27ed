package bop

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRepositoryWebURL converts common remote forms.
func TestRepositoryWebURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remote, expected string
	}{
		{"https://github.com/owner/repo.git", "https://github.com/owner/repo"},
		{"https://github.com/owner/repo/", "https://github.com/owner/repo"},
		{"git@github.com:owner/repo.git", "https://github.com/owner/repo"},
		{"ssh://git@gitlab.com:2222/group/repo.git", "https://gitlab.com/group/repo"},
		{"ssh://git@example.org/owner/repo", "https://example.org/owner/repo"},
	}
	for _, tc := range tests {
		got, err := RepositoryWebURL(tc.remote)
		require.NoError(t, err, tc.remote)
		require.Equal(t, tc.expected, got)
	}

	_, err := RepositoryWebURL("/srv/git/repo.git")
	require.Error(t, err)
}

// TestCommandError checks the error chain of a failed git command.
func TestCommandError(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 128")
	err := error(&CommandError{Args: []string{"commit", "-m", "x"}, Stderr: "fatal: nothing\n", Err: cause})

	require.ErrorIs(t, err, ErrExternalProcess)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "git commit -m x failed: exit status 128, detail: fatal: nothing", err.Error())
}

// TestTagArgs checks that tags are signed unless signing is turned off.
func TestTagArgs(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"tag", "-s", "-m", "v1.2.4", "v1.2.4"}, tagArgs("v1.2.4", "v1.2.4", true))
	require.Equal(t, []string{"tag", "-a", "-m", "Release 2.0.0", "v2.0.0"}, tagArgs("v2.0.0", "Release 2.0.0", false))
}

// TestGitOutsideRepository reports failures instead of ignoring them.
func TestGitOutsideRepository(t *testing.T) {
	g := Git{Dir: t.TempDir()}
	if err := g.Available(context.Background()); err != nil {
		t.Skip("git is not installed")
	}

	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(g.Dir))
	require.ErrorIs(t, g.Commit(context.Background(), "nothing"), ErrExternalProcess)
}
