package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestCLIBinaryIntegration(t *testing.T) {
	// 1. Build the CLI binary.
	tmpBuildDir := t.TempDir()

	// The built binary will be written to "bop" in tmpBuildDir.
	binPath := filepath.Join(tmpBuildDir, "bop")
	// The main package is the module root, two levels up from cmd/integration.
	buildCmd := exec.Command("go", "build", "-o", binPath, "../..")
	buildOutput, err := buildCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build CLI binary: %v; build output: %s", err, string(buildOutput))
	}

	// 2. Set up a temporary git repository for testing.
	tmpRepo := t.TempDir()

	configCmds := [][]string{
		{"git", "init"},
		{"git", "config", "user.email", "test@example.com"},
		{"git", "config", "user.name", "Test User"},
		{"git", "config", "commit.gpgsign", "false"},
		{"git", "config", "tag.gpgsign", "false"},
		{"git", "remote", "add", "origin", "https://github.com/owner/player.git"},
	}
	for _, args := range configCmds {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = tmpRepo
		if output, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("%v failed: %v; output: %s", args, err, string(output))
		}
	}

	// 3. Create the version header, changelog and settings file.
	if err := os.MkdirAll(filepath.Join(tmpRepo, "include"), 0755); err != nil {
		t.Fatalf("failed to create include directory: %v", err)
	}
	headerPath := filepath.Join(tmpRepo, "include", "player.h")
	header := "#define PLAYER_VERSION \"0.0.0\"\n"
	if err := os.WriteFile(headerPath, []byte(header), 0644); err != nil {
		t.Fatalf("failed to write version file: %v", err)
	}
	changelog := "# Changelog\n\n## [Next]\n\n[Compare v0.0.0...main](https://github.com/owner/player/compare/v0.0.0...main)\n\n" +
		"- First feature.\n\n## [v0.0.0]\n\n- Scaffold.\n\n[Next]: https://github.com/owner/player/tree/main\n"
	changelogPath := filepath.Join(tmpRepo, "CHANGELOG.md")
	if err := os.WriteFile(changelogPath, []byte(changelog), 0644); err != nil {
		t.Fatalf("failed to write changelog: %v", err)
	}
	settings := "version_file: include/player.h\nsign_tag: false\ncommit_message: \"Release {version}\"\n"
	if err := os.WriteFile(filepath.Join(tmpRepo, ".bop.yaml"), []byte(settings), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	// 4. Stage and commit the initial files.
	for _, args := range [][]string{{"add", "."}, {"commit", "-m", "initial commit"}} {
		cmd := exec.Command("git", args...)
		cmd.Dir = tmpRepo
		if output, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v; output: %s", args, err, string(output))
		}
	}

	// 5. Run the CLI binary.
	cliCmd := exec.Command(binPath, "--config", filepath.Join(tmpRepo, ".bop.yaml"), "minor")
	cliCmd.Dir = tmpRepo
	var cliStdout, cliStderr bytes.Buffer
	cliCmd.Stdout = &cliStdout
	cliCmd.Stderr = &cliStderr
	if err := cliCmd.Run(); err != nil {
		t.Fatalf("CLI command failed: %v; stdout: %s; stderr: %s", err, cliStdout.String(), cliStderr.String())
	}

	// 6. Verify the version header and changelog.
	updatedHeader, err := os.ReadFile(headerPath)
	if err != nil {
		t.Fatalf("failed to read version file: %v", err)
	}
	if !strings.Contains(string(updatedHeader), `PLAYER_VERSION "0.1.0"`) {
		t.Errorf("version file not updated; got:\n%s", string(updatedHeader))
	}

	updatedChangelog, err := os.ReadFile(changelogPath)
	if err != nil {
		t.Fatalf("failed to read changelog: %v", err)
	}
	if strings.Contains(string(updatedChangelog), "## [v0.0.0]") {
		t.Errorf("placeholder section was not removed:\n%s", updatedChangelog)
	}
	if !strings.Contains(string(updatedChangelog), "[v0.1.0]: https://github.com/owner/player/tree/v0.1.0") {
		t.Errorf("version link missing:\n%s", updatedChangelog)
	}

	// 7. Verify the commit message and that a git tag "v0.1.0" was created.
	logCmd := exec.Command("git", "log", "-1", "--format=%s")
	logCmd.Dir = tmpRepo
	logOutput, err := logCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git log failed: %v; output: %s", err, string(logOutput))
	}
	if strings.TrimSpace(string(logOutput)) != "Release 0.1.0" {
		t.Errorf("unexpected commit message %q", strings.TrimSpace(string(logOutput)))
	}

	gitTagCmd := exec.Command("git", "tag")
	gitTagCmd.Dir = tmpRepo
	tagOutput, err := gitTagCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git tag command failed: %v; output: %s", err, string(tagOutput))
	}
	tags := strings.Split(strings.TrimSpace(string(tagOutput)), "\n")
	if !slices.Contains(tags, "v0.1.0") {
		t.Errorf("expected git tag %q not found; got tags: %v", "v0.1.0", tags)
	}
}
