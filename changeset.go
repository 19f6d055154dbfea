package codefacts

import (
	"bytes"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// Changeset is the set of absolute file paths modified between the base
// revision and HEAD. Computed once per run, read-only afterwards; it is only
// ever used as a membership predicate for the delta partition.
type Changeset map[string]bool

// ResolveChangeset asks git for a name-only diff of baseSHA..HEAD in the
// repository containing root. Git is an opaque external collaborator here:
// if it is missing, root is not inside a work tree, or the revision is
// invalid, the changeset degrades to empty — delta output becomes empty and
// full extraction is unaffected. This never aborts the run.
func ResolveChangeset(root, baseSHA string, logger *slog.Logger) Changeset {
	if logger == nil {
		logger = slog.Default()
	}
	changed := make(Changeset)

	topOut, err := gitOutput(root, "rev-parse", "--show-toplevel")
	if err != nil {
		logger.Debug("changeset unavailable: not a git work tree",
			slog.String("root", root), slog.String("error", err.Error()))
		return changed
	}
	repoRoot := strings.TrimSpace(topOut)

	diffOut, err := gitOutput(root, "diff", "--name-only", baseSHA, "HEAD")
	if err != nil {
		logger.Debug("changeset unavailable: diff failed",
			slog.String("base", baseSHA), slog.String("error", err.Error()))
		return changed
	}

	for _, line := range strings.Split(diffOut, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// git reports paths relative to the repository root.
		changed[filepath.Join(repoRoot, filepath.FromSlash(line))] = true
	}
	return changed
}

// gitOutput runs a git subcommand in dir and returns its stdout.
func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return stdout.String(), nil
}
