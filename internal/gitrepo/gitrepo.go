// Package gitrepo auto-commits workspace changes when the workspace lives
// inside a Git repository. Git is optional: everything works without it, and
// every function here degrades to a no-op outside a repo.
package gitrepo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// AutoCommitEnabled controls whether workspace mutations are committed
// automatically. Opt-in: set CALLSHEET_AUTOCOMMIT=1.
func AutoCommitEnabled() bool {
	return boolEnvDefault("CALLSHEET_AUTOCOMMIT", false)
}

func boolEnvDefault(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	switch strings.ToLower(v) {
	case "y", "yes", "on":
		return true
	case "n", "no", "off":
		return false
	default:
		return def
	}
}

// RepoRoot returns the repository root containing dir, if any. It invokes the
// git binary; a missing binary reads as "not a repo".
func RepoRoot(ctx context.Context, dir string) (string, bool) {
	out, err := runGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", false
	}
	root := strings.TrimSpace(out)
	return root, root != ""
}

// CommitWorkspace stages the workspace state files and commits them. Returns
// committed=false when the workspace is not in a repo or nothing changed.
func CommitWorkspace(ctx context.Context, workspaceDir, message string) (committed bool, err error) {
	workspaceDir = filepath.Clean(workspaceDir)

	root, ok := RepoRoot(ctx, workspaceDir)
	if !ok {
		return false, nil
	}

	// Temp dirs may involve symlinks (macOS /var -> /private/var); git reports
	// a canonicalized root, so normalize both sides before Rel().
	if v, err := filepath.EvalSymlinks(workspaceDir); err == nil {
		workspaceDir = v
	}
	if v, err := filepath.EvalSymlinks(root); err == nil {
		root = v
	}
	rel, err := filepath.Rel(root, workspaceDir)
	if err != nil {
		return false, err
	}

	var targets []string
	for _, name := range []string{"index.sqlite", "blueprint.yaml", "events"} {
		if _, err := os.Stat(filepath.Join(workspaceDir, name)); err == nil {
			targets = append(targets, filepath.Join(rel, name))
		}
	}
	if len(targets) == 0 {
		return false, nil
	}

	if _, err := runGit(ctx, root, append([]string{"add", "--"}, targets...)...); err != nil {
		return false, err
	}
	out, err := runGit(ctx, root, "diff", "--cached", "--name-only")
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(out) == "" {
		return false, nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = fmt.Sprintf("callsheet: update (%s)", time.Now().UTC().Format(time.RFC3339))
	}
	if _, err := runGit(ctx, root, "commit", "-m", msg); err != nil {
		return false, err
	}
	return true, nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return string(out), nil
}
