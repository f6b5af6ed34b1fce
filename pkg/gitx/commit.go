package gitx

import (
	gocontext "context"
	"fmt"
	"strings"
)

// StatusEntry is one line of porcelain status output.
type StatusEntry struct {
	Code string `json:"code"`
	Path string `json:"path"`
}

// Status returns the working tree status in porcelain form.
func (r *Repository) Status(ctx gocontext.Context) ([]StatusEntry, error) {
	out, err := r.exec.Run(ctx, r.dir, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	if out == "" {
		return []StatusEntry{}, nil
	}

	var entries []StatusEntry
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		entries = append(entries, StatusEntry{
			Code: strings.TrimSpace(line[:2]),
			Path: strings.TrimSpace(line[3:]),
		})
	}
	return entries, nil
}

// HasChanges reports whether the working tree has uncommitted changes.
func (r *Repository) HasChanges(ctx gocontext.Context) (bool, error) {
	entries, err := r.Status(ctx)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// StageAll stages every change in the working tree.
func (r *Repository) StageAll(ctx gocontext.Context) error {
	if _, err := r.exec.Run(ctx, r.dir, "add", "-A"); err != nil {
		return fmt.Errorf("stage all: %w", err)
	}
	return nil
}

// CommitStaged commits the staged changes and returns the new HEAD hash.
func (r *Repository) CommitStaged(ctx gocontext.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("commit: empty message")
	}
	if _, err := r.exec.Run(ctx, r.dir, "commit", "-m", message); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return r.Head(ctx)
}

// LatestTag returns the most recent tag reachable from HEAD, or "" when
// the repository has no tags.
func (r *Repository) LatestTag(ctx gocontext.Context) (string, error) {
	out, err := r.exec.Run(ctx, r.dir, "describe", "--tags", "--abbrev=0")
	if err != nil {
		// No tags is a normal state for young repositories.
		if ge, ok := err.(*GitError); ok && strings.Contains(ge.Stderr, "No names found") {
			return "", nil
		}
		if ge, ok := err.(*GitError); ok && strings.Contains(ge.Stderr, "cannot describe") {
			return "", nil
		}
		return "", fmt.Errorf("latest tag: %w", err)
	}
	return out, nil
}
