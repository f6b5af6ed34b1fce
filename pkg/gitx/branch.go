package gitx

import (
	gocontext "context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// HuntBranchPrefix namespaces branches created for bug hunts.
const HuntBranchPrefix = "bughunt/"

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// HuntBranchName derives a branch name from a free-text description,
// e.g. "bughunt/20260825-missing-startup-banner".
func HuntBranchName(description string, now time.Time) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(description), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "hunt"
	}
	if len(slug) > 40 {
		slug = strings.Trim(slug[:40], "-")
	}
	return fmt.Sprintf("%s%s-%s", HuntBranchPrefix, now.Format("20060102"), slug)
}

// CreateHuntBranch creates and checks out a new hunt branch.
func (r *Repository) CreateHuntBranch(ctx gocontext.Context, description string) (string, error) {
	name := HuntBranchName(description, time.Now())
	if _, err := r.exec.Run(ctx, r.dir, "checkout", "-b", name); err != nil {
		return "", fmt.Errorf("create hunt branch: %w", err)
	}
	return name, nil
}

// ListHuntBranches returns all hunt branches in the repository.
func (r *Repository) ListHuntBranches(ctx gocontext.Context) ([]string, error) {
	out, err := r.exec.Run(ctx, r.dir, "branch", "--list", HuntBranchPrefix+"*", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("list hunt branches: %w", err)
	}
	if out == "" {
		return []string{}, nil
	}
	return strings.Split(out, "\n"), nil
}

// CleanupHuntBranches deletes hunt branches. The current branch is always
// skipped. With force, unmerged branches are deleted too.
func (r *Repository) CleanupHuntBranches(ctx gocontext.Context, force bool) ([]string, error) {
	branches, err := r.ListHuntBranches(ctx)
	if err != nil {
		return nil, err
	}
	current, err := r.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("cleanup hunt branches: %w", err)
	}

	flag := "-d"
	if force {
		flag = "-D"
	}

	var deleted []string
	for _, branch := range branches {
		if branch == current {
			continue
		}
		if _, err := r.exec.Run(ctx, r.dir, "branch", flag, branch); err != nil {
			r.log.Warn().Err(err).Str("branch", branch).Msg("could not delete hunt branch")
			continue
		}
		deleted = append(deleted, branch)
	}
	return deleted, nil
}
