package gitx

import (
	gocontext "context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// logFormat emits hash, unix timestamp and subject, tab-separated.
const logFormat = "--format=%H%x09%ct%x09%s"

// CommitsInWindow enumerates commits from daysAgo days back until now,
// newest first, each assigned a dense 0-based index. An empty window
// yields an empty slice, not an error. A window larger than the history
// saturates at the oldest commit.
func (r *Repository) CommitsInWindow(ctx gocontext.Context, daysAgo int) ([]Commit, error) {
	if daysAgo < 0 {
		return nil, fmt.Errorf("commits in window: negative days_ago %d", daysAgo)
	}

	since := time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
	out, err := r.exec.Run(ctx, r.dir, "log", "--since="+since, logFormat)
	if err != nil {
		return nil, fmt.Errorf("commits in window: %w", err)
	}
	return parseCommits(out)
}

// CommitByOffset resolves the commit N positions behind HEAD. Offset 0 is
// HEAD itself.
func (r *Repository) CommitByOffset(ctx gocontext.Context, offset int) (Commit, error) {
	if offset < 0 {
		return Commit{}, fmt.Errorf("commit by offset: negative offset %d", offset)
	}
	out, err := r.exec.Run(ctx, r.dir, "log", "-1", logFormat, fmt.Sprintf("HEAD~%d", offset))
	if err != nil {
		return Commit{}, fmt.Errorf("commit by offset %d: %w", offset, err)
	}
	commits, err := parseCommits(out)
	if err != nil {
		return Commit{}, err
	}
	if len(commits) == 0 {
		return Commit{}, fmt.Errorf("commit by offset %d: no commit found", offset)
	}
	c := commits[0]
	c.Index = offset
	return c, nil
}

// CommitByHash resolves a single commit by (possibly abbreviated) hash.
func (r *Repository) CommitByHash(ctx gocontext.Context, hash string) (Commit, error) {
	out, err := r.exec.Run(ctx, r.dir, "log", "-1", logFormat, hash)
	if err != nil {
		return Commit{}, fmt.Errorf("commit %s: %w", shortHash(hash), err)
	}
	commits, err := parseCommits(out)
	if err != nil {
		return Commit{}, err
	}
	if len(commits) == 0 {
		return Commit{}, fmt.Errorf("commit %s: not found", shortHash(hash))
	}
	return commits[0], nil
}

// parseCommits turns git log output into an indexed commit sequence.
func parseCommits(out string) ([]Commit, error) {
	if out == "" {
		return []Commit{}, nil
	}

	lines := strings.Split(out, "\n")
	commits := make([]Commit, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("parse commits: malformed line %q", line)
		}
		unix, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse commits: bad timestamp in %q: %w", line, err)
		}
		c := Commit{
			Hash:      parts[0],
			Index:     len(commits),
			Timestamp: time.Unix(unix, 0),
		}
		if len(parts) == 3 {
			c.Subject = parts[2]
		}
		commits = append(commits, c)
	}
	return commits, nil
}
