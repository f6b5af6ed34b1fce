package condition

import (
	"bufio"
	gocontext "context"
	"fmt"
	"os"
	"regexp"
)

// LogPattern passes when a log file contains a line matching the pattern.
// Matching is case-insensitive.
type LogPattern struct {
	Path    string
	Pattern string

	re *regexp.Regexp
}

// NewLogPattern compiles a case-insensitive log pattern condition.
func NewLogPattern(path, pattern string) (*LogPattern, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("log pattern %q: %w", pattern, err)
	}
	return &LogPattern{Path: path, Pattern: pattern, re: re}, nil
}

// Describe implements Condition.
func (l *LogPattern) Describe() string {
	return fmt.Sprintf("log %s contains %q", l.Path, l.Pattern)
}

// Evaluate implements Condition. A missing log file counts as a fail, not
// an error: at old commits the application may not write the log at all,
// and that absence is exactly the signal being hunted.
func (l *LogPattern) Evaluate(ctx gocontext.Context) (bool, string, error) {
	matches, err := l.Matches(ctx, 1)
	if err != nil {
		return false, "", err
	}
	if len(matches) == 0 {
		return false, fmt.Sprintf("pattern %q not found", l.Pattern), nil
	}
	return true, matches[0], nil
}

// Matches scans the log and returns up to limit matching lines. A limit
// of 0 means unlimited.
func (l *LogPattern) Matches(ctx gocontext.Context, limit int) ([]string, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log %s: %w", l.Path, err)
	}
	defer f.Close()

	var matches []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return matches, ctx.Err()
		default:
		}
		line := scanner.Text()
		if l.re.MatchString(line) {
			matches = append(matches, line)
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return matches, fmt.Errorf("scan log %s: %w", l.Path, err)
	}
	return matches, nil
}
