package ops

import (
	gocontext "context"
	"fmt"
	"regexp"
	"strings"
)

// route binds one command pattern to a registry operation. Named capture
// groups become arguments; defaults and typing come from the operation's
// declared parameters.
type route struct {
	re      *regexp.Regexp
	op      string
	example string
}

// Router is the text-command tier: an ordered list of (pattern, operation)
// entries, case-insensitive, first match wins.
type Router struct {
	registry *Registry
	routes   []route
}

// NewRouter creates a router over the registry with the standard command
// table. Order matters: more specific shapes come before looser ones.
func NewRouter(registry *Registry) *Router {
	r := &Router{registry: registry}
	for _, entry := range []struct {
		pattern string
		op      string
		example string
	}{
		{`hunt_regression\s+(?P<days_ago>\d+)\s+(?P<pattern>.+)`, "hunt_regression", `hunt_regression 7 "welcome to consoleland"`},
		{`analyze_logs\s+(?P<pattern>\S+)(?:\s+(?P<since_hours>\d+))?`, "analyze_logs", `analyze_logs error 24`},
		{`check_commit\s+(?P<hash>[0-9a-fA-F]{4,40})\s+(?P<test_pattern>.+)`, "check_commit", `check_commit abc1234 "welcome to consoleland"`},
		{`list_commits\s+(?P<days_ago>\d+)`, "list_commits", `list_commits 5`},
		{`verify_feature\s+(?P<feature_name>\S+)(?:\s+(?P<commit>\S+))?`, "verify_feature", `verify_feature startup_banner`},
		{`commit_changes\s+(?P<message>.+)`, "commit_changes", `commit_changes "fix: restore banner"`},
		{`auto_commit`, "auto_commit", `auto_commit`},
		{`release_commit(?:\s+(?P<message>.+))?`, "release_commit", `release_commit "v1.3 prep"`},
		{`release_dry_run`, "release_dry_run", `release_dry_run`},
		{`release_status`, "release_status", `release_status`},
		{`hunt_history(?:\s+(?P<limit>\d+))?`, "hunt_history", `hunt_history 5`},
		{`explore_commit\s+(?P<offset>\d+)`, "explore_commit", `explore_commit 100`},
		{`restore_original`, "restore_original", `restore_original`},
		{`create_branch\s+(?P<description>.+)`, "create_branch", `create_branch "missing banner"`},
		{`list_branches`, "list_branches", `list_branches`},
		{`cleanup_branches(?:\s+(?P<force>force))?`, "cleanup_branches", `cleanup_branches force`},
	} {
		r.routes = append(r.routes, route{
			re:      regexp.MustCompile(`(?i)^` + entry.pattern + `$`),
			op:      entry.op,
			example: entry.example,
		})
	}
	return r
}

// Parse matches the command text against the route table and dispatches
// through the named-parameter tier. No pattern matching yields a
// structured unknown-command result enumerating example shapes; a fault
// inside routing is converted to a failure identifying the raw text.
func (r *Router) Parse(ctx gocontext.Context, text string) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = Result{
				Success: false,
				Error:   fmt.Sprintf("command %q: %v", text, rec),
			}
		}
	}()

	trimmed := strings.TrimSpace(text)
	for _, rt := range r.routes {
		match := rt.re.FindStringSubmatch(trimmed)
		if match == nil {
			continue
		}

		args := make(Args)
		for i, name := range rt.re.SubexpNames() {
			if name == "" || match[i] == "" {
				continue
			}
			args[name] = unquote(match[i])
		}
		return r.registry.Invoke(ctx, rt.op, args)
	}

	return Result{
		Success:  false,
		Error:    fmt.Sprintf("unknown command: %q", trimmed),
		Examples: r.Examples(),
	}
}

// Examples returns one sample invocation per route, in table order.
func (r *Router) Examples() []string {
	examples := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		examples = append(examples, rt.example)
	}
	return examples
}

// unquote strips one level of surrounding quotes from a captured value.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
