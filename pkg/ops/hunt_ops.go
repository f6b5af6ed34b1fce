package ops

import (
	gocontext "context"
	"errors"
	"fmt"

	"github.com/cgast/bughunt/pkg/condition"
	"github.com/cgast/bughunt/pkg/hunt"
)

// huntRegressionOp bisects a commit window for a log-pattern transition.
type huntRegressionOp struct{ tk *Toolkit }

func (o *huntRegressionOp) Name() string { return "hunt_regression" }
func (o *huntRegressionOp) Description() string {
	return "Binary-search a commit window for the commit where a log pattern flips"
}

func (o *huntRegressionOp) Params() []Param {
	return []Param{
		{Name: "days_ago", Type: ParamInt, Required: true, Description: "How many days back to search"},
		{Name: "pattern", Type: ParamString, Required: true, Description: "Log pattern to test at each commit"},
	}
}

func (o *huntRegressionOp) Execute(ctx gocontext.Context, args Args) (map[string]any, error) {
	days, err := args.Int("days_ago")
	if err != nil {
		return nil, err
	}
	pattern, err := args.String("pattern")
	if err != nil {
		return nil, err
	}

	cond, err := condition.NewLogPattern(o.tk.LogPath, pattern)
	if err != nil {
		return nil, err
	}

	report, huntErr := o.tk.Engine.FindRegression(ctx, days, cond)
	data := reportData(report)
	if huntErr != nil {
		// The partial report still matters for diagnosis; attach it to a
		// typed failure instead of dropping it.
		switch {
		case errors.Is(huntErr, hunt.ErrNoTransition):
			data["no_transition"] = true
			return data, nil
		case errors.Is(huntErr, hunt.ErrEmptyWindow):
			data["empty_window"] = true
			return data, nil
		default:
			return nil, fmt.Errorf("hunt aborted after %d cycles: %w", report.Steps, huntErr)
		}
	}
	return data, nil
}

// reportData flattens a hunt report for the result payload.
func reportData(report *hunt.Report) map[string]any {
	data := map[string]any{
		"condition":     report.Condition,
		"searched_days": report.SearchedDays,
		"expanded":      report.Expanded,
		"window_size":   report.WindowSize,
		"steps":         report.Steps,
		"transition":    report.Transition,
		"history":       report.History,
	}
	if report.Boundary != nil {
		data["boundary"] = *report.Boundary
	}
	if report.LastPassing != nil {
		data["last_passing"] = *report.LastPassing
	}
	if report.Uniform != nil {
		data["uniform_passed"] = *report.Uniform
	}
	return data
}

// analyzeLogsOp counts pattern matches in the configured log.
type analyzeLogsOp struct{ tk *Toolkit }

func (o *analyzeLogsOp) Name() string        { return "analyze_logs" }
func (o *analyzeLogsOp) Description() string { return "Report matches of a pattern in the log" }

func (o *analyzeLogsOp) Params() []Param {
	return []Param{
		{Name: "pattern", Type: ParamString, Required: true, Description: "Pattern to search for"},
		{Name: "since_hours", Type: ParamInt, Default: 24, Description: "Reporting window in hours"},
	}
}

func (o *analyzeLogsOp) Execute(ctx gocontext.Context, args Args) (map[string]any, error) {
	pattern, err := args.String("pattern")
	if err != nil {
		return nil, err
	}
	hours, err := args.Int("since_hours")
	if err != nil {
		return nil, err
	}

	cond, err := condition.NewLogPattern(o.tk.LogPath, pattern)
	if err != nil {
		return nil, err
	}
	matches, err := cond.Matches(ctx, 0)
	if err != nil {
		return nil, err
	}

	sample := matches
	if len(sample) > 10 {
		sample = sample[:10]
	}
	return map[string]any{
		"log_path":     o.tk.LogPath,
		"pattern":      pattern,
		"window_hours": hours,
		"matches":      len(matches),
		"sample":       sample,
	}, nil
}

// checkCommitOp verifies a single commit against a log pattern.
type checkCommitOp struct{ tk *Toolkit }

func (o *checkCommitOp) Name() string { return "check_commit" }
func (o *checkCommitOp) Description() string {
	return "Checkout one commit, test a log pattern, and restore"
}

func (o *checkCommitOp) Params() []Param {
	return []Param{
		{Name: "hash", Type: ParamString, Required: true, Description: "Commit hash to verify"},
		{Name: "test_pattern", Type: ParamString, Required: true, Description: "Log pattern to test"},
	}
}

func (o *checkCommitOp) Execute(ctx gocontext.Context, args Args) (map[string]any, error) {
	hash, err := args.String("hash")
	if err != nil {
		return nil, err
	}
	pattern, err := args.String("test_pattern")
	if err != nil {
		return nil, err
	}

	cond, err := condition.NewLogPattern(o.tk.LogPath, pattern)
	if err != nil {
		return nil, err
	}
	outcome, err := o.tk.Engine.CheckCommit(ctx, hash, cond)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"commit": outcome.Commit,
		"passed": outcome.Passed,
		"detail": outcome.Detail,
	}, nil
}

// verifyFeatureOp evaluates a named feature probe, optionally at a commit.
type verifyFeatureOp struct{ tk *Toolkit }

func (o *verifyFeatureOp) Name() string        { return "verify_feature" }
func (o *verifyFeatureOp) Description() string { return "Check a named feature probe" }

func (o *verifyFeatureOp) Params() []Param {
	return []Param{
		{Name: "feature_name", Type: ParamString, Required: true, Description: "Registered probe name"},
		{Name: "commit", Type: ParamString, Description: "Verify at this commit instead of the current tree"},
	}
}

func (o *verifyFeatureOp) Execute(ctx gocontext.Context, args Args) (map[string]any, error) {
	name, err := args.String("feature_name")
	if err != nil {
		return nil, err
	}
	cond := condition.NewFeatureCheck(name)

	if hash, err := args.String("commit"); err == nil && hash != "" {
		outcome, err := o.tk.Engine.CheckCommit(ctx, hash, cond)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"feature": name,
			"commit":  outcome.Commit,
			"passed":  outcome.Passed,
			"detail":  outcome.Detail,
		}, nil
	}

	passed, detail, err := cond.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"feature": name,
		"passed":  passed,
		"detail":  detail,
	}, nil
}

// huntHistoryOp lists recent persisted hunt reports.
type huntHistoryOp struct{ tk *Toolkit }

func (o *huntHistoryOp) Name() string        { return "hunt_history" }
func (o *huntHistoryOp) Description() string { return "List recent hunt reports" }

func (o *huntHistoryOp) Params() []Param {
	return []Param{
		{Name: "limit", Type: ParamInt, Default: 10, Description: "Maximum reports to return"},
	}
}

func (o *huntHistoryOp) Execute(_ gocontext.Context, args Args) (map[string]any, error) {
	limit, err := args.Int("limit")
	if err != nil {
		return nil, err
	}
	reports, err := o.tk.Recorder.Recent(limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]map[string]any, 0, len(reports))
	for _, report := range reports {
		summary := map[string]any{
			"condition":     report.Condition,
			"finished_at":   report.FinishedAt,
			"searched_days": report.SearchedDays,
			"transition":    report.Transition,
			"steps":         report.Steps,
		}
		if report.Boundary != nil {
			summary["boundary"] = report.Boundary.Short()
		}
		summaries = append(summaries, summary)
	}
	return map[string]any{"reports": summaries, "count": len(summaries)}, nil
}
