package ops

import (
	gocontext "context"
)

// releaseCommitOp commits with an optional message through the releaser.
type releaseCommitOp struct{ tk *Toolkit }

func (o *releaseCommitOp) Name() string        { return "release_commit" }
func (o *releaseCommitOp) Description() string { return "Commit pending changes for a release" }

func (o *releaseCommitOp) Params() []Param {
	return []Param{
		{Name: "message", Type: ParamString, Description: "Commit message; generated when omitted"},
	}
}

func (o *releaseCommitOp) Execute(ctx gocontext.Context, args Args) (map[string]any, error) {
	message, _ := args.String("message")
	result, err := o.tk.Releaser.Commit(ctx, message)
	if err != nil {
		return nil, err
	}
	return map[string]any{"hash": result.Hash, "message": result.Message, "files": result.Files}, nil
}

// releaseDryRunOp previews a release commit.
type releaseDryRunOp struct{ tk *Toolkit }

func (o *releaseDryRunOp) Name() string        { return "release_dry_run" }
func (o *releaseDryRunOp) Description() string { return "Preview what a release commit would do" }

func (o *releaseDryRunOp) Params() []Param { return nil }

func (o *releaseDryRunOp) Execute(ctx gocontext.Context, _ Args) (map[string]any, error) {
	result, err := o.tk.Releaser.DryRun(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"would_commit": result.WouldCommit,
		"message":      result.Message,
		"files":        result.Files,
	}, nil
}

// releaseStatusOp summarizes the release state.
type releaseStatusOp struct{ tk *Toolkit }

func (o *releaseStatusOp) Name() string        { return "release_status" }
func (o *releaseStatusOp) Description() string { return "Show branch, pending changes, tags and latest release" }

func (o *releaseStatusOp) Params() []Param { return nil }

func (o *releaseStatusOp) Execute(ctx gocontext.Context, _ Args) (map[string]any, error) {
	result, err := o.tk.Releaser.Status(ctx)
	if err != nil {
		return nil, err
	}
	data := map[string]any{
		"branch":        result.Branch,
		"head":          result.Head,
		"clean":         result.Clean,
		"pending_files": result.PendingFiles,
	}
	if result.LatestTag != "" {
		data["latest_tag"] = result.LatestTag
	}
	if result.LatestRelease != nil {
		data["latest_release"] = *result.LatestRelease
	}
	return data, nil
}
