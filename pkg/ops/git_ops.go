package ops

import (
	gocontext "context"
	"fmt"
	"time"
)

// listCommitsOp enumerates the commits inside a time window.
type listCommitsOp struct{ tk *Toolkit }

func (o *listCommitsOp) Name() string        { return "list_commits" }
func (o *listCommitsOp) Description() string { return "List commits within the last N days" }

func (o *listCommitsOp) Params() []Param {
	return []Param{
		{Name: "days_ago", Type: ParamInt, Required: true, Description: "How many days back to enumerate"},
	}
}

func (o *listCommitsOp) Execute(ctx gocontext.Context, args Args) (map[string]any, error) {
	days, err := args.Int("days_ago")
	if err != nil {
		return nil, err
	}
	commits, err := o.tk.Repo.CommitsInWindow(ctx, days)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"days_ago": days,
		"count":    len(commits),
		"commits":  commits,
	}, nil
}

// exploreCommitOp checks out a commit N positions behind HEAD and leaves
// the tree there for manual inspection. The acquired cursor blocks hunts
// until restore_original runs.
type exploreCommitOp struct{ tk *Toolkit }

func (o *exploreCommitOp) Name() string { return "explore_commit" }
func (o *exploreCommitOp) Description() string {
	return "Checkout a commit by offset for manual exploration"
}

func (o *exploreCommitOp) Params() []Param {
	return []Param{
		{Name: "offset", Type: ParamInt, Required: true, Description: "Commits behind HEAD"},
	}
}

func (o *exploreCommitOp) Execute(ctx gocontext.Context, args Args) (map[string]any, error) {
	offset, err := args.Int("offset")
	if err != nil {
		return nil, err
	}

	commit, err := o.tk.Repo.CommitByOffset(ctx, offset)
	if err != nil {
		return nil, err
	}

	cur, err := o.tk.Repo.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if err := o.tk.Repo.Checkout(ctx, commit.Hash); err != nil {
		// Exploration failed: do not hold the tree hostage.
		if relErr := o.tk.Repo.Release(ctx); relErr != nil {
			o.tk.Log.Error().Err(relErr).Msg("restore after failed exploration")
		}
		return nil, err
	}

	age := ""
	if !commit.Timestamp.IsZero() {
		age = time.Since(commit.Timestamp).Round(time.Hour).String()
	}
	return map[string]any{
		"commit":       commit,
		"age":          age,
		"original_ref": cur.Ref,
		"note":         fmt.Sprintf("working tree now at %s; run restore_original to return to %s", commit.Short(), cur.Ref),
	}, nil
}

// restoreOriginalOp returns the tree to the reference captured by the
// last exploration.
type restoreOriginalOp struct{ tk *Toolkit }

func (o *restoreOriginalOp) Name() string        { return "restore_original" }
func (o *restoreOriginalOp) Description() string { return "Restore the working tree after exploration" }

func (o *restoreOriginalOp) Params() []Param { return nil }

func (o *restoreOriginalOp) Execute(ctx gocontext.Context, _ Args) (map[string]any, error) {
	if err := o.tk.Repo.Release(ctx); err != nil {
		return nil, err
	}
	return map[string]any{"restored": true}, nil
}

// commitChangesOp commits everything with a caller-supplied message.
type commitChangesOp struct{ tk *Toolkit }

func (o *commitChangesOp) Name() string        { return "commit_changes" }
func (o *commitChangesOp) Description() string { return "Stage and commit all changes with a message" }

func (o *commitChangesOp) Params() []Param {
	return []Param{
		{Name: "message", Type: ParamString, Required: true, Description: "Commit message"},
	}
}

func (o *commitChangesOp) Execute(ctx gocontext.Context, args Args) (map[string]any, error) {
	message, err := args.String("message")
	if err != nil {
		return nil, err
	}
	result, err := o.tk.Releaser.Commit(ctx, message)
	if err != nil {
		return nil, err
	}
	return map[string]any{"hash": result.Hash, "message": result.Message, "files": result.Files}, nil
}

// autoCommitOp commits everything with a generated message.
type autoCommitOp struct{ tk *Toolkit }

func (o *autoCommitOp) Name() string        { return "auto_commit" }
func (o *autoCommitOp) Description() string { return "Stage and commit all changes with a generated message" }

func (o *autoCommitOp) Params() []Param { return nil }

func (o *autoCommitOp) Execute(ctx gocontext.Context, _ Args) (map[string]any, error) {
	result, err := o.tk.Releaser.Commit(ctx, "")
	if err != nil {
		return nil, err
	}
	return map[string]any{"hash": result.Hash, "message": result.Message, "files": result.Files}, nil
}

// createBranchOp starts a new hunt branch.
type createBranchOp struct{ tk *Toolkit }

func (o *createBranchOp) Name() string        { return "create_branch" }
func (o *createBranchOp) Description() string { return "Create and checkout a bughunt branch" }

func (o *createBranchOp) Params() []Param {
	return []Param{
		{Name: "description", Type: ParamString, Required: true, Description: "What is being hunted"},
	}
}

func (o *createBranchOp) Execute(ctx gocontext.Context, args Args) (map[string]any, error) {
	description, err := args.String("description")
	if err != nil {
		return nil, err
	}
	name, err := o.tk.Repo.CreateHuntBranch(ctx, description)
	if err != nil {
		return nil, err
	}
	return map[string]any{"branch": name}, nil
}

// listBranchesOp lists hunt branches.
type listBranchesOp struct{ tk *Toolkit }

func (o *listBranchesOp) Name() string        { return "list_branches" }
func (o *listBranchesOp) Description() string { return "List bughunt branches" }

func (o *listBranchesOp) Params() []Param { return nil }

func (o *listBranchesOp) Execute(ctx gocontext.Context, _ Args) (map[string]any, error) {
	branches, err := o.tk.Repo.ListHuntBranches(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"branches": branches, "count": len(branches)}, nil
}

// cleanupBranchesOp deletes hunt branches.
type cleanupBranchesOp struct{ tk *Toolkit }

func (o *cleanupBranchesOp) Name() string        { return "cleanup_branches" }
func (o *cleanupBranchesOp) Description() string { return "Delete bughunt branches" }

func (o *cleanupBranchesOp) Params() []Param {
	return []Param{
		{Name: "force", Type: ParamBool, Default: false, Description: "Delete unmerged branches too"},
	}
}

func (o *cleanupBranchesOp) Execute(ctx gocontext.Context, args Args) (map[string]any, error) {
	deleted, err := o.tk.Repo.CleanupHuntBranches(ctx, args.Bool("force"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": deleted, "count": len(deleted)}, nil
}
