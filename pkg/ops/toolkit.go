package ops

import (
	gocontext "context"

	"github.com/rs/zerolog"

	"github.com/cgast/bughunt/pkg/gitx"
	"github.com/cgast/bughunt/pkg/hunt"
	"github.com/cgast/bughunt/pkg/release"
)

// GitRepo is the slice of the git layer the builtin operations drive
// directly (outside of a hunt).
type GitRepo interface {
	CommitsInWindow(ctx gocontext.Context, daysAgo int) ([]gitx.Commit, error)
	CommitByOffset(ctx gocontext.Context, offset int) (gitx.Commit, error)
	Acquire(ctx gocontext.Context) (*gitx.Cursor, error)
	Checkout(ctx gocontext.Context, hash string) error
	Release(ctx gocontext.Context) error
	CreateHuntBranch(ctx gocontext.Context, description string) (string, error)
	ListHuntBranches(ctx gocontext.Context) ([]string, error)
	CleanupHuntBranches(ctx gocontext.Context, force bool) ([]string, error)
}

// ReleaseOps is the slice of the release layer the operations consume.
type ReleaseOps interface {
	Commit(ctx gocontext.Context, message string) (release.CommitResult, error)
	DryRun(ctx gocontext.Context) (release.DryRunResult, error)
	Status(ctx gocontext.Context) (release.StatusResult, error)
}

// Toolkit bundles the components the builtin operation set is built over.
type Toolkit struct {
	Repo     GitRepo
	Engine   *hunt.Engine
	Releaser ReleaseOps
	Recorder hunt.Recorder

	// LogPath is the log file pattern conditions read.
	LogPath string

	Log zerolog.Logger
}

// RegisterBuiltin fills the registry with the standard operation set.
func RegisterBuiltin(registry *Registry, tk *Toolkit) error {
	operations := []Operation{
		&huntRegressionOp{tk},
		&analyzeLogsOp{tk},
		&checkCommitOp{tk},
		&verifyFeatureOp{tk},
		&huntHistoryOp{tk},
		&listCommitsOp{tk},
		&exploreCommitOp{tk},
		&restoreOriginalOp{tk},
		&commitChangesOp{tk},
		&autoCommitOp{tk},
		&createBranchOp{tk},
		&listBranchesOp{tk},
		&cleanupBranchesOp{tk},
		&releaseCommitOp{tk},
		&releaseDryRunOp{tk},
		&releaseStatusOp{tk},
	}
	for _, op := range operations {
		if err := registry.Register(op); err != nil {
			return err
		}
	}
	return nil
}
