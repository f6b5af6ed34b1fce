package gitx

import (
	gocontext "context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Commit is an immutable identity within an enumerated window.
// Index 0 is the most recent commit of the window.
type Commit struct {
	Hash      string    `json:"hash"`
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp,omitzero"`
	Subject   string    `json:"subject,omitempty"`
}

// Short returns the abbreviated hash.
func (c Commit) Short() string { return shortHash(c.Hash) }

// Cursor records where the working tree must return to after a
// checkout/evaluate/restore cycle. Ref is a branch name when the cycle
// started on a branch, otherwise the original commit hash.
type Cursor struct {
	Ref      string
	Hash     string
	OnBranch bool
}

// Repository owns the working tree of a single git checkout. It is the
// safety-critical leaf: after any verification cycle the tree is restored
// to the cursor captured at cycle start, on every exit path.
type Repository struct {
	dir           string
	exec          CommandExecutor
	log           zerolog.Logger
	defaultBranch string

	mu     sync.Mutex
	cursor *Cursor
}

// Option configures a Repository.
type Option func(*Repository)

// WithExecutor replaces the default exec-backed command executor.
func WithExecutor(exec CommandExecutor) Option {
	return func(r *Repository) { r.exec = exec }
}

// WithLogger sets the repository logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Repository) { r.log = log }
}

// WithDefaultBranch sets the branch used to recover from a detached HEAD
// at cycle start. Defaults to "main".
func WithDefaultBranch(branch string) Option {
	return func(r *Repository) { r.defaultBranch = branch }
}

// Open binds a Repository to the work tree at dir and verifies it is
// actually a git repository.
func Open(ctx gocontext.Context, dir string, opts ...Option) (*Repository, error) {
	r := &Repository{
		dir:           dir,
		exec:          NewExecExecutor(),
		log:           zerolog.Nop(),
		defaultBranch: "main",
	}
	for _, opt := range opts {
		opt(r)
	}

	out, err := r.exec.Run(ctx, dir, "rev-parse", "--is-inside-work-tree")
	if err != nil || out != "true" {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
	}
	return r, nil
}

// Dir returns the work tree path.
func (r *Repository) Dir() string { return r.dir }

// Head returns the current HEAD hash.
func (r *Repository) Head(ctx gocontext.Context) (string, error) {
	return r.exec.Run(ctx, r.dir, "rev-parse", "HEAD")
}

// CurrentBranch returns the checked-out branch name, or "" when HEAD is
// detached.
func (r *Repository) CurrentBranch(ctx gocontext.Context) (string, error) {
	return r.exec.Run(ctx, r.dir, "branch", "--show-current")
}

// Acquire captures the cursor for a verification cycle. It fails with
// ErrCycleActive when a cycle is already holding the tree. A detached HEAD
// is recovered by switching to the default branch first, so restoration
// always lands somewhere meaningful.
func (r *Repository) Acquire(ctx gocontext.Context) (*Cursor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cursor != nil {
		return nil, ErrCycleActive
	}

	branch, err := r.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire cursor: %w", err)
	}

	if branch == "" {
		r.log.Warn().Str("default_branch", r.defaultBranch).Msg("detached HEAD at cycle start, recovering")
		if _, err := r.exec.Run(ctx, r.dir, "checkout", r.defaultBranch); err != nil {
			return nil, fmt.Errorf("acquire cursor: recover detached HEAD: %w", err)
		}
		branch = r.defaultBranch
	}

	hash, err := r.Head(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire cursor: %w", err)
	}

	cur := &Cursor{Ref: branch, Hash: hash, OnBranch: true}
	r.cursor = cur
	r.log.Debug().Str("ref", cur.Ref).Str("hash", shortHash(cur.Hash)).Msg("cursor acquired")
	return cur, nil
}

// Checkout points the working tree at the given commit hash and verifies
// the move actually happened. Requires an acquired cursor. Failure is
// reported as a *CheckoutError, never a panic or process exit.
func (r *Repository) Checkout(ctx gocontext.Context, hash string) error {
	r.mu.Lock()
	held := r.cursor != nil
	r.mu.Unlock()
	if !held {
		return ErrNoCursor
	}

	if _, err := r.exec.Run(ctx, r.dir, "checkout", hash); err != nil {
		return &CheckoutError{Hash: hash, Err: err}
	}

	// Verify: a checkout that silently lands elsewhere poisons the search.
	actual, err := r.Head(ctx)
	if err != nil {
		return &CheckoutError{Hash: hash, Err: err}
	}
	if actual != hash {
		return &CheckoutError{Hash: hash, Err: fmt.Errorf("HEAD is %s after checkout", shortHash(actual))}
	}

	r.log.Debug().Str("hash", shortHash(hash)).Msg("checked out")
	return nil
}

// Release restores the working tree to the acquired cursor and clears it.
// Safe to call when no cursor is held (no-op). Restoration is attempted
// exactly once per cycle regardless of what happened in between.
func (r *Repository) Release(ctx gocontext.Context) error {
	r.mu.Lock()
	cur := r.cursor
	r.cursor = nil
	r.mu.Unlock()

	if cur == nil {
		return nil
	}

	if _, err := r.exec.Run(ctx, r.dir, "checkout", cur.Ref); err != nil {
		r.log.Error().Err(err).Str("ref", cur.Ref).Msg("restore failed, tree may be on a candidate commit")
		return fmt.Errorf("restore %s: %w", cur.Ref, err)
	}
	r.log.Debug().Str("ref", cur.Ref).Msg("restored")
	return nil
}

// CursorHeld reports whether a verification cycle currently holds the tree.
func (r *Repository) CursorHeld() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor != nil
}
