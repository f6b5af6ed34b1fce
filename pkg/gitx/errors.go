package gitx

import (
	"errors"
	"fmt"
)

// Sentinel errors usable with errors.Is.
var (
	// ErrNotRepository indicates the configured path is not a git work tree.
	ErrNotRepository = errors.New("not a git repository")

	// ErrCheckoutFailed indicates a commit could not be checked out.
	ErrCheckoutFailed = errors.New("checkout failed")

	// ErrCycleActive indicates a checkout/evaluate/restore cycle is already
	// holding the working tree. The tree is a process-wide resource; only
	// one cycle may be active at a time.
	ErrCycleActive = errors.New("verification cycle already active")

	// ErrNoCursor indicates Checkout was called without an acquired cursor.
	ErrNoCursor = errors.New("no cursor acquired")
)

// GitError records a failed git invocation with enough context to diagnose
// it without re-running.
type GitError struct {
	Op     string
	Args   []string
	Stderr string
	Err    error
}

// Error implements the error interface.
func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed", e.Op)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *GitError) Unwrap() error { return e.Err }

// CheckoutError identifies the commit that could not be checked out.
// It matches ErrCheckoutFailed under errors.Is.
type CheckoutError struct {
	Hash string
	Err  error
}

// Error implements the error interface.
func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout %s: %v", shortHash(e.Hash), e.Err)
}

// Unwrap returns the underlying error.
func (e *CheckoutError) Unwrap() error { return e.Err }

// Is reports ErrCheckoutFailed as a match.
func (e *CheckoutError) Is(target error) bool { return target == ErrCheckoutFailed }

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
