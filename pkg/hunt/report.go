// Package hunt implements bisection over a commit window to locate the
// point where a test condition flips.
package hunt

import (
	"errors"
	"time"

	"github.com/cgast/bughunt/pkg/gitx"
)

// Sentinel errors usable with errors.Is.
var (
	// ErrEmptyWindow indicates the search window contained no commits.
	ErrEmptyWindow = errors.New("no commits to search")

	// ErrNoTransition indicates the condition held (or failed) uniformly
	// across the whole window, so there is no boundary to report.
	ErrNoTransition = errors.New("no transition found")

	// ErrEvaluation indicates the condition could not be decided at a commit.
	ErrEvaluation = errors.New("condition evaluation failed")
)

// Outcome is the immutable result of evaluating a condition at one commit.
type Outcome struct {
	Commit gitx.Commit `json:"commit"`
	Passed bool        `json:"passed"`
	Detail string      `json:"detail,omitempty"`
	Cached bool        `json:"cached,omitempty"`
}

// Report describes one hunt: the window searched, the verification history
// collected, and the boundary when one was found.
type Report struct {
	Condition     string    `json:"condition"`
	RequestedDays int       `json:"requested_days"`
	SearchedDays  int       `json:"searched_days"`
	Expanded      bool      `json:"expanded"`
	WindowSize    int       `json:"window_size"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`

	// Transition is true when a boundary was found. Boundary is the commit
	// on the failing side of the transition; LastPassing is the adjacent
	// commit on the passing side.
	Transition  bool         `json:"transition"`
	Boundary    *gitx.Commit `json:"boundary,omitempty"`
	LastPassing *gitx.Commit `json:"last_passing,omitempty"`

	// Uniform records the single outcome observed across the whole window
	// when no transition exists.
	Uniform *bool `json:"uniform,omitempty"`

	// History lists every verification cycle performed, in order. It is
	// preserved even when the hunt aborts, so a failed search can be
	// diagnosed without re-running it.
	History []Outcome `json:"history"`
	Steps   int       `json:"steps"`
}
