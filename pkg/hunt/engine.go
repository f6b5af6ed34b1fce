package hunt

import (
	gocontext "context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cgast/bughunt/pkg/condition"
	"github.com/cgast/bughunt/pkg/events"
	"github.com/cgast/bughunt/pkg/gitx"
)

// MaxExpandDays caps automatic window expansion.
const MaxExpandDays = 90

// Repository is the slice of the git layer the engine drives. gitx.Repository
// satisfies it; tests substitute a scripted fake.
type Repository interface {
	CommitsInWindow(ctx gocontext.Context, daysAgo int) ([]gitx.Commit, error)
	CommitByHash(ctx gocontext.Context, hash string) (gitx.Commit, error)
	Acquire(ctx gocontext.Context) (*gitx.Cursor, error)
	Checkout(ctx gocontext.Context, hash string) error
	Release(ctx gocontext.Context) error
}

// Engine orchestrates enumerator, controller and evaluator into a binary
// search for the condition's transition point. Steps are strictly
// sequential; each narrows the range based on the previous outcome.
type Engine struct {
	repo       Repository
	bus        events.Bus
	recorder   Recorder
	log        zerolog.Logger
	settle     time.Duration
	autoExpand bool
	maxDays    int
}

// Option configures the Engine.
type Option func(*Engine)

// WithBus publishes hunt progress to the given bus.
func WithBus(bus events.Bus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithRecorder persists finished reports.
func WithRecorder(rec Recorder) Option {
	return func(e *Engine) { e.recorder = rec }
}

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithSettle waits the given duration after each checkout before
// evaluating, giving a watched application time to restart.
func WithSettle(d time.Duration) Option {
	return func(e *Engine) { e.settle = d }
}

// WithAutoExpand doubles the window when it is empty or uniformly failing,
// up to maxDays (MaxExpandDays when maxDays <= 0).
func WithAutoExpand(maxDays int) Option {
	return func(e *Engine) {
		e.autoExpand = true
		if maxDays <= 0 {
			maxDays = MaxExpandDays
		}
		e.maxDays = maxDays
	}
}

// NewEngine creates a bisection engine over the given repository.
func NewEngine(repo Repository, opts ...Option) *Engine {
	e := &Engine{
		repo:     repo,
		bus:      events.NewMemoryBus(),
		recorder: NopRecorder{},
		log:      zerolog.Nop(),
		maxDays:  MaxExpandDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindRegression bisects the window of the last daysAgo days for the
// boundary where cond flips. Polarity is fixed empirically: the newest and
// oldest commits are evaluated first, and the reported boundary is always
// the commit on the failing side of the transition.
//
// The condition must be monotonic across the window; when it is not, the
// result is a boundary near, but not necessarily at, the true regression
// point. The partially filled report is returned alongside any error.
func (e *Engine) FindRegression(ctx gocontext.Context, daysAgo int, cond condition.Condition) (*Report, error) {
	report := &Report{
		Condition:     cond.Describe(),
		RequestedDays: daysAgo,
		StartedAt:     time.Now(),
	}
	e.bus.Publish(events.New(events.EventHuntStart, report.Condition))

	cache := make(map[string]Outcome)
	days := daysAgo

	for {
		report.SearchedDays = days
		report.Expanded = days != daysAgo

		commits, err := e.repo.CommitsInWindow(ctx, days)
		if err != nil {
			return e.finish(report, err)
		}
		report.WindowSize = len(commits)

		if len(commits) == 0 {
			if next, ok := e.expandable(days); ok {
				e.publishExpand(days, next, "empty window")
				days = next
				continue
			}
			return e.finish(report, fmt.Errorf("%w: window of %d days is empty", ErrEmptyWindow, days))
		}

		err = e.search(ctx, commits, cond, cache, report)

		// A uniformly failing window may just be too narrow; double it
		// and try again.
		if err != nil && report.Uniform != nil && !*report.Uniform {
			if next, ok := e.expandable(days); ok {
				e.publishExpand(days, next, "condition fails across entire window")
				report.Uniform = nil
				days = next
				continue
			}
		}
		return e.finish(report, err)
	}
}

// CheckCommit runs a single checkout/evaluate/restore cycle against one
// commit identified by hash.
func (e *Engine) CheckCommit(ctx gocontext.Context, hash string, cond condition.Condition) (Outcome, error) {
	commit, err := e.repo.CommitByHash(ctx, hash)
	if err != nil {
		return Outcome{}, err
	}
	return e.verifyAt(ctx, commit, cond, make(map[string]Outcome), nil)
}

// search performs the actual bisection over a non-empty window, appending
// every outcome to report.History.
func (e *Engine) search(ctx gocontext.Context, commits []gitx.Commit, cond condition.Condition, cache map[string]Outcome, report *Report) error {
	newest, err := e.verifyAt(ctx, commits[0], cond, cache, report)
	if err != nil {
		return err
	}

	if len(commits) == 1 {
		report.Uniform = &newest.Passed
		return fmt.Errorf("%w: single commit in window", ErrNoTransition)
	}

	oldest, err := e.verifyAt(ctx, commits[len(commits)-1], cond, cache, report)
	if err != nil {
		return err
	}

	if newest.Passed == oldest.Passed {
		report.Uniform = &newest.Passed
		word := "fails"
		if newest.Passed {
			word = "holds"
		}
		return fmt.Errorf("%w: condition %s at every commit in the window", ErrNoTransition, word)
	}

	// Invariant: lo matches the newest outcome, hi differs from it.
	lo, hi := 0, len(commits)-1
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		out, err := e.verifyAt(ctx, commits[mid], cond, cache, report)
		if err != nil {
			return err
		}
		if out.Passed == newest.Passed {
			lo = mid
		} else {
			hi = mid
		}
		e.bus.Publish(events.Event{
			Type:      events.EventHuntStep,
			Timestamp: time.Now(),
			Step:      report.Steps,
			Data:      fmt.Sprintf("range narrowed to [%d, %d]", lo, hi),
		})
	}

	report.Transition = true
	if newest.Passed {
		// Newer commits pass, older fail: the failing side is hi.
		report.Boundary = &commits[hi]
		report.LastPassing = &commits[lo]
	} else {
		// Newer commits fail, older pass: the failing side is lo.
		report.Boundary = &commits[lo]
		report.LastPassing = &commits[hi]
	}
	return nil
}

// verifyAt runs one checkout/evaluate/restore cycle. Restoration is
// attempted exactly once on every exit path, including checkout failure
// and evaluator error. Outcomes are memoized by hash so window expansion
// does not retest commits.
func (e *Engine) verifyAt(ctx gocontext.Context, commit gitx.Commit, cond condition.Condition, cache map[string]Outcome, report *Report) (Outcome, error) {
	if out, ok := cache[commit.Hash]; ok {
		out.Cached = true
		e.appendOutcome(report, out)
		return out, nil
	}

	if _, err := e.repo.Acquire(ctx); err != nil {
		return Outcome{}, fmt.Errorf("verify %s: %w", commit.Short(), err)
	}

	e.bus.Publish(events.New(events.EventCheckoutStart, commit.Short()))
	out, cycleErr := func() (Outcome, error) {
		defer func() {
			if err := e.repo.Release(ctx); err != nil {
				e.log.Error().Err(err).Msg("restore after verification cycle failed")
			}
			e.bus.Publish(events.New(events.EventRestoreDone, commit.Short()))
		}()

		if err := e.repo.Checkout(ctx, commit.Hash); err != nil {
			return Outcome{}, err
		}
		e.bus.Publish(events.New(events.EventCheckoutDone, commit.Short()))

		if e.settle > 0 {
			select {
			case <-time.After(e.settle):
			case <-ctx.Done():
				return Outcome{}, ctx.Err()
			}
		}

		passed, detail, err := cond.Evaluate(ctx)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w at %s: %v", ErrEvaluation, commit.Short(), err)
		}
		return Outcome{Commit: commit, Passed: passed, Detail: detail}, nil
	}()
	if cycleErr != nil {
		return Outcome{}, cycleErr
	}

	cache[commit.Hash] = out
	e.appendOutcome(report, out)
	e.log.Info().
		Str("commit", commit.Short()).
		Int("index", commit.Index).
		Bool("passed", out.Passed).
		Msg("verified")
	e.bus.Publish(events.New(events.EventVerifyResult, out))
	return out, nil
}

func (e *Engine) appendOutcome(report *Report, out Outcome) {
	if report == nil {
		return
	}
	report.History = append(report.History, out)
	report.Steps++
}

// expandable reports the next window size, when expansion is allowed.
func (e *Engine) expandable(days int) (int, bool) {
	if !e.autoExpand || days >= e.maxDays {
		return days, false
	}
	next := days * 2
	if next <= days {
		next = days + 1
	}
	if next > e.maxDays {
		next = e.maxDays
	}
	return next, true
}

func (e *Engine) publishExpand(from, to int, reason string) {
	e.log.Info().Int("from_days", from).Int("to_days", to).Str("reason", reason).Msg("expanding search window")
	e.bus.Publish(events.New(events.EventHuntExpand, fmt.Sprintf("%d -> %d days: %s", from, to, reason)))
}

// finish stamps, records and publishes the report before returning it.
func (e *Engine) finish(report *Report, err error) (*Report, error) {
	report.FinishedAt = time.Now()
	if recErr := e.recorder.Record(report); recErr != nil {
		e.log.Warn().Err(recErr).Msg("could not persist hunt report")
	}
	e.bus.Publish(events.Event{
		Type:      events.EventHuntEnd,
		Timestamp: time.Now(),
		Data:      report,
		Duration:  report.FinishedAt.Sub(report.StartedAt),
	})
	return report, err
}
