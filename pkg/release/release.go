// Package release handles the commit and release side of the toolkit:
// staging changes, generating messages, and reporting release state.
package release

import (
	gocontext "context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cgast/bughunt/pkg/gitx"
)

// Repository is the slice of the git layer the releaser needs.
type Repository interface {
	Status(ctx gocontext.Context) ([]gitx.StatusEntry, error)
	StageAll(ctx gocontext.Context) error
	CommitStaged(ctx gocontext.Context, message string) (string, error)
	CurrentBranch(ctx gocontext.Context) (string, error)
	Head(ctx gocontext.Context) (string, error)
	LatestTag(ctx gocontext.Context) (string, error)
}

// CommitResult describes a created commit.
type CommitResult struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
	Files   int    `json:"files"`
}

// DryRunResult describes what a release commit would do.
type DryRunResult struct {
	WouldCommit bool               `json:"would_commit"`
	Message     string             `json:"message,omitempty"`
	Files       []gitx.StatusEntry `json:"files"`
}

// StatusResult describes the current release state.
type StatusResult struct {
	Branch        string       `json:"branch"`
	Head          string       `json:"head"`
	Clean         bool         `json:"clean"`
	PendingFiles  int          `json:"pending_files"`
	LatestTag     string       `json:"latest_tag,omitempty"`
	LatestRelease *ReleaseInfo `json:"latest_release,omitempty"`
}

// Releaser wires the repository, message generation and the optional
// GitHub release lookup together.
type Releaser struct {
	repo Repository
	gen  MessageGenerator
	gh   *ReleaseClient
	log  zerolog.Logger
}

// Option configures a Releaser.
type Option func(*Releaser)

// WithGenerator replaces the default summary-based message generator.
func WithGenerator(gen MessageGenerator) Option {
	return func(r *Releaser) { r.gen = gen }
}

// WithGitHub enables release lookups against GitHub.
func WithGitHub(client *ReleaseClient) Option {
	return func(r *Releaser) { r.gh = client }
}

// WithLogger sets the releaser logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Releaser) { r.log = log }
}

// New creates a Releaser over the given repository.
func New(repo Repository, opts ...Option) *Releaser {
	r := &Releaser{
		repo: repo,
		gen:  SummaryGenerator{},
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Commit stages everything and commits with the given message. An empty
// message is filled in by the message generator.
func (r *Releaser) Commit(ctx gocontext.Context, message string) (CommitResult, error) {
	entries, err := r.repo.Status(ctx)
	if err != nil {
		return CommitResult{}, err
	}
	if len(entries) == 0 {
		return CommitResult{}, fmt.Errorf("commit: working tree is clean")
	}

	if strings.TrimSpace(message) == "" {
		message, err = r.gen.Generate(ctx, entries)
		if err != nil {
			return CommitResult{}, fmt.Errorf("commit: %w", err)
		}
	}

	if err := r.repo.StageAll(ctx); err != nil {
		return CommitResult{}, err
	}
	hash, err := r.repo.CommitStaged(ctx, message)
	if err != nil {
		return CommitResult{}, err
	}

	r.log.Info().Str("hash", hash).Int("files", len(entries)).Msg("committed")
	return CommitResult{Hash: hash, Message: message, Files: len(entries)}, nil
}

// DryRun reports what Commit would do without touching the repository.
func (r *Releaser) DryRun(ctx gocontext.Context) (DryRunResult, error) {
	entries, err := r.repo.Status(ctx)
	if err != nil {
		return DryRunResult{}, err
	}
	result := DryRunResult{Files: entries}
	if len(entries) == 0 {
		return result, nil
	}

	message, err := r.gen.Generate(ctx, entries)
	if err != nil {
		return result, fmt.Errorf("dry run: %w", err)
	}
	result.WouldCommit = true
	result.Message = message
	return result, nil
}

// Status summarizes the release state: branch, HEAD, pending changes, the
// latest local tag, and the latest GitHub release when a client is
// configured. A GitHub lookup failure degrades to a log warning; local
// state is still reported.
func (r *Releaser) Status(ctx gocontext.Context) (StatusResult, error) {
	branch, err := r.repo.CurrentBranch(ctx)
	if err != nil {
		return StatusResult{}, err
	}
	head, err := r.repo.Head(ctx)
	if err != nil {
		return StatusResult{}, err
	}
	entries, err := r.repo.Status(ctx)
	if err != nil {
		return StatusResult{}, err
	}
	tag, err := r.repo.LatestTag(ctx)
	if err != nil {
		return StatusResult{}, err
	}

	result := StatusResult{
		Branch:       branch,
		Head:         head,
		Clean:        len(entries) == 0,
		PendingFiles: len(entries),
		LatestTag:    tag,
	}

	if r.gh != nil {
		info, err := r.gh.Latest(ctx)
		if err != nil {
			r.log.Warn().Err(err).Msg("github release lookup failed")
		} else {
			result.LatestRelease = info
		}
	}
	return result, nil
}
