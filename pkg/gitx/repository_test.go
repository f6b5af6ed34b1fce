package gitx

import (
	gocontext "context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// mockExecutor replays scripted git output keyed by the joined argument
// list and records every invocation.
type mockExecutor struct {
	responses map[string]string
	errors    map[string]error
	calls     []string
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{
		responses: make(map[string]string),
		errors:    make(map[string]error),
	}
}

func (m *mockExecutor) on(args, output string) { m.responses[args] = output }

func (m *mockExecutor) failOn(args string, err error) { m.errors[args] = err }

func (m *mockExecutor) Run(_ gocontext.Context, _ string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	m.calls = append(m.calls, key)
	if err, ok := m.errors[key]; ok {
		return "", err
	}
	if out, ok := m.responses[key]; ok {
		return out, nil
	}
	return "", &GitError{Op: args[0], Args: args, Stderr: "unscripted call: " + key}
}

func (m *mockExecutor) called(args string) bool {
	for _, c := range m.calls {
		if c == args {
			return true
		}
	}
	return false
}

func openTestRepo(t *testing.T, exec *mockExecutor) *Repository {
	t.Helper()
	exec.on("rev-parse --is-inside-work-tree", "true")
	repo, err := Open(gocontext.Background(), "/repo", WithExecutor(exec))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	return repo
}

func TestOpenNotARepository(t *testing.T) {
	exec := newMockExecutor()
	exec.failOn("rev-parse --is-inside-work-tree", &GitError{Op: "rev-parse", Stderr: "fatal: not a git repository"})

	_, err := Open(gocontext.Background(), "/nowhere", WithExecutor(exec))
	if !errors.Is(err, ErrNotRepository) {
		t.Fatalf("expected ErrNotRepository, got %v", err)
	}
}

func TestAcquireCheckoutRelease(t *testing.T) {
	exec := newMockExecutor()
	repo := openTestRepo(t, exec)
	ctx := gocontext.Background()

	exec.on("branch --show-current", "main")
	exec.on("rev-parse HEAD", "aaa111")

	cur, err := repo.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if cur.Ref != "main" || cur.Hash != "aaa111" {
		t.Errorf("unexpected cursor %+v", cur)
	}

	exec.on("checkout bbb222", "")
	exec.on("rev-parse HEAD", "bbb222")
	if err := repo.Checkout(ctx, "bbb222"); err != nil {
		t.Fatalf("Checkout error: %v", err)
	}

	exec.on("checkout main", "")
	if err := repo.Release(ctx); err != nil {
		t.Fatalf("Release error: %v", err)
	}
	if !exec.called("checkout main") {
		t.Error("expected restore to checkout main")
	}
	if repo.CursorHeld() {
		t.Error("cursor should be cleared after Release")
	}
}

func TestAcquireRecoversDetachedHead(t *testing.T) {
	exec := newMockExecutor()
	repo := openTestRepo(t, exec)
	ctx := gocontext.Background()

	exec.on("branch --show-current", "") // detached
	exec.on("checkout main", "")
	exec.on("rev-parse HEAD", "ccc333")

	cur, err := repo.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if !exec.called("checkout main") {
		t.Error("expected recovery checkout of default branch")
	}
	if cur.Ref != "main" {
		t.Errorf("expected cursor on main, got %q", cur.Ref)
	}
}

func TestAcquireWhileCycleActive(t *testing.T) {
	exec := newMockExecutor()
	repo := openTestRepo(t, exec)
	ctx := gocontext.Background()

	exec.on("branch --show-current", "main")
	exec.on("rev-parse HEAD", "aaa111")

	if _, err := repo.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire error: %v", err)
	}
	if _, err := repo.Acquire(ctx); !errors.Is(err, ErrCycleActive) {
		t.Fatalf("expected ErrCycleActive, got %v", err)
	}
}

func TestCheckoutWithoutCursor(t *testing.T) {
	exec := newMockExecutor()
	repo := openTestRepo(t, exec)

	err := repo.Checkout(gocontext.Background(), "bbb222")
	if !errors.Is(err, ErrNoCursor) {
		t.Fatalf("expected ErrNoCursor, got %v", err)
	}
}

func TestCheckoutVerifiesHead(t *testing.T) {
	exec := newMockExecutor()
	repo := openTestRepo(t, exec)
	ctx := gocontext.Background()

	exec.on("branch --show-current", "main")
	exec.on("rev-parse HEAD", "aaa111")
	if _, err := repo.Acquire(ctx); err != nil {
		t.Fatalf("Acquire error: %v", err)
	}

	// Checkout "succeeds" but HEAD stays put.
	exec.on("checkout bbb222", "")

	err := repo.Checkout(ctx, "bbb222")
	if !errors.Is(err, ErrCheckoutFailed) {
		t.Fatalf("expected ErrCheckoutFailed, got %v", err)
	}
	var ce *CheckoutError
	if !errors.As(err, &ce) || ce.Hash != "bbb222" {
		t.Errorf("expected CheckoutError for bbb222, got %v", err)
	}
}

func TestCheckoutFailureIsStructured(t *testing.T) {
	exec := newMockExecutor()
	repo := openTestRepo(t, exec)
	ctx := gocontext.Background()

	exec.on("branch --show-current", "main")
	exec.on("rev-parse HEAD", "aaa111")
	if _, err := repo.Acquire(ctx); err != nil {
		t.Fatalf("Acquire error: %v", err)
	}

	exec.failOn("checkout deadbeef", &GitError{Op: "checkout", Stderr: "pathspec did not match"})

	err := repo.Checkout(ctx, "deadbeef")
	if !errors.Is(err, ErrCheckoutFailed) {
		t.Fatalf("expected ErrCheckoutFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "deadbee") {
		t.Errorf("error should identify the commit: %v", err)
	}
}

func TestReleaseWithoutCursorIsNoop(t *testing.T) {
	exec := newMockExecutor()
	repo := openTestRepo(t, exec)

	if err := repo.Release(gocontext.Background()); err != nil {
		t.Fatalf("Release without cursor should be a no-op, got %v", err)
	}
	for _, call := range exec.calls {
		if strings.HasPrefix(call, "checkout") {
			t.Errorf("unexpected checkout during no-op release: %s", call)
		}
	}
}

func TestReleaseHappensExactlyOnce(t *testing.T) {
	exec := newMockExecutor()
	repo := openTestRepo(t, exec)
	ctx := gocontext.Background()

	exec.on("branch --show-current", "main")
	exec.on("rev-parse HEAD", "aaa111")
	if _, err := repo.Acquire(ctx); err != nil {
		t.Fatalf("Acquire error: %v", err)
	}

	exec.on("checkout main", "")
	if err := repo.Release(ctx); err != nil {
		t.Fatalf("Release error: %v", err)
	}
	if err := repo.Release(ctx); err != nil {
		t.Fatalf("second Release should be a no-op, got %v", err)
	}

	restores := 0
	for _, call := range exec.calls {
		if call == "checkout main" {
			restores++
		}
	}
	if restores != 1 {
		t.Errorf("expected exactly 1 restore, got %d", restores)
	}
}

func TestGitErrorMessage(t *testing.T) {
	err := &GitError{Op: "checkout", Stderr: "pathspec did not match", Err: fmt.Errorf("exit status 1")}
	msg := err.Error()
	for _, want := range []string{"git checkout failed", "pathspec", "exit status 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should contain %q", msg, want)
		}
	}
}
