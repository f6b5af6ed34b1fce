package ops

import (
	gocontext "context"
	"errors"
	"strings"
	"testing"
)

// stubOp is a scriptable Operation for registry and tier tests.
type stubOp struct {
	name   string
	params []Param
	fn     func(ctx gocontext.Context, args Args) (map[string]any, error)
}

func (s *stubOp) Name() string        { return s.name }
func (s *stubOp) Description() string { return "stub" }
func (s *stubOp) Params() []Param     { return s.params }
func (s *stubOp) Execute(ctx gocontext.Context, args Args) (map[string]any, error) {
	if s.fn == nil {
		return map[string]any{}, nil
	}
	return s.fn(ctx, args)
}

func TestRegistryRegisterAndResolve(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&stubOp{name: "list_commits"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, ok := reg.Resolve("list_commits"); !ok {
		t.Error("expected to resolve registered operation")
	}
	if _, ok := reg.Resolve("nope"); ok {
		t.Error("resolved an unregistered operation")
	}
}

func TestRegistryDuplicateRegister(t *testing.T) {
	reg := NewRegistry()
	op := &stubOp{name: "list_commits"}
	if err := reg.Register(op); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	if err := reg.Register(op); err == nil {
		t.Error("expected error on duplicate register")
	}
}

func TestInvokeUnknownOperationListsKnown(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubOp{name: "list_commits"})
	reg.Register(&stubOp{name: "hunt_regression"})

	result := reg.Invoke(gocontext.Background(), "nonexistent_op", nil)
	if result.Success {
		t.Fatal("expected failure for unknown operation")
	}
	if !strings.Contains(result.Error, "nonexistent_op") {
		t.Errorf("error should name the operation: %q", result.Error)
	}
	if len(result.KnownOperations) != 2 {
		t.Errorf("expected 2 known operations, got %v", result.KnownOperations)
	}
}

func TestInvokeAppliesDefaults(t *testing.T) {
	var seen Args
	reg := NewRegistry()
	reg.Register(&stubOp{
		name: "analyze_logs",
		params: []Param{
			{Name: "pattern", Type: ParamString, Required: true},
			{Name: "since_hours", Type: ParamInt, Default: 24},
		},
		fn: func(_ gocontext.Context, args Args) (map[string]any, error) {
			seen = args
			return map[string]any{}, nil
		},
	})

	result := reg.Invoke(gocontext.Background(), "analyze_logs", Args{"pattern": "error"})
	if !result.Success {
		t.Fatalf("Invoke failed: %s", result.Error)
	}
	if hours, err := seen.Int("since_hours"); err != nil || hours != 24 {
		t.Errorf("expected default since_hours=24, got %v (%v)", seen["since_hours"], err)
	}
}

func TestInvokeMissingRequiredArgument(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubOp{
		name:   "list_commits",
		params: []Param{{Name: "days_ago", Type: ParamInt, Required: true}},
	})

	result := reg.Invoke(gocontext.Background(), "list_commits", Args{})
	if result.Success {
		t.Fatal("expected failure for missing required argument")
	}
	if !strings.Contains(result.Error, "days_ago") {
		t.Errorf("error should name the argument: %q", result.Error)
	}
}

func TestInvokeRejectsUnknownArgument(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubOp{
		name:   "list_commits",
		params: []Param{{Name: "days_ago", Type: ParamInt, Required: true}},
	})

	result := reg.Invoke(gocontext.Background(), "list_commits", Args{"days_ago": 5, "bogus": true})
	if result.Success {
		t.Fatal("expected failure for unknown argument")
	}
	if !strings.Contains(result.Error, "bogus") {
		t.Errorf("error should name the argument: %q", result.Error)
	}
}

func TestInvokeCoercesStringInts(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubOp{
		name:   "list_commits",
		params: []Param{{Name: "days_ago", Type: ParamInt, Required: true}},
		fn: func(_ gocontext.Context, args Args) (map[string]any, error) {
			days, err := args.Int("days_ago")
			return map[string]any{"days": days}, err
		},
	})

	result := reg.Invoke(gocontext.Background(), "list_commits", Args{"days_ago": "5"})
	if !result.Success {
		t.Fatalf("Invoke failed: %s", result.Error)
	}
	if result.Data["days"] != 5 {
		t.Errorf("expected coerced 5, got %v", result.Data["days"])
	}

	bad := reg.Invoke(gocontext.Background(), "list_commits", Args{"days_ago": "lots"})
	if bad.Success {
		t.Error("expected failure for non-integer value")
	}
}

func TestInvokeRecoversPanic(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubOp{
		name: "exploding",
		fn: func(gocontext.Context, Args) (map[string]any, error) {
			panic("boom")
		},
	})

	result := reg.Invoke(gocontext.Background(), "exploding", Args{})
	if result.Success {
		t.Fatal("expected failure from panicking operation")
	}
	if !strings.Contains(result.Error, "boom") || !strings.Contains(result.Error, "exploding") {
		t.Errorf("dispatch failure should carry op name and panic text: %q", result.Error)
	}
}

func TestInvokeWrapsOperationError(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubOp{
		name:   "failing",
		params: []Param{{Name: "target", Type: ParamString, Required: true}},
		fn: func(gocontext.Context, Args) (map[string]any, error) {
			return nil, errors.New("it broke")
		},
	})

	result := reg.Invoke(gocontext.Background(), "failing", Args{"target": "x"})
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error != "it broke" {
		t.Errorf("unexpected error %q", result.Error)
	}
	// The parameters given are echoed back for diagnosis.
	if got, _ := result.Args.String("target"); got != "x" {
		t.Errorf("expected echoed args, got %+v", result.Args)
	}
}
