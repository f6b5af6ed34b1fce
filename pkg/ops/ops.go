// Package ops exposes the toolkit's operations through a fixed registry
// and two thin call surfaces on top of it: a named-parameter tier
// (Invoke) and a free-text command tier (Router). Direct callers simply
// use the underlying packages.
package ops

import (
	gocontext "context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ParamType is the declared type of an operation parameter.
type ParamType string

const (
	ParamString ParamType = "string"
	ParamInt    ParamType = "int"
	ParamBool   ParamType = "bool"
)

// Param describes a single named parameter of an operation.
type Param struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Default     any       `json:"default,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Args carries named parameters into an operation. Values may arrive as
// native types (named tier) or strings (text tier); typed getters coerce.
type Args map[string]any

// Int returns the named argument as an int.
func (a Args) Int(key string) (int, error) {
	v, ok := a[key]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("argument %q: %q is not an integer", key, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("argument %q: cannot use %T as int", key, v)
	}
}

// String returns the named argument as a string.
func (a Args) String(key string) (string, error) {
	v, ok := a[key]
	if !ok {
		return "", fmt.Errorf("missing argument %q", key)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// Bool returns the named argument as a bool; absent means false.
func (a Args) Bool(key string) bool {
	v, ok := a[key]
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		return s != "" && s != "false" && s != "0"
	default:
		return false
	}
}

// Result is the structured outcome crossing every tier boundary. Nothing
// escapes a tier as an uncaught fault; failures always carry enough
// context to diagnose without re-running.
type Result struct {
	Success         bool           `json:"success"`
	Op              string         `json:"op,omitempty"`
	Error           string         `json:"error,omitempty"`
	Args            Args           `json:"args,omitempty"`
	Data            map[string]any `json:"data,omitempty"`
	KnownOperations []string       `json:"known_operations,omitempty"`
	Examples        []string       `json:"examples,omitempty"`
}

// OK builds a success result.
func OK(op string, data map[string]any) Result {
	return Result{Success: true, Op: op, Data: data}
}

// Fail builds a failure result echoing the arguments given.
func Fail(op string, args Args, err error) Result {
	return Result{Success: false, Op: op, Args: args, Error: err.Error()}
}

// Operation is a single named entry in the registry.
type Operation interface {
	Name() string
	Description() string
	Params() []Param
	Execute(ctx gocontext.Context, args Args) (map[string]any, error)
}

// Registry is the fixed operation table, built once at startup.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

// Register adds an operation. Registering the same name twice is an error.
func (r *Registry) Register(op Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := op.Name()
	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("operation already registered: %s", name)
	}
	r.ops[name] = op
	return nil
}

// Resolve looks up an operation by name.
func (r *Registry) Resolve(name string) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

// Names returns all registered operation names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the parameter list of an operation.
func (r *Registry) Describe(name string) ([]Param, error) {
	op, ok := r.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("unknown operation: %s", name)
	}
	return op.Params(), nil
}
