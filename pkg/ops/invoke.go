package ops

import (
	gocontext "context"
	"fmt"
	"strconv"
	"strings"
)

// Invoke is the named-parameter tier. An unknown operation name yields a
// structured failure listing the known names; a panic inside an
// implementation is recovered into a dispatch failure carrying the
// operation name, the arguments given, and the error text. Invoke never
// lets a fault escape.
func (r *Registry) Invoke(ctx gocontext.Context, name string, args Args) (result Result) {
	op, ok := r.Resolve(name)
	if !ok {
		return Result{
			Success:         false,
			Op:              name,
			Error:           fmt.Sprintf("unknown operation: %q", name),
			KnownOperations: r.Names(),
		}
	}

	normalized, err := normalizeArgs(op.Params(), args)
	if err != nil {
		return Fail(name, args, err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = Fail(name, normalized, fmt.Errorf("dispatch: %s panicked: %v", name, rec))
		}
	}()

	data, err := op.Execute(ctx, normalized)
	if err != nil {
		return Fail(name, normalized, err)
	}
	return OK(name, data)
}

// normalizeArgs validates args against the declared parameters: required
// parameters must be present, optional ones fall back to their defaults,
// and string values are coerced to the declared type. Undeclared
// arguments are rejected rather than silently dropped.
func normalizeArgs(params []Param, args Args) (Args, error) {
	declared := make(map[string]Param, len(params))
	for _, p := range params {
		declared[p.Name] = p
	}
	for key := range args {
		if _, ok := declared[key]; !ok {
			return nil, fmt.Errorf("unknown argument %q", key)
		}
	}

	normalized := make(Args, len(params))
	for _, p := range params {
		v, ok := args[p.Name]
		if !ok || v == nil || v == "" {
			if p.Required {
				return nil, fmt.Errorf("missing required argument %q", p.Name)
			}
			if p.Default != nil {
				normalized[p.Name] = p.Default
			}
			continue
		}

		coerced, err := coerce(p, v)
		if err != nil {
			return nil, err
		}
		normalized[p.Name] = coerced
	}
	return normalized, nil
}

// coerce converts a raw argument value to the parameter's declared type.
func coerce(p Param, v any) (any, error) {
	switch p.Type {
	case ParamInt:
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
				return nil, fmt.Errorf("argument %q: %q is not an integer", p.Name, n)
			}
			return i, nil
		default:
			return nil, fmt.Errorf("argument %q: cannot use %T as int", p.Name, v)
		}
	case ParamBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			s := strings.ToLower(strings.TrimSpace(b))
			return s != "" && s != "false" && s != "0", nil
		default:
			return nil, fmt.Errorf("argument %q: cannot use %T as bool", p.Name, v)
		}
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprintf("%v", v), nil
	}
}
