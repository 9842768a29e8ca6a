package tracker

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/reqsift/reqsift/pkg/reqlog"
)

// categorizer is the injected strategy mapping a request to an optional
// category key. Strategies are constructed once at Prepare and invoked per
// request thereafter.
type categorizer interface {
	categorize(req *reqlog.Request) (string, bool, error)
}

// predicate is the injected strategy gating Update.
type predicate interface {
	eval(req *reqlog.Request) (bool, error)
}

// funcCategorizer wraps a Go categorizer function.
type funcCategorizer struct{ fn CategorizerFunc }

func (c funcCategorizer) categorize(req *reqlog.Request) (string, bool, error) {
	key, ok := c.fn(req)
	return key, ok, nil
}

// funcPredicate wraps a Go predicate function.
type funcPredicate struct{ fn PredicateFunc }

func (p funcPredicate) eval(req *reqlog.Request) (bool, error) {
	return p.fn(req), nil
}

// exprEnv builds the evaluation environment for a request: the merged
// fields at the top level, later entries winning, plus request metadata
// under reserved names.
func exprEnv(req *reqlog.Request) map[string]any {
	env := req.Fields()
	env["line_types"] = req.LineTypes()
	env["entry_count"] = req.Len()
	env["first_lineno"] = req.FirstLineNo()
	env["last_lineno"] = req.LastLineNo()
	return env
}

// compileExpr compiles tracker expression source. Request fields vary per
// line, so undefined names resolve to nil instead of failing compilation.
func compileExpr(source string) (*vm.Program, error) {
	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("%w: compile %q: %v", ErrConfiguration, source, err)
	}
	return program, nil
}

// exprCategorizer evaluates an expr program per request. A nil result is
// the no-category case; anything else stringifies into the key.
type exprCategorizer struct {
	source  string
	program *vm.Program
}

func newExprCategorizer(source string) (*exprCategorizer, error) {
	program, err := compileExpr(source)
	if err != nil {
		return nil, err
	}
	return &exprCategorizer{source: source, program: program}, nil
}

func (c *exprCategorizer) categorize(req *reqlog.Request) (string, bool, error) {
	out, err := expr.Run(c.program, exprEnv(req))
	if err != nil {
		// Propagated unmodified up the dispatch path: a broken categorizer
		// invalidates the whole run.
		return "", false, err
	}
	if out == nil {
		return "", false, nil
	}
	return stringifyCategory(out), true, nil
}

// stringifyCategory normalizes expression results into category keys.
func stringifyCategory(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Duration:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// exprPredicate evaluates a gating expression per request. Non-boolean
// results follow truthiness: nil and false are false, everything else true.
type exprPredicate struct {
	source  string
	program *vm.Program
}

func newExprPredicate(source string) (*exprPredicate, error) {
	program, err := compileExpr(source)
	if err != nil {
		return nil, err
	}
	return &exprPredicate{source: source, program: program}, nil
}

func (p *exprPredicate) eval(req *reqlog.Request) (bool, error) {
	out, err := expr.Run(p.program, exprEnv(req))
	if err != nil {
		return false, err
	}
	switch x := out.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	default:
		return true, nil
	}
}

// valuer extracts the numeric quantity a duration tracker accumulates.
type valuer struct {
	source  string
	program *vm.Program
}

func newValuer(source string) (*valuer, error) {
	program, err := compileExpr(source)
	if err != nil {
		return nil, err
	}
	return &valuer{source: source, program: program}, nil
}

// value evaluates to seconds. Durations convert; numbers are taken as
// seconds already. A nil result means the request carries no value.
func (v *valuer) value(req *reqlog.Request) (float64, bool, error) {
	out, err := expr.Run(v.program, exprEnv(req))
	if err != nil {
		return 0, false, err
	}
	switch x := out.(type) {
	case nil:
		return 0, false, nil
	case time.Duration:
		return x.Seconds(), true, nil
	case float64:
		return x, true, nil
	case int:
		return float64(x), true, nil
	case int64:
		return float64(x), true, nil
	default:
		return 0, false, fmt.Errorf("value expression %q yielded %T, want number or duration", v.source, out)
	}
}
