package vars

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// exprPrefix marks an assignment value as a deferred expression.
const exprPrefix = "lambda:"

// Kind discriminates the two assignment variants.
type Kind int

const (
	// KindLiteral resolves to the same stored string on every run.
	KindLiteral Kind = iota
	// KindExpression is re-evaluated freshly on every run.
	KindExpression
)

// Assignment is a single parsed -var directive. It is immutable after
// parsing; expression assignments hold their pre-parsed HCL syntax tree so
// per-run evaluation never re-parses.
type Assignment struct {
	Name string
	Kind Kind

	// Literal is the stored value for KindLiteral assignments.
	Literal string
	// Source is the expression text for KindExpression assignments.
	Source string

	expr hcl.Expression
}

// Parse turns a raw "name=value" token into an Assignment. A value prefixed
// with "lambda:" is parsed as an HCL expression; parse failures are reported
// immediately so malformed directives fail at the argument stage, not mid-run.
func Parse(token string) (*Assignment, error) {
	name, value, ok := strings.Cut(token, "=")
	if !ok {
		return nil, fmt.Errorf("malformed -var %q: expected name=value", token)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("malformed -var %q: empty variable name", token)
	}

	src, deferred := strings.CutPrefix(strings.TrimSpace(value), exprPrefix)
	if !deferred {
		return &Assignment{Name: name, Kind: KindLiteral, Literal: value}, nil
	}

	src = strings.TrimSpace(src)
	expr, diags := hclsyntax.ParseExpression([]byte(src), "var:"+name, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing -var %s expression: %w", name, diags)
	}
	return &Assignment{Name: name, Kind: KindExpression, Source: src, expr: expr}, nil
}

// EvalError reports a failed per-run evaluation of an expression assignment.
type EvalError struct {
	Name string
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating var %q (%s): %v", e.Name, e.Expr, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Evaluate resolves the assignment for a single run. Literals pass through
// unchanged. Expressions are evaluated against a fresh sandboxed context so
// random functions produce a new value each run.
func (e *Evaluator) Evaluate(a *Assignment, runIndex int) (string, error) {
	if a.Kind == KindLiteral {
		return a.Literal, nil
	}

	val, diags := a.expr.Value(e.evalContext(runIndex))
	if diags.HasErrors() {
		return "", &EvalError{Name: a.Name, Expr: a.Source, Err: diags}
	}

	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", &EvalError{Name: a.Name, Expr: a.Source, Err: err}
	}
	if str.IsNull() {
		return "", &EvalError{Name: a.Name, Expr: a.Source, Err: fmt.Errorf("expression produced null")}
	}
	return str.AsString(), nil
}

// evalContext builds the sandboxed HCL evaluation context for one run. Only
// the run index and the evaluator's function table are visible; anything else
// an expression references is an undefined-name diagnostic.
func (e *Evaluator) evalContext(runIndex int) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"run": cty.ObjectVal(map[string]cty.Value{
				"index": cty.NumberIntVal(int64(runIndex)),
			}),
		},
		Functions: e.funcs,
	}
}
