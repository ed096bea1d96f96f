package condition

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rulego/maxintersect/functions"
)

// Condition decides whether a row takes part in an aggregation
type Condition interface {
	Evaluate(env interface{}) bool
}

// ExprCondition is a Condition backed by a compiled expr-lang program
type ExprCondition struct {
	source  string
	program *vm.Program
}

// NewExprCondition compiles a boolean expression. Registered functions and
// like_match(text, pattern) are available inside the expression; unknown
// variables evaluate to nil.
func NewExprCondition(expression string) (*ExprCondition, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("condition expression cannot be empty")
	}
	options := append(functions.ExprOptions(),
		expr.Function("like_match", func(params ...any) (any, error) {
			if len(params) != 2 {
				return false, fmt.Errorf("like_match function requires 2 parameters")
			}
			text, ok1 := params[0].(string)
			pattern, ok2 := params[1].(string)
			if !ok1 || !ok2 {
				return false, fmt.Errorf("like_match function requires string parameters")
			}
			return matchesLikePattern(text, pattern), nil
		}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", expression, err)
	}
	return &ExprCondition{source: expression, program: program}, nil
}

// Evaluate runs the program against env. Runtime errors count as false.
func (ec *ExprCondition) Evaluate(env interface{}) bool {
	result, err := expr.Run(ec.program, env)
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

// String returns the source expression
func (ec *ExprCondition) String() string {
	return ec.source
}

// matchesLikePattern matches SQL LIKE patterns: % is any run of characters,
// _ is exactly one character.
func matchesLikePattern(text, pattern string) bool {
	t, p := []rune(text), []rune(pattern)
	ti, pi := 0, 0
	star, mark := -1, 0
	for ti < len(t) {
		switch {
		case pi < len(p) && (p[pi] == '_' || p[pi] == t[ti]):
			ti++
			pi++
		case pi < len(p) && p[pi] == '%':
			star, mark = pi, ti
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			ti = mark
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '%' {
		pi++
	}
	return pi == len(p)
}
