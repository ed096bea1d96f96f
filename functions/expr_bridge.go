package functions

import (
	"github.com/expr-lang/expr"
)

// ExprOptions exposes every registered function to expr-lang programs.
// Functions are looked up at compile time, so functions registered later
// are only visible to programs compiled afterwards.
func ExprOptions() []expr.Option {
	all := ListAll()
	options := make([]expr.Option, 0, len(all))
	for name, fn := range all {
		options = append(options, expr.Function(name, bindExpr(fn)))
	}
	return options
}

func bindExpr(fn Function) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if err := fn.Validate(params); err != nil {
			return nil, err
		}
		return fn.Execute(&FunctionContext{}, params)
	}
}
