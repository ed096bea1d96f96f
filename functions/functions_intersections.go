package functions

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/rulego/maxintersect/intervals"
	"github.com/rulego/maxintersect/logger"
	"github.com/rulego/maxintersect/utils/cast"
)

// MaxIntersectionsStr is the registered name of the max_intersections aggregate
const MaxIntersectionsStr = "max_intersections"

// MaxIntersectionsFunction returns the maximum number of inclusive
// [left, right] intervals that overlap at any point.
//
// Rows with a null endpoint are excluded, rows with left > right are
// dropped, and an empty group yields 0.
type MaxIntersectionsFunction struct {
	*BaseFunction
	state *intervals.State
}

func NewMaxIntersectionsFunction() *MaxIntersectionsFunction {
	return &MaxIntersectionsFunction{
		BaseFunction: NewBaseFunction(MaxIntersectionsStr, TypeAggregation, "aggregation",
			"Maximum number of [left, right] intervals overlapping at any point", 2, 2),
		state: intervals.NewState(),
	}
}

func (f *MaxIntersectionsFunction) Validate(args []interface{}) error {
	return f.ValidateArgCount(args)
}

// Execute computes the aggregate in one shot. Each argument is either a
// scalar (a single row) or a slice holding one endpoint per row.
func (f *MaxIntersectionsFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	if err := f.Validate(args); err != nil {
		return nil, err
	}
	lefts, leftIsSlice := toValues(args[0])
	rights, rightIsSlice := toValues(args[1])
	if leftIsSlice != rightIsSlice {
		return nil, fmt.Errorf("function %s requires both arguments to be scalars or both slices", f.GetName())
	}
	if len(lefts) != len(rights) {
		return nil, fmt.Errorf("function %s: %d left values but %d right values", f.GetName(), len(lefts), len(rights))
	}

	s := intervals.NewStateWithCapacity(len(lefts))
	for i := range lefts {
		l, r, err := cast.ToPairE(lefts[i], rights[i])
		if errors.Is(err, cast.ErrNilValue) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("function %s row %d: %w", f.GetName(), i, err)
		}
		s.Accumulate(l, r)
	}
	return s.Finalize(), nil
}

func (f *MaxIntersectionsFunction) New() AggregatorFunction {
	return &MaxIntersectionsFunction{
		BaseFunction: f.BaseFunction,
		state:        intervals.NewState(),
	}
}

// Add accepts one row as []interface{}{left, right}, [2]interface{},
// [2]int64 or intervals.Interval. Rows that cannot be read are ignored.
func (f *MaxIntersectionsFunction) Add(value interface{}) {
	var err error
	switch v := value.(type) {
	case nil:
		return
	case intervals.Interval:
		f.state.AccumulateInterval(v)
	case *intervals.Interval:
		if v != nil {
			f.state.AccumulateInterval(*v)
		}
	case [2]int64:
		f.state.Accumulate(v[0], v[1])
	case [2]interface{}:
		err = f.AddPair(v[0], v[1])
	case []interface{}:
		if len(v) != 2 {
			err = fmt.Errorf("expected 2 values, got %d", len(v))
			break
		}
		err = f.AddPair(v[0], v[1])
	default:
		err = fmt.Errorf("unsupported row type %T", value)
	}
	if err != nil {
		logger.Debug("%s: ignoring row %v: %v", f.GetName(), value, err)
	}
}

// AddPair adds one row. A nil endpoint excludes the row without error.
func (f *MaxIntersectionsFunction) AddPair(left, right interface{}) error {
	l, r, err := cast.ToPairE(left, right)
	if errors.Is(err, cast.ErrNilValue) {
		return nil
	}
	if err != nil {
		return err
	}
	f.state.Accumulate(l, r)
	return nil
}

// AddConstant adds the same row count times
func (f *MaxIntersectionsFunction) AddConstant(left, right interface{}, count int) error {
	l, r, err := cast.ToPairE(left, right)
	if errors.Is(err, cast.ErrNilValue) {
		return nil
	}
	if err != nil {
		return err
	}
	f.state.ConstantAccumulate(l, r, count)
	return nil
}

// Merge moves the intervals of other into f. other is left empty.
func (f *MaxIntersectionsFunction) Merge(other AggregatorFunction) error {
	o, ok := other.(*MaxIntersectionsFunction)
	if !ok {
		return fmt.Errorf("cannot merge %T into %s", other, f.GetName())
	}
	if o == nil || o == f {
		return nil
	}
	f.state.Merge(o.state)
	return nil
}

// Result returns the maximum overlap as int64
func (f *MaxIntersectionsFunction) Result() interface{} {
	return f.state.Finalize()
}

// Len returns the number of intervals accumulated so far
func (f *MaxIntersectionsFunction) Len() int {
	return f.state.Len()
}

func (f *MaxIntersectionsFunction) Reset() {
	f.state.Destroy()
}

func (f *MaxIntersectionsFunction) Clone() AggregatorFunction {
	return &MaxIntersectionsFunction{
		BaseFunction: f.BaseFunction,
		state:        f.state.Clone(),
	}
}

// OrderDependent reports false: row arrival order never changes the result
func (f *MaxIntersectionsFunction) OrderDependent() bool {
	return false
}

// NullHandling reports that null rows are excluded, not coerced
func (f *MaxIntersectionsFunction) NullHandling() NullHandling {
	return NullHandlingSpecial
}

// toValues flattens a slice or array argument. Scalars come back as a
// one-element list.
func toValues(arg interface{}) ([]interface{}, bool) {
	if vs, ok := arg.([]interface{}); ok {
		return vs, true
	}
	if arg == nil {
		return []interface{}{nil}, false
	}
	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		// []byte is not a list of endpoints
		if rv.Type().Elem().Kind() == reflect.Uint8 && rv.Kind() == reflect.Slice {
			return []interface{}{arg}, false
		}
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return []interface{}{arg}, false
}
