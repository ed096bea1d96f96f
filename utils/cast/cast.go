/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cast"
)

// ErrNilValue is returned when a nil value is converted to a number
var ErrNilValue = errors.New("nil value")

// ToInt64E converts an interval endpoint to int64.
// time.Time is converted to Unix milliseconds, time.Duration to nanoseconds.
// Floats must be integral and in range; everything else goes through spf13/cast.
func ToInt64E(v interface{}) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, ErrNilValue
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case time.Time:
		return x.UnixMilli(), nil
	case *time.Time:
		if x == nil {
			return 0, ErrNilValue
		}
		return x.UnixMilli(), nil
	case time.Duration:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("unable to cast %d of type uint64 to int64: out of range", x)
		}
		return int64(x), nil
	case float64:
		return floatToInt64(x)
	case float32:
		return floatToInt64(float64(x))
	}
	return cast.ToInt64E(v)
}

// ToInt64 is ToInt64E ignoring the error
func ToInt64(v interface{}) int64 {
	n, _ := ToInt64E(v)
	return n
}

// ToPairE converts a (left, right) pair. Either side being nil yields
// ErrNilValue so callers can skip the row.
func ToPairE(left, right interface{}) (int64, int64, error) {
	if left == nil || right == nil {
		return 0, 0, ErrNilValue
	}
	l, err := ToInt64E(left)
	if err != nil {
		return 0, 0, fmt.Errorf("left: %w", err)
	}
	r, err := ToInt64E(right)
	if err != nil {
		return 0, 0, fmt.Errorf("right: %w", err)
	}
	return l, r, nil
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("unable to cast %v to int64: not an integer", f)
	}
	// float64(math.MaxInt64) rounds up to 2^63
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("unable to cast %v to int64: out of range", f)
	}
	return int64(f), nil
}
