/*
 * Copyright 2025 The RuleGo Authors.
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

/*
Package functions provides the function registry used by aggregations and
filter expressions.

Functions are registered by name (case-insensitive) and fall into three
categories: aggregation, math and custom. Aggregate functions additionally
implement AggregatorFunction for incremental computation; those that can
combine partial states implement MergeableAggregator, and two-argument
aggregates implement BinaryAggregator.

# Built-in Functions

	max_intersections(left, right)
	    Maximum number of closed intervals [left, right] overlapping at any
	    point. Null rows are skipped, rows with left > right are dropped,
	    an empty input yields 0. Order independent and mergeable.

# Custom Functions

	err := functions.RegisterCustomFunction("span_len", functions.TypeMath, "math",
		"length of a closed interval", 2, 2,
		func(ctx *functions.FunctionContext, args []interface{}) (interface{}, error) {
			l, r, err := cast.ToPairE(args[0], args[1])
			if err != nil {
				return nil, err
			}
			return r - l + 1, nil
		})

Every registered function is callable inside condition expressions through
ExprOptions, e.g. `max_intersections(starts, ends) >= 3`.
*/
package functions
