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
Package aggregator groups rows and computes interval aggregates per group.

A GroupAggregator reads a left and a right endpoint from every row, groups
rows by the configured group fields and feeds each group's mergeable
aggregate (max_intersections by default). Rows may be map[string]interface{},
any string-keyed map, or structs; dotted paths such as "span.start" reach
into nested values.

# Row Handling

	nil endpoint          row skipped, counted as null
	left > right          interval dropped, counted as invalid
	missing group field   ErrFieldNotFound
	nil group value       ErrNilGroupValue
	unconvertible value   error naming the fields

A failed row leaves no trace in any group.

# Partial States

Each worker fills its own partial obtained from NewPartial; partials are
combined with Merge in any order and grouping:

	proto, _ := aggregator.NewGroupAggregator([]string{"host"}, []aggregator.AggregationField{
		{LeftField: "start", RightField: "end", OutputAlias: "peak"},
	})
	merged, err := aggregator.ParallelAggregate(ctx, proto, rows, 8)
	results, _ := merged.GetResults()

ParallelAggregate splits rows into contiguous chunks on an errgroup and
merges the partials pairwise.
*/
package aggregator
