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
Package intervals implements the max_intersections aggregate core: the
maximum number of inclusive integer intervals that overlap at any single
point.

The state follows the usual partial aggregation lifecycle:

	s := intervals.NewState()         // one per worker / partition
	s.Accumulate(1, 3)                 // left > right is dropped
	s.ConstantAccumulate(2, 5, 100)    // same as 100 Accumulate calls
	root.Merge(s)                      // s is consumed
	n := root.Finalize()               // 0 when empty, 1 for one interval
	root.Destroy()

# Semantics

Intervals are inclusive on both ends, so [1, 5] and [5, 10] overlap at 5
while [1, 5] and [6, 10] do not. Identical intervals are never
deduplicated; each occurrence counts.

Finalize sorts 2k boundary events and sweeps them once, O(k log k) time and
O(k) extra space. The result does not depend on accumulation order, merge
order or how intervals were partitioned across states.

Intervals ending at math.MaxInt64 are handled without overflow.

# Concurrency

A State has a single writer. Build independent states in parallel and
combine them with Merge or MergeAll from one goroutine.
*/
package intervals
