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
Package condition filters rows before they reach an interval aggregate.

Conditions are boolean expr-lang programs compiled once and evaluated per
row. Every function in the functions registry is callable, plus
like_match(text, pattern) for SQL LIKE matching with % and _ wildcards.

	cond, err := condition.NewExprCondition("room == 'A' && end - start < 3600000")
	if err != nil {
		return err
	}
	if cond.Evaluate(row) {
		// accumulate row
	}

Unknown variables evaluate to nil, and a program that fails at runtime
evaluates to false so a single malformed row never aborts an aggregation.
*/
package condition
