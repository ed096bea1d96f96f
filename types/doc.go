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
Package types provides the configuration structures for interval aggregation.

Config describes which fields form an interval, how rows are grouped and
filtered, and how batches are spread over worker goroutines. It is plain
JSON-serializable data:

	{
		"groupFields": ["host"],
		"fields": [{"leftField": "start", "rightField": "end", "outputAlias": "peak"}],
		"where": "status == 'ok'",
		"having": "peak > 10",
		"performanceConfig": {"workerConfig": {"parallelism": 8}}
	}

Use NewConfig or ParseConfig to start from the defaults and Validate before
building an engine.
*/
package types
