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

package intervals

import "fmt"

// defaultCapacity is the initial capacity reserved by NewState
const defaultCapacity = 64

// Interval is an inclusive [Start, End] integer range
type Interval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Valid reports whether the interval can be stored (Start <= End)
func (iv Interval) Valid() bool {
	return iv.Start <= iv.End
}

// Contains reports whether p lies inside the interval, both ends included
func (iv Interval) Contains(p int64) bool {
	return iv.Start <= p && p <= iv.End
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d]", iv.Start, iv.End)
}

// State is a partial aggregation state: an owned, appendable multiset of
// valid intervals. The zero value is an empty state ready for use.
//
// A State must be mutated by one goroutine at a time. Parallel aggregation
// builds one State per worker and combines them with Merge.
type State struct {
	intervals []Interval
}

// NewState creates an empty state with a small pre-reserved capacity
func NewState() *State {
	return NewStateWithCapacity(defaultCapacity)
}

// NewStateWithCapacity creates an empty state able to hold n intervals
// without reallocating.
func NewStateWithCapacity(n int) *State {
	if n < 0 {
		n = 0
	}
	return &State{intervals: make([]Interval, 0, n)}
}

// Accumulate records the interval [left, right]. Invalid ranges
// (left > right) are dropped silently.
func (s *State) Accumulate(left, right int64) {
	if left > right {
		return
	}
	s.intervals = append(s.intervals, Interval{Start: left, End: right})
}

// ConstantAccumulate records [left, right] count times. It yields the same
// state as calling Accumulate count times, with a single allocation.
func (s *State) ConstantAccumulate(left, right int64, count int) {
	if left > right || count <= 0 {
		return
	}
	s.grow(count)
	iv := Interval{Start: left, End: right}
	for i := 0; i < count; i++ {
		s.intervals = append(s.intervals, iv)
	}
}

// AccumulateInterval records iv if it is valid
func (s *State) AccumulateInterval(iv Interval) {
	s.Accumulate(iv.Start, iv.End)
}

// Merge moves every interval of source into s. source is left empty and
// may be reused or discarded. Merging a state into itself is a no-op.
func (s *State) Merge(source *State) {
	if source == nil || source == s || len(source.intervals) == 0 {
		return
	}
	if len(s.intervals) == 0 && cap(s.intervals) < len(source.intervals) {
		// take over the source storage instead of copying
		s.intervals, source.intervals = source.intervals, nil
		return
	}
	s.grow(len(source.intervals))
	s.intervals = append(s.intervals, source.intervals...)
	source.intervals = nil
}

// Finalize returns the maximum number of stored intervals that cover a
// common point. The stored intervals are not modified.
func (s *State) Finalize() int64 {
	if s == nil {
		return 0
	}
	switch len(s.intervals) {
	case 0:
		return 0
	case 1:
		return 1
	}
	return sweep(s.intervals)
}

// Len returns the number of stored intervals
func (s *State) Len() int {
	if s == nil {
		return 0
	}
	return len(s.intervals)
}

// Intervals returns a copy of the stored intervals in insertion order
func (s *State) Intervals() []Interval {
	if s == nil || len(s.intervals) == 0 {
		return nil
	}
	out := make([]Interval, len(s.intervals))
	copy(out, s.intervals)
	return out
}

// Clone returns an independent deep copy of s
func (s *State) Clone() *State {
	if s == nil {
		return NewStateWithCapacity(0)
	}
	c := &State{intervals: make([]Interval, len(s.intervals))}
	copy(c.intervals, s.intervals)
	return c
}

// Reset empties the state and keeps its storage for reuse
func (s *State) Reset() {
	if s == nil {
		return
	}
	s.intervals = s.intervals[:0]
}

// Destroy releases the state's storage. Calling it twice, or on a state
// whose contents were merged away, is safe.
func (s *State) Destroy() {
	if s == nil {
		return
	}
	s.intervals = nil
}

func (s *State) grow(n int) {
	need := len(s.intervals) + n
	if need <= cap(s.intervals) {
		return
	}
	next := make([]Interval, len(s.intervals), need)
	copy(next, s.intervals)
	s.intervals = next
}
