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

import (
	"cmp"
	"slices"
)

// event is a boundary of one interval seen by the sweep.
//
// An interval [s, e] covers the half-open range [s, e+1). Instead of
// storing e+1, which overflows at math.MaxInt64, the end event stays at e
// and sorts after every start at the same position. Both orderings visit
// events in the same sequence whenever e+1 is representable.
type event struct {
	pos int64
	end bool
}

func compareEvents(a, b event) int {
	if c := cmp.Compare(a.pos, b.pos); c != 0 {
		return c
	}
	switch {
	case a.end == b.end:
		return 0
	case a.end:
		return 1
	default:
		return -1
	}
}

// buildEvents returns two events per interval, unsorted
func buildEvents(ivs []Interval) []event {
	events := make([]event, 0, 2*len(ivs))
	for _, iv := range ivs {
		events = append(events,
			event{pos: iv.Start},
			event{pos: iv.End, end: true},
		)
	}
	return events
}

// sweep computes the maximum overlap of ivs in O(k log k)
func sweep(ivs []Interval) int64 {
	events := buildEvents(ivs)
	slices.SortFunc(events, compareEvents)

	var current, peak int64
	for _, ev := range events {
		if ev.end {
			current--
			continue
		}
		current++
		if current > peak {
			peak = current
		}
	}
	return peak
}

// MaxOverlap accumulates ivs into a fresh state and finalizes it
func MaxOverlap(ivs ...Interval) int64 {
	s := NewStateWithCapacity(len(ivs))
	for _, iv := range ivs {
		s.AccumulateInterval(iv)
	}
	return s.Finalize()
}

// MergeAll combines states pairwise in a reduction tree and returns the
// root. Every input state is consumed. Nil entries are skipped; an empty
// input yields an empty state.
func MergeAll(states ...*State) *State {
	live := make([]*State, 0, len(states))
	for _, s := range states {
		if s != nil {
			live = append(live, s)
		}
	}
	if len(live) == 0 {
		return NewStateWithCapacity(0)
	}
	for len(live) > 1 {
		next := live[:0]
		for i := 0; i < len(live); i += 2 {
			if i+1 < len(live) {
				live[i].Merge(live[i+1])
			}
			next = append(next, live[i])
		}
		live = next
	}
	return live[0]
}
