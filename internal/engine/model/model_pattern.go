// Copyright 2025 Quantrace Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"database/sql/driver"
	"encoding/json"
	"sort"
	"strings"
)

// Timeframe is a candle interval, e.g. "1h".
type Timeframe string

// Strategy is an analysis strategy name, e.g. "momentum".
type Strategy string

// PatternKey identifies one (timeframe, strategy) combination of the work set.
type PatternKey struct {
	Timeframe Timeframe `json:"timeframe"`
	Strategy  Strategy  `json:"strategy"`
}

// String renders the key as "<timeframe>:<strategy>".
func (k PatternKey) String() string {
	return string(k.Timeframe) + ":" + string(k.Strategy)
}

// ParsePatternKey parses "<timeframe>:<strategy>". ok is false when s does
// not have exactly two non-empty segments.
func ParsePatternKey(s string) (PatternKey, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return PatternKey{}, false
	}
	return PatternKey{Timeframe: Timeframe(parts[0]), Strategy: Strategy(parts[1])}, true
}

// PatternState is the completion state of one pattern.
type PatternState struct {
	Completed bool `json:"completed"`
	Running   bool `json:"running"`
}

// PatternSet tracks per-pattern progress. Marking a pattern complete is a
// set-union so duplicate completion signals converge to the same state.
type PatternSet map[PatternKey]PatternState

// NewPatternSet builds an all-incomplete set over keys.
func NewPatternSet(keys []PatternKey) PatternSet {
	set := make(PatternSet, len(keys))
	for _, k := range keys {
		set[k] = PatternState{}
	}
	return set
}

// MarkRunning flags the pattern as in flight. Unknown keys are ignored.
func (p PatternSet) MarkRunning(key PatternKey) {
	state, ok := p[key]
	if !ok || state.Completed {
		return
	}
	state.Running = true
	p[key] = state
}

// MarkCompleted records completion. Returns true when the state changed, so
// duplicate delivery never inflates counters.
func (p PatternSet) MarkCompleted(key PatternKey) bool {
	state, ok := p[key]
	if !ok || state.Completed {
		return false
	}
	p[key] = PatternState{Completed: true}
	return true
}

// CompletedCount returns the number of completed patterns.
func (p PatternSet) CompletedCount() int {
	n := 0
	for _, state := range p {
		if state.Completed {
			n++
		}
	}
	return n
}

// Incomplete returns the keys not yet completed, in stable order.
func (p PatternSet) Incomplete() []PatternKey {
	keys := make([]PatternKey, 0)
	for k, state := range p {
		if !state.Completed {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Clone returns an independent copy of the set.
func (p PatternSet) Clone() PatternSet {
	out := make(PatternSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the set as a string-keyed object.
func (p PatternSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]PatternState, len(p))
	for k, v := range p {
		m[k.String()] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the string-keyed object form.
func (p *PatternSet) UnmarshalJSON(data []byte) error {
	var m map[string]PatternState
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	set := make(PatternSet, len(m))
	for s, state := range m {
		key, ok := ParsePatternKey(s)
		if !ok {
			continue
		}
		set[key] = state
	}
	*p = set
	return nil
}

// Value implements driver.Valuer.
func (p PatternSet) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (p *PatternSet) Scan(value any) error {
	return scanJSON(value, p, func() { *p = PatternSet{} })
}
