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

package analysis

import (
	"testing"

	"github.com/quantrix/quantrace/internal/engine/model"
)

func TestDefaultCatalogSize(t *testing.T) {
	c := NewCatalog(Config{})
	if got := c.Size(); got != 18 {
		t.Errorf("Size() = %d, want 18 (6 timeframes x 3 strategies)", got)
	}
	if got := len(c.Patterns()); got != 18 {
		t.Errorf("len(Patterns()) = %d, want 18", got)
	}
}

func TestCustomCatalog(t *testing.T) {
	c := NewCatalog(Config{
		Timeframes: []string{"1h", "1d"},
		Strategies: []string{"momentum"},
	})
	if got := c.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}
	want := []model.PatternKey{
		{Timeframe: "1h", Strategy: "momentum"},
		{Timeframe: "1d", Strategy: "momentum"},
	}
	got := c.Patterns()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Patterns()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCatalogContains(t *testing.T) {
	c := NewCatalog(Config{})
	if !c.Contains(model.PatternKey{Timeframe: "1h", Strategy: "momentum"}) {
		t.Error("Contains(1h:momentum) = false, want true")
	}
	if c.Contains(model.PatternKey{Timeframe: "3h", Strategy: "momentum"}) {
		t.Error("Contains(3h:momentum) = true, want false")
	}
	if c.Contains(model.PatternKey{Timeframe: "1h", Strategy: "scalping"}) {
		t.Error("Contains(1h:scalping) = true, want false")
	}
}
