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

package progress

import (
	"testing"
	"time"

	"github.com/quantrix/quantrace/internal/engine/model"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      float64
	}{
		{"zero total", 0, 0, 0},
		{"negative total", 3, -1, 0},
		{"none done", 0, 18, 0},
		{"twelve of eighteen", 12, 18, 66.7},
		{"one third", 1, 3, 33.3},
		{"two thirds", 2, 3, 66.7},
		{"all done", 18, 18, 100},
		{"half", 9, 18, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.completed, tt.total); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

// The execution percentage must be the flat task ratio, not the mean of the
// per-step percentages. One finished small step next to one untouched big
// step would read 50% as a mean; the ratio says 9.1%.
func TestComputeFlatRatio(t *testing.T) {
	now := time.Now()
	e := &model.Execution{
		Status:         model.StatusRunning,
		TotalTasks:     11,
		CompletedTasks: 1,
		Steps: model.Steps{
			{Name: "small", Status: model.StatusSuccess, StartedAt: &now, CompletedUnits: 1, TotalUnits: 1},
			{Name: "big", Status: model.StatusRunning, StartedAt: &now, CompletedUnits: 0, TotalUnits: 10},
		},
	}
	snap := Compute(e)
	if snap.Percentage != 9.1 {
		t.Errorf("Percentage = %v, want 9.1", snap.Percentage)
	}
	if len(snap.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(snap.Steps))
	}
	if snap.Steps[0].Percentage != 100 {
		t.Errorf("small step percentage = %v, want 100", snap.Steps[0].Percentage)
	}
	if snap.Steps[1].Percentage != 0 {
		t.Errorf("big step percentage = %v, want 0", snap.Steps[1].Percentage)
	}
}

func TestComputeHundredPercentWhileRunning(t *testing.T) {
	e := &model.Execution{
		Status:         model.StatusRunning,
		TotalTasks:     18,
		CompletedTasks: 18,
	}
	if got := Compute(e).Percentage; got != 100 {
		t.Errorf("Percentage = %v, want 100", got)
	}
}

func TestCurrentOperationPicksLatestRunning(t *testing.T) {
	earlier := time.Now().Add(-time.Minute)
	later := time.Now()
	e := &model.Execution{
		Status: model.StatusRunning,
		Steps: model.Steps{
			{Name: "fetch_data", Status: model.StatusRunning, StartedAt: &earlier},
			{Name: "train_model", Status: model.StatusRunning, StartedAt: &later},
		},
	}
	if got := Compute(e).CurrentOperation; got != "train_model" {
		t.Errorf("CurrentOperation = %q, want %q", got, "train_model")
	}
}

// When every step has finished, the label keeps the execution's last known
// operation instead of going blank.
func TestCurrentOperationSticky(t *testing.T) {
	now := time.Now()
	e := &model.Execution{
		Status:           model.StatusRunning,
		CurrentOperation: "train_model",
		Steps: model.Steps{
			{Name: "fetch_data", Status: model.StatusSuccess, StartedAt: &now, EndedAt: &now},
			{Name: "train_model", Status: model.StatusSuccess, StartedAt: &now, EndedAt: &now},
		},
	}
	if got := Compute(e).CurrentOperation; got != "train_model" {
		t.Errorf("CurrentOperation = %q, want sticky %q", got, "train_model")
	}
}

func TestCurrentOperationEmptyExecution(t *testing.T) {
	e := &model.Execution{Status: model.StatusPending}
	snap := Compute(e)
	if snap.CurrentOperation != "" {
		t.Errorf("CurrentOperation = %q, want empty", snap.CurrentOperation)
	}
	if snap.Percentage != 0 {
		t.Errorf("Percentage = %v, want 0", snap.Percentage)
	}
}
