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

// Package progress turns nested completion counts into a single percentage
// and a current-operation label. Computation is pure; nothing here touches
// the store.
package progress

import (
	"math"

	"github.com/quantrix/quantrace/internal/engine/model"
)

// StepProgress is the per-step view rendered independently of the
// execution-level ratio.
type StepProgress struct {
	Name       string                `json:"name"`
	Status     model.ExecutionStatus `json:"status"`
	Percentage float64               `json:"percentage"`
	Completed  int                   `json:"completed"`
	Total      int                   `json:"total"`
}

// Snapshot is the aggregated progress view of one execution.
type Snapshot struct {
	Percentage       float64        `json:"percentage"`
	CurrentOperation string         `json:"current_operation"`
	Steps            []StepProgress `json:"steps,omitempty"`
}

// Percentage computes round(100*completed/total, 1). A zero total yields 0,
// not an error: a PENDING execution has no work set yet.
func Percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(1000*float64(completed)/float64(total)) / 10
}

// Compute aggregates an execution into a Snapshot.
//
// The execution-level percentage is always the flat completedTasks/totalTasks
// ratio, never an average of per-step percentages; steps have unequal weight
// and a mean would bias the total. 100% while still RUNNING is legal: the
// terminal transition is an explicit signal, never inferred from counts.
func Compute(e *model.Execution) Snapshot {
	snap := Snapshot{
		Percentage:       Percentage(e.CompletedTasks, e.TotalTasks),
		CurrentOperation: currentOperation(e),
	}
	for _, step := range e.Steps {
		snap.Steps = append(snap.Steps, StepProgress{
			Name:       step.Name,
			Status:     step.Status,
			Percentage: Percentage(step.CompletedUnits, step.TotalUnits),
			Completed:  step.CompletedUnits,
			Total:      step.TotalUnits,
		})
	}
	return snap
}

// currentOperation picks the most recently started non-terminal step. When
// none is running it keeps the execution's last known label, so the view
// never regresses to "unknown" while work continues.
func currentOperation(e *model.Execution) string {
	var current *model.Step
	for i := range e.Steps {
		step := &e.Steps[i]
		if step.Status.IsTerminal() || step.StartedAt == nil {
			continue
		}
		if current == nil || step.StartedAt.After(*current.StartedAt) {
			current = step
		}
	}
	if current != nil {
		return current.Name
	}
	return e.CurrentOperation
}
