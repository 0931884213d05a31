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

// Package cron wraps robfig/cron for background maintenance jobs.
package cron

import (
	robfig "github.com/robfig/cron"

	"github.com/quantrix/quantrace/pkg/log"
)

// Scheduler runs named jobs on cron schedules.
type Scheduler struct {
	c *robfig.Cron
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{c: robfig.New()}
}

// Add registers fn on the given cron spec. Panics inside fn are contained by
// the job wrapper.
func (s *Scheduler) Add(spec, name string, fn func()) error {
	err := s.c.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("cron job panic recovered", "job", name, "panic", r)
			}
		}()
		fn()
	})
	if err != nil {
		return err
	}
	log.Infow("cron job registered", "job", name, "spec", spec)
	return nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop halts the scheduler. Running jobs are not interrupted.
func (s *Scheduler) Stop() {
	s.c.Stop()
}
