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

package watch

import (
	"context"
	"sync"
	"time"

	"github.com/quantrix/quantrace/pkg/log"
)

// StatusFetcher fetches the current status of an execution. Implementations
// return an error for transient transport failures; the session retries
// those against the attempt budget.
type StatusFetcher interface {
	Fetch(ctx context.Context, executionID string) (*Status, error)
}

// PollSession watches one execution. Sessions are independent values with
// their own lifecycle: any number may run concurrently, each cleanly
// stoppable, with no shared globals.
type PollSession struct {
	executionID string
	fetcher     StatusFetcher
	conf        Config

	onUpdate func(*Status) // optional progress callback

	mu      sync.Mutex
	state   State
	stopped bool

	done chan Result
}

// NewSession creates an idle session in WATCHING state.
func NewSession(executionID string, fetcher StatusFetcher, conf Config, onUpdate func(*Status)) *PollSession {
	conf.SetDefaults()
	return &PollSession{
		executionID: executionID,
		fetcher:     fetcher,
		conf:        conf,
		onUpdate:    onUpdate,
		state:       StateWatching,
		done:        make(chan Result, 1),
	}
}

// State returns the session's current local state.
func (s *PollSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done delivers exactly one terminal Result.
func (s *PollSession) Done() <-chan Result {
	return s.done
}

// Stop requests cooperative cancellation. The loop checks the flag at its
// next wake-up; an in-flight fetch is never aborted.
func (s *PollSession) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

func (s *PollSession) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Run polls until a terminal status, the attempt budget, cancellation via
// Stop, or ctx expiry. It blocks; callers wanting a background watcher run
// it on their own goroutine.
func (s *PollSession) Run(ctx context.Context) {
	ticker := time.NewTicker(s.conf.Interval)
	defer ticker.Stop()

	var last *Status
	attempts := 0

	// First fetch happens immediately; the ticker paces the rest.
	for {
		if s.isStopped() {
			s.finish(StateStoppedCancelledByUser, "watch cancelled by user", last)
			return
		}

		attempts++
		status, err := s.fetcher.Fetch(ctx, s.executionID)
		if err != nil {
			// Transient fetch failure: consumed an attempt, same interval,
			// no backoff. The execution itself is not failed by this.
			log.Debugw("status fetch failed, will retry",
				"execution_id", s.executionID,
				"attempt", attempts,
				"error", err,
			)
		} else {
			last = status
			if s.onUpdate != nil {
				s.onUpdate(status)
			}
			switch status.Status {
			case "SUCCESS":
				s.finish(StateStoppedSuccess, "execution completed", last)
				return
			case "FAILED":
				s.finish(StateStoppedFailed, failureMessage(status), last)
				return
			case "CANCELLED":
				s.finish(StateStoppedFailed, "execution cancelled", last)
				return
			}
		}

		if attempts >= s.conf.MaxAttempts {
			s.finish(StateStoppedTimeout, "could not confirm outcome, check logs", last)
			return
		}

		select {
		case <-ctx.Done():
			s.finish(StateStoppedCancelledByUser, "watch context cancelled", last)
			return
		case <-ticker.C:
		}
	}
}

// finish records the terminal state and delivers the single Result.
func (s *PollSession) finish(state State, message string, last *Status) {
	s.mu.Lock()
	if s.state != StateWatching {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.mu.Unlock()

	s.done <- Result{State: state, Message: message, Final: last}
	close(s.done)
}

func failureMessage(status *Status) string {
	if status.LastError != "" {
		return "execution failed: " + status.LastError
	}
	return "execution failed"
}
