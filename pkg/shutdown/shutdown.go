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

// Package shutdown coordinates ordered teardown of application components.
package shutdown

import (
	"context"
	"sync"

	"github.com/google/wire"

	"github.com/quantrix/quantrace/pkg/log"
)

// ProviderSet is the Wire provider set for the shutdown package.
var ProviderSet = wire.NewSet(NewManager)

// Hook is one named teardown step.
type Hook struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Manager runs registered hooks in reverse registration order, so components
// shut down before their dependencies.
type Manager struct {
	mu    sync.Mutex
	hooks []Hook
	done  bool
}

// NewManager creates an empty shutdown manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a teardown hook. Registration after Shutdown is ignored.
func (m *Manager) Register(name string, fn func(ctx context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return
	}
	m.hooks = append(m.hooks, Hook{Name: name, Fn: fn})
}

// Shutdown runs all hooks in reverse order. Hook failures are logged and do
// not stop the remaining hooks.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return
	}
	m.done = true
	hooks := make([]Hook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		log.Infow("shutting down", "component", h.Name)
		if err := h.Fn(ctx); err != nil {
			log.Errorw("shutdown hook failed", "component", h.Name, "error", err)
		}
	}
}
