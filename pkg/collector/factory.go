// Copyright (c) 2025, The Skopos Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package collector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/stats"
)

// Collector produces one snapshot per collection cycle for one system.
type Collector interface {
	// Name identifies the system in snapshots, logs and metrics.
	Name() string

	// Collect gathers all categories the system supports. It never
	// returns an error: failed categories carry their zeroed defaults
	// and are reported through logs and metrics instead.
	Collect(ctx context.Context) *stats.Snapshot
}

// Builder creates a driver for one configured system.
// Used for driver registration via init() functions.
type Builder func(sys config.System) (Collector, error)

// Global builder registry. Driver packages register themselves in init().
var (
	buildersMu sync.RWMutex
	builders   = make(map[string]Builder)
)

// Register registers a driver builder for a system type.
// Returns an error if the type is already registered.
func Register(systemType string, b Builder) error {
	buildersMu.Lock()
	defer buildersMu.Unlock()

	if _, exists := builders[systemType]; exists {
		return fmt.Errorf("collector type %s already registered", systemType)
	}
	builders[systemType] = b
	return nil
}

// MustRegister is Register for init() functions; it panics on error.
func MustRegister(systemType string, b Builder) {
	if err := Register(systemType, b); err != nil {
		panic(err)
	}
}

// New builds the driver for a configured system by its type.
func New(sys config.System) (Collector, error) {
	buildersMu.RLock()
	b, ok := builders[sys.Type]
	buildersMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no collector registered for system type %q (is the driver package imported?)", sys.Type)
	}
	return b(sys)
}

// Types returns the registered system types, sorted.
func Types() []string {
	buildersMu.RLock()
	defer buildersMu.RUnlock()

	types := make([]string, 0, len(builders))
	for t := range builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
