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

package snapshotter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hpc-stack/skopos/pkg/collector"
	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/defaults"
	"github.com/hpc-stack/skopos/pkg/serializer"
	"github.com/hpc-stack/skopos/pkg/stats"
	"github.com/hpc-stack/skopos/pkg/store"
)

// Snapshotter runs collection cycles across all configured systems.
// It coordinates the system drivers in parallel, stamps their snapshots
// with a shared timestamp and cycle ID, and hands the results to the
// optional store and serializer.
type Snapshotter struct {
	// Store persists cycle snapshots. If nil, snapshots are not persisted.
	Store store.Store

	// Serializer receives the full snapshot slice of each cycle.
	// If nil, snapshots are not serialized.
	Serializer serializer.Serializer

	// CycleTimeout bounds one cycle. If zero, defaults.CycleTimeout is used.
	CycleTimeout time.Duration

	collectors []collector.Collector
}

// New builds a Snapshotter with one driver per configured system.
// An unknown system type or a driver that cannot be constructed
// (e.g. unreadable kubeconfig) fails fast here, not mid-cycle.
func New(systems []config.System) (*Snapshotter, error) {
	collectors := make([]collector.Collector, 0, len(systems))
	for _, sys := range systems {
		c, err := collector.New(sys)
		if err != nil {
			return nil, fmt.Errorf("failed to build collector for system %s: %w", sys.Name, err)
		}
		collectors = append(collectors, c)
	}
	return &Snapshotter{collectors: collectors}, nil
}

// Systems returns the names of the configured systems in cycle order.
func (s *Snapshotter) Systems() []string {
	names := make([]string, len(s.collectors))
	for i, c := range s.collectors {
		names[i] = c.Name()
	}
	return names
}

// Run executes one collection cycle and returns the snapshots in
// configured system order. Every snapshot of the cycle carries the same
// timestamp and cycle ID. Driver failures never fail the cycle; they
// surface as defaulted categories inside the snapshots. Store write
// failures are logged and counted but do not fail the cycle either.
// The returned error comes from serialization only.
func (s *Snapshotter) Run(ctx context.Context) ([]*stats.Snapshot, error) {
	timeout := s.CycleTimeout
	if timeout == 0 {
		timeout = defaults.CycleTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		cycleDuration.Observe(time.Since(start).Seconds())
	}()

	cycleID := uuid.New().String()
	stamp := time.Now().UTC()

	slog.Debug("starting collection cycle",
		"cycle_id", cycleID,
		"systems", len(s.collectors),
	)

	var mu sync.Mutex
	snaps := make([]*stats.Snapshot, len(s.collectors))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range s.collectors {
		g.Go(func() error {
			systemStart := time.Now()
			defer func() {
				systemDuration.WithLabelValues(c.Name()).Observe(time.Since(systemStart).Seconds())
			}()

			snap := c.Collect(gctx)
			snap.Timestamp = stamp
			snap.CycleID = cycleID

			mu.Lock()
			snaps[i] = snap
			mu.Unlock()
			return nil
		})
	}

	// Collect never errors, so Wait only synchronizes the fan-out.
	_ = g.Wait()

	persisted := s.persist(ctx, snaps)

	slog.Info("collection cycle complete",
		"cycle_id", cycleID,
		"systems", len(snaps),
		"persisted", persisted,
		"duration", time.Since(start).String(),
	)

	if s.Serializer != nil {
		if err := s.Serializer.Serialize(ctx, snaps); err != nil {
			cyclesTotal.WithLabelValues("error").Inc()
			return snaps, fmt.Errorf("failed to serialize snapshots: %w", err)
		}
	}

	cyclesTotal.WithLabelValues("success").Inc()
	return snaps, nil
}

// persist writes the cycle's snapshots to the store. Failures are
// per-snapshot: one bad write does not block the rest.
func (s *Snapshotter) persist(ctx context.Context, snaps []*stats.Snapshot) int {
	if s.Store == nil {
		return 0
	}

	persisted := 0
	for _, snap := range snaps {
		if snap == nil {
			continue
		}
		if err := s.Store.Save(ctx, snap); err != nil {
			storeErrors.Inc()
			slog.Error("failed to persist snapshot",
				"system", snap.System,
				"cycle_id", snap.CycleID,
				"error", err,
			)
			continue
		}
		snapshotsPersisted.Inc()
		persisted++
	}
	return persisted
}
