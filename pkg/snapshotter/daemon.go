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
	"time"

	sd "github.com/coreos/go-systemd/v22/daemon"
	"github.com/robfig/cron/v3"

	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/defaults"
	"github.com/hpc-stack/skopos/pkg/server"
	"github.com/hpc-stack/skopos/pkg/store"
)

// Daemon runs collection cycles on a cron schedule alongside the
// operational HTTP endpoint. It reports readiness to systemd and feeds
// the watchdog when one is configured for the unit.
type Daemon struct {
	cfg  *config.Config
	snap *Snapshotter
	srv  *server.Server
}

// NewDaemon wires a Snapshotter, store and operational server from the
// fleet configuration. Persistence and the HTTP endpoint are optional;
// each is enabled by its config section.
func NewDaemon(cfg *config.Config, version string) (*Daemon, error) {
	snap, err := New(cfg.Systems)
	if err != nil {
		return nil, err
	}

	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path, cfg.Store.Retention.Duration())
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		snap.Store = st
	}

	d := &Daemon{cfg: cfg, snap: snap}
	if cfg.Server.Address != "" {
		d.srv = server.New(server.NewConfig("skopos", version, cfg.Server.Address))
	}
	return d, nil
}

// Schedule returns the effective cron schedule.
func (d *Daemon) Schedule() string {
	if d.cfg.Schedule != "" {
		return d.cfg.Schedule
	}
	return "@every " + defaults.CycleInterval.String()
}

// Run blocks until the context is canceled. The first cycle runs
// immediately; subsequent cycles follow the schedule. Retention pruning
// runs on its own timer so cycle writes never pay a delete scan.
func (d *Daemon) Run(ctx context.Context) error {
	if d.snap.Store != nil {
		defer func() {
			if err := d.snap.Store.Close(); err != nil {
				slog.Warn("failed to close snapshot store", "error", err)
			}
		}()
	}

	if d.srv != nil {
		go func() {
			if err := d.srv.Start(ctx); err != nil {
				slog.Error("operational server failed", "error", err)
			}
		}()
	}

	schedule := d.Schedule()
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { d.cycle(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	if d.snap.Store != nil {
		if _, err := c.AddFunc("@every "+defaults.StorePruneInterval.String(), func() { d.prune(ctx) }); err != nil {
			return fmt.Errorf("failed to schedule retention pruning: %w", err)
		}
	}

	slog.Info("daemon starting",
		"schedule", schedule,
		"systems", d.snap.Systems(),
	)

	// First cycle runs before the schedule starts so a fresh daemon has
	// data immediately.
	d.cycle(ctx)

	c.Start()
	notifySystemd(ctx)

	<-ctx.Done()

	_, _ = sd.SdNotify(false, sd.SdNotifyStopping)
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(defaults.CycleTimeout):
		slog.Warn("timed out waiting for running cycle to finish")
	}

	slog.Info("daemon stopped")
	return nil
}

func (d *Daemon) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := d.snap.Run(ctx); err != nil {
		slog.Error("collection cycle failed", "error", err)
	}
}

func (d *Daemon) prune(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	deleted, err := d.snap.Store.Prune(ctx)
	if err != nil {
		slog.Error("retention pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("pruned expired snapshots", "deleted", deleted)
	}
}

// notifySystemd reports readiness and starts the watchdog feeder when
// the unit has WatchdogSec configured. Outside systemd both calls are
// no-ops.
func notifySystemd(ctx context.Context) {
	if ok, err := sd.SdNotify(false, sd.SdNotifyReady); err != nil {
		slog.Warn("failed to notify systemd readiness", "error", err)
	} else if ok {
		slog.Debug("systemd readiness notified")
	}

	interval, err := sd.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = sd.SdNotify(false, sd.SdNotifyWatchdog)
			}
		}
	}()
}
