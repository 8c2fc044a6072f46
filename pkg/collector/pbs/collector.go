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

// Package pbs drives status collection for PBS/Torque-family systems:
// the node status table, the job listing, reservations, filesystem
// usage, and a login-node fan-out.
package pbs

import (
	"context"
	"time"

	"github.com/hpc-stack/skopos/pkg/collector"
	"github.com/hpc-stack/skopos/pkg/collector/unix"
	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/defaults"
	"github.com/hpc-stack/skopos/pkg/remote"
	"github.com/hpc-stack/skopos/pkg/stats"
)

func init() {
	collector.MustRegister(config.TypePBS, func(sys config.System) (collector.Collector, error) {
		return New(sys), nil
	})
}

// Collector is the PBS-family system driver.
type Collector struct {
	sys     config.System
	runner  remote.Runner
	dial    func(host string) remote.Runner
	timeout time.Duration
}

// New returns a driver for one configured PBS system. Scheduler commands
// run against sys.Host; login probes dial each login node directly,
// pacing all launches through one shared limiter.
func New(sys config.System) *Collector {
	limiter := remote.NewLimiter()
	return &Collector{
		sys:    sys,
		runner: remote.Dial(sys.Host, remote.WithLimiter(limiter)),
		dial: func(host string) remote.Runner {
			return remote.Dial(host, remote.WithLimiter(limiter))
		},
		timeout: sys.ExecTimeout.Duration(),
	}
}

// Name implements collector.Collector.
func (c *Collector) Name() string {
	return c.sys.Name
}

// Collect implements collector.Collector. Every category runs inside its
// own guard; the snapshot always carries the full category set.
func (c *Collector) Collect(ctx context.Context) *stats.Snapshot {
	snap := &stats.Snapshot{System: c.sys.Name}

	snap.Nodes = collector.Guard(c.sys.Name, stats.CategoryNodes,
		func() (stats.NodeStats, error) { return c.collectNodes(ctx) },
		func() stats.NodeStats { return stats.DefaultNodeStats(c.sys.PartitionNames()) })

	snap.Jobs = collector.Guard(c.sys.Name, stats.CategoryJobs,
		func() (stats.JobStats, error) { return c.collectJobs(ctx) },
		func() stats.JobStats { return stats.DefaultJobStats(nil) })

	snap.Logins = collector.Guard(c.sys.Name, stats.CategoryLogins,
		func() (stats.LoginStats, error) { return c.collectLogins(ctx) },
		func() stats.LoginStats { return stats.DefaultLoginStats(c.sys.LoginNodes) })

	snap.Filesystems = collector.Guard(c.sys.Name, stats.CategoryFilesystems,
		func() (stats.FilesystemStats, error) { return c.collectFilesystems(ctx) },
		stats.DefaultFilesystemStats)

	snap.Reservations = collector.Guard(c.sys.Name, stats.CategoryReservations,
		func() (stats.ReservationStats, error) { return c.collectReservations(ctx) },
		stats.DefaultReservationStats)

	return snap
}

func (c *Collector) collectNodes(ctx context.Context) (stats.NodeStats, error) {
	out, err := c.runner.Run(ctx, c.timeout, "pbsnodes")
	if err != nil {
		return stats.NodeStats{}, err
	}
	records, err := parseNodeTable(out)
	if err != nil {
		return stats.NodeStats{}, err
	}
	return collector.AggregateNodes(&c.sys, records), nil
}

func (c *Collector) collectJobs(ctx context.Context) (stats.JobStats, error) {
	out, err := c.runner.Run(ctx, c.timeout, "qstat", "-a")
	if err != nil {
		return stats.JobStats{}, err
	}
	return parseJobTable(out)
}

func (c *Collector) collectLogins(ctx context.Context) (stats.LoginStats, error) {
	if len(c.sys.LoginNodes) == 0 {
		return stats.DefaultLoginStats(nil), nil
	}
	return unix.CollectLogins(ctx, c.sys.LoginNodes, c.sys.Workers, defaults.ExecProbeTimeout, c.dial), nil
}

func (c *Collector) collectFilesystems(ctx context.Context) (stats.FilesystemStats, error) {
	if len(c.sys.Filesystems) == 0 {
		return stats.DefaultFilesystemStats(), nil
	}
	return unix.CollectFilesystems(ctx, c.runner, c.timeout, c.sys.Filesystems)
}

func (c *Collector) collectReservations(ctx context.Context) (stats.ReservationStats, error) {
	out, err := c.runner.Run(ctx, c.timeout, "pbs_rstat", "-f")
	if err != nil {
		return stats.ReservationStats{}, err
	}
	return parseReservations(out), nil
}
