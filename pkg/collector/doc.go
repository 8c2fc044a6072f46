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

// Package collector defines the per-system driver contract and the
// category isolation helper shared by all drivers.
//
// # Core interface
//
// Each monitored system is served by one Collector:
//
//	type Collector interface {
//	    Name() string
//	    Collect(ctx context.Context) *stats.Snapshot
//	}
//
// Collect never returns an error and never lets a panic escape: every
// collection category (nodes, jobs, logins, filesystems, reservations)
// runs inside Guard, which converts a failure into that category's
// zeroed default and a log entry. A completely unreachable system still
// yields a fully defaulted snapshot, so downstream consumers always have
// a record to reason about.
//
// # Driver registration
//
// Driver packages register a Builder for their system type in init():
//
//	func init() {
//	    collector.MustRegister(config.TypePBS, func(sys config.System) (collector.Collector, error) {
//	        return New(sys)
//	    })
//	}
//
// New builds the driver for a configured system by looking up its type.
// Importing a driver package (usually from the CLI) makes its type
// available to the fleet file.
package collector
