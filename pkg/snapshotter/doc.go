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

// Package snapshotter orchestrates collection cycles across configured
// systems. One cycle fans out to every system driver in parallel, stamps
// the results with a shared timestamp and cycle ID, and hands the
// snapshots to the store and serializer.
//
// Drivers never fail a cycle: a broken system produces a snapshot of
// category defaults, reported through logs and Prometheus metrics. The
// Daemon wraps Run in a cron schedule with an operational HTTP endpoint,
// systemd readiness notification and retention pruning.
package snapshotter
