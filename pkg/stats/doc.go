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

// Package stats defines the statistics schema shared by every system driver:
// per-node records, per-category aggregates, and the timestamped Snapshot
// handed to persistence once per collection cycle.
//
// # Core Types
//
//   - Category: enum identifying one independently collected slice of a
//     system's status (nodes, jobs, logins, filesystems, reservations)
//   - NodeRecord: one compute node's state and capacity at one instant
//   - PartitionStats: summed node counts and capacity for one partition
//   - Snapshot: the complete per-system record for one cycle
//
// # Schema Stability
//
// Dashboards and retention cleanup depend on every field being present in
// every snapshot, so category structs are plain fixed-field structs without
// omitempty, and each category has a Default constructor used on the
// collection failure path. A system that was unreachable for a whole cycle
// still produces a snapshot; it is simply all zeros.
//
// # Derived Values
//
// Used capacity and utilization percentages are always recomputed, never
// stored independently:
//
//	used  = total - free           (capped at 0)
//	util% = (total-free)/total*100 (0 when total is 0, rounded to 2 decimals)
package stats
