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

package stats

import (
	"math"
	"strings"
)

// Category represents one independently collected slice of a system's status.
type Category string

// String returns the string representation of the Category.
func (c Category) String() string {
	return string(c)
}

const (
	CategoryNodes        Category = "nodes"
	CategoryJobs         Category = "jobs"
	CategoryLogins       Category = "logins"
	CategoryFilesystems  Category = "filesystems"
	CategoryReservations Category = "reservations"
)

// Categories is the list of all supported collection categories.
var Categories = []Category{
	CategoryNodes,
	CategoryJobs,
	CategoryLogins,
	CategoryFilesystems,
	CategoryReservations,
}

// ParseCategory parses a string into a Category.
// Returns the Category and true if parsing succeeds, or empty Category and false otherwise.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Node state tokens with dedicated occupancy buckets. Free and busy must
// match exactly; down is matched as a case-insensitive substring because
// schedulers emit many down variants ("down", "down,offline", "Down").
const (
	NodeStateFree     = "free"
	NodeStateBusy     = "job-busy"
	NodeStateReserved = "reserved"

	nodeStateDownSubstr = "down"
)

// NodeRecord is one compute node's state and capacity at one collection instant.
// State is the raw scheduler token; JobIDs is an opaque scheduler-specific string.
type NodeRecord struct {
	Name          string  `json:"name" yaml:"name"`
	State         string  `json:"state" yaml:"state"`
	JobsTotal     int     `json:"jobs_total" yaml:"jobs_total"`
	JobsRunning   int     `json:"jobs_running" yaml:"jobs_running"`
	JobsSuspended int     `json:"jobs_suspended" yaml:"jobs_suspended"`
	MemoryFreeGB  float64 `json:"memory_free_gb" yaml:"memory_free_gb"`
	MemoryTotalGB float64 `json:"memory_total_gb" yaml:"memory_total_gb"`
	CPUsFree      int     `json:"cpus_free" yaml:"cpus_free"`
	CPUsTotal     int     `json:"cpus_total" yaml:"cpus_total"`
	GPUsFree      int     `json:"gpus_free" yaml:"gpus_free"`
	GPUsTotal     int     `json:"gpus_total" yaml:"gpus_total"`
	JobIDs        string  `json:"job_ids,omitempty" yaml:"job_ids,omitempty"`
}

// MemoryUsedGB returns total minus free memory, capped at 0.
func (r NodeRecord) MemoryUsedGB() float64 {
	if used := r.MemoryTotalGB - r.MemoryFreeGB; used > 0 {
		return used
	}
	return 0
}

// CPUsUsed returns total minus free CPUs, capped at 0.
func (r NodeRecord) CPUsUsed() int {
	if used := r.CPUsTotal - r.CPUsFree; used > 0 {
		return used
	}
	return 0
}

// GPUsUsed returns total minus free GPUs, capped at 0.
func (r NodeRecord) GPUsUsed() int {
	if used := r.GPUsTotal - r.GPUsFree; used > 0 {
		return used
	}
	return 0
}

// IsDown reports whether the node's state token indicates any down variant.
func (r NodeRecord) IsDown() bool {
	return strings.Contains(strings.ToLower(r.State), nodeStateDownSubstr)
}

// PartitionStats holds summed node counts and capacity for one partition.
// Utilization percentages are filled in by Finalize after all nodes are added.
type PartitionStats struct {
	Name          string  `json:"name" yaml:"name"`
	NodesTotal    int     `json:"nodes_total" yaml:"nodes_total"`
	NodesFree     int     `json:"nodes_free" yaml:"nodes_free"`
	NodesBusy     int     `json:"nodes_busy" yaml:"nodes_busy"`
	NodesDown     int     `json:"nodes_down" yaml:"nodes_down"`
	NodesReserved int     `json:"nodes_reserved" yaml:"nodes_reserved"`
	CoresTotal    int     `json:"cores_total" yaml:"cores_total"`
	CoresFree     int     `json:"cores_free" yaml:"cores_free"`
	GPUsTotal     int     `json:"gpus_total" yaml:"gpus_total"`
	GPUsFree      int     `json:"gpus_free" yaml:"gpus_free"`
	MemoryTotalGB float64 `json:"memory_total_gb" yaml:"memory_total_gb"`
	MemoryFreeGB  float64 `json:"memory_free_gb" yaml:"memory_free_gb"`
	NodeUtilPct   float64 `json:"node_util_pct" yaml:"node_util_pct"`
	CoreUtilPct   float64 `json:"core_util_pct" yaml:"core_util_pct"`
	GPUUtilPct    float64 `json:"gpu_util_pct" yaml:"gpu_util_pct"`
	MemoryUtilPct float64 `json:"memory_util_pct" yaml:"memory_util_pct"`
}

// Add accumulates one node record into the partition totals.
// Occupancy bucketing: exact "free" counts as free, exact "job-busy" as busy,
// any state containing "down" (case-insensitive) as down, exact "reserved" as
// reserved. Every other state counts toward the total only — unknown scheduler
// states must not be mistaken for healthy capacity.
func (p *PartitionStats) Add(r NodeRecord) {
	p.NodesTotal++
	switch {
	case r.State == NodeStateFree:
		p.NodesFree++
	case r.State == NodeStateBusy:
		p.NodesBusy++
	case r.IsDown():
		p.NodesDown++
	case r.State == NodeStateReserved:
		p.NodesReserved++
	}

	p.CoresTotal += r.CPUsTotal
	p.CoresFree += r.CPUsFree
	p.GPUsTotal += r.GPUsTotal
	p.GPUsFree += r.GPUsFree
	p.MemoryTotalGB += r.MemoryTotalGB
	p.MemoryFreeGB += r.MemoryFreeGB
}

// Finalize computes the utilization percentages from the accumulated totals.
// Call once, after the last Add.
func (p *PartitionStats) Finalize() {
	p.NodeUtilPct = UtilPercent(float64(p.NodesFree), float64(p.NodesTotal))
	p.CoreUtilPct = UtilPercent(float64(p.CoresFree), float64(p.CoresTotal))
	p.GPUUtilPct = UtilPercent(float64(p.GPUsFree), float64(p.GPUsTotal))
	p.MemoryUtilPct = UtilPercent(p.MemoryFreeGB, p.MemoryTotalGB)
}

// UtilPercent returns used capacity as a percentage of total, rounded to
// 2 decimal places. Returns exactly 0 when total is 0.
func UtilPercent(free, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return Round2((total - free) / total * 100)
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
