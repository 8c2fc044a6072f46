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

package slurm

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/stats"
)

// sinfo groups nodes by (partition, state) when asked for a fixed field
// set, so each row is already an aggregate: node count, the A/I/O/T core
// quad, per-node gres and memory. Node identity is not available at this
// granularity; the per-node list stays empty for this driver.
const (
	sinfoFormat  = "%R|%a|%D|%T|%C|%G|%m|%e"
	sinfoColumns = 8
)

// occupancy is the bucket a (partition, state) group lands in.
type occupancy int

const (
	occOther occupancy = iota
	occFree
	occBusy
	occDown
	occReserved
)

// partitionRow is one sinfo group: N nodes of one partition in one state.
type partitionRow struct {
	Partition    string
	Avail        string
	Nodes        int
	State        string
	CoresAlloc   int
	CoresIdle    int
	CoresOther   int
	CoresTotal   int
	GPUsPerNode  int
	MemoryMB     float64
	FreeMemoryMB float64
}

// Bucket maps the group's state token to an occupancy bucket. Partition
// availability wins: a partition marked down is down regardless of what
// its nodes last reported. State suffixes ("*" for non-responding, "~"
// powered down, etc.) are stripped before matching.
func (r partitionRow) Bucket() occupancy {
	if strings.EqualFold(r.Avail, "down") {
		return occDown
	}
	switch strings.ToLower(strings.TrimRight(r.State, "*~#!%$@^-+")) {
	case "idle":
		return occFree
	case "allocated", "alloc", "mixed", "completing", "comp":
		return occBusy
	case "down", "drain", "draining", "drained", "fail", "failing", "error", "maint", "inval", "unknown":
		return occDown
	case "reserved", "resv":
		return occReserved
	default:
		return occOther
	}
}

// parseSinfo converts pipe-separated sinfo rows into partition groups,
// input order preserved. Empty input is a valid empty cluster. Rows with
// the wrong column count or non-numeric counts are logged and skipped.
func parseSinfo(data []byte) []partitionRow {
	rows := make([]partitionRow, 0, 8)
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, ok := parseSinfoRow(line)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func parseSinfoRow(line string) (partitionRow, bool) {
	fields := strings.Split(line, "|")
	if len(fields) != sinfoColumns {
		slog.Warn("skipping malformed sinfo row", "row", line, "reason", "wrong column count")
		return partitionRow{}, false
	}

	nodes, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		slog.Warn("skipping malformed sinfo row", "row", line, "reason", "non-integer node count")
		return partitionRow{}, false
	}

	alloc, idle, other, total, ok := parseCoreQuad(strings.TrimSpace(fields[4]))
	if !ok {
		slog.Warn("skipping malformed sinfo row", "row", line, "reason", "malformed core quad")
		return partitionRow{}, false
	}

	return partitionRow{
		Partition:    strings.TrimSuffix(strings.TrimSpace(fields[0]), "*"),
		Avail:        strings.TrimSpace(fields[1]),
		Nodes:        nodes,
		State:        strings.TrimSpace(fields[3]),
		CoresAlloc:   alloc,
		CoresIdle:    idle,
		CoresOther:   other,
		CoresTotal:   total,
		GPUsPerNode:  parseGres(strings.TrimSpace(fields[5])),
		MemoryMB:     parseMemField(strings.TrimSpace(fields[6])),
		FreeMemoryMB: parseMemField(strings.TrimSpace(fields[7])),
	}, true
}

// parseCoreQuad parses the "allocated/idle/other/total" core field.
func parseCoreQuad(s string) (alloc, idle, other, total int, ok bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return 0, 0, 0, 0, false
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, 0, false
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], vals[3], true
}

// parseGres extracts the per-node GPU count from a gres field such as
// "gpu:4", "gpu:a100:4" or "gpu:a100:4(S:0-1)". "(null)" and non-gpu
// gres yield 0; a malformed gpu entry degrades to 0, never to a row skip.
func parseGres(s string) int {
	if s == "" || s == "(null)" {
		return 0
	}
	count := 0
	for _, entry := range strings.Split(s, ",") {
		if !strings.HasPrefix(entry, "gpu") {
			continue
		}
		parts := strings.Split(entry, ":")
		last := parts[len(parts)-1]
		if i := strings.IndexByte(last, '('); i >= 0 {
			last = last[:i]
		}
		n, err := strconv.Atoi(last)
		if err != nil {
			continue
		}
		count += n
	}
	return count
}

// parseMemField parses a megabyte field that may carry a "+" suffix or a
// "low-high" range; ranges collapse to their lower bound. Non-numeric
// input ("N/A" on nodes that never reported) degrades to 0.
func parseMemField(s string) float64 {
	s = strings.TrimSuffix(s, "+")
	if i := strings.IndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// buildNodeStats merges sinfo groups into per-partition sums. Configured
// partitions come first, in configured order, matched by exact partition
// name; scheduler partitions nobody configured are appended in first-seen
// order so the snapshot never hides capacity. GPUs and memory are
// per-node figures scaled by the group's node count; free GPUs are
// credited from idle groups only.
func buildNodeStats(sys *config.System, rows []partitionRow) stats.NodeStats {
	index := make(map[string]int)
	parts := make([]stats.PartitionStats, 0, len(sys.Partitions))
	if len(sys.Partitions) > 0 {
		for _, name := range sys.PartitionNames() {
			index[name] = len(parts)
			parts = append(parts, stats.PartitionStats{Name: name})
		}
	}

	for _, row := range rows {
		i, ok := index[row.Partition]
		if !ok {
			i = len(parts)
			index[row.Partition] = i
			parts = append(parts, stats.PartitionStats{Name: row.Partition})
		}
		p := &parts[i]

		p.NodesTotal += row.Nodes
		bucket := row.Bucket()
		switch bucket {
		case occFree:
			p.NodesFree += row.Nodes
		case occBusy:
			p.NodesBusy += row.Nodes
		case occDown:
			p.NodesDown += row.Nodes
		case occReserved:
			p.NodesReserved += row.Nodes
		}

		p.CoresTotal += row.CoresTotal
		p.CoresFree += row.CoresIdle
		p.GPUsTotal += row.GPUsPerNode * row.Nodes
		if bucket == occFree {
			p.GPUsFree += row.GPUsPerNode * row.Nodes
		}
		p.MemoryTotalGB += row.MemoryMB * float64(row.Nodes) / 1024
		p.MemoryFreeGB += row.FreeMemoryMB * float64(row.Nodes) / 1024
	}

	for i := range parts {
		parts[i].Finalize()
	}

	return stats.NodeStats{
		Partitions: parts,
		Nodes:      make([]stats.NodeRecord, 0),
	}
}
