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

package pbs

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/hpc-stack/skopos/pkg/errors"
	"github.com/hpc-stack/skopos/pkg/stats"
)

// Node table layout: two header rows, one dash separator row, then one
// row per node. Columns, in order: name, state, total jobs, running,
// suspended, memory "free/total" with unit suffixes, cpus "free/total",
// secondary accelerator "free/total" (consumed but not reported), gpus
// "free/total", and an optional trailing job-ID list. The job-ID list is
// free-form, so rows are split into at most nodeTableColumns fields and
// the remainder is kept verbatim. Reordering columns is a format change
// and requires a parser version bump.
const (
	nodeTableHeaderLines = 3
	nodeTableColumns     = 9
)

var (
	pairRe    = regexp.MustCompile(`^(\d+)/(\d+)$`)
	memPairRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)[a-zA-Z]*/(\d+(?:\.\d+)?)[a-zA-Z]*$`)
)

// parsePair parses a combined "free/total" resource field such as "2/34".
// Malformed input degrades that one metric to (0, 0), never to an error,
// so a single bad column costs a metric rather than the whole row.
func parsePair(s string) (free, total int) {
	m := pairRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0
	}
	free, _ = strconv.Atoi(m[1])
	total, _ = strconv.Atoi(m[2])
	return free, total
}

// parseMemPair parses a combined "free-unit/total-unit" memory field such
// as "194gb/354gb", stripping the unit suffixes. Non-match yields (0, 0).
func parseMemPair(s string) (free, total float64) {
	m := memPairRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0
	}
	free, _ = strconv.ParseFloat(m[1], 64)
	total, _ = strconv.ParseFloat(m[2], 64)
	return free, total
}

// splitBounded splits s on whitespace into at most n+1 fields: n
// tokenized columns plus the trimmed remainder, which may itself contain
// anything, including nothing.
func splitBounded(s string, n int) []string {
	fields := make([]string, 0, n+1)
	rest := strings.TrimSpace(s)
	for len(fields) < n && rest != "" {
		i := strings.IndexFunc(rest, isSpace)
		if i < 0 {
			fields = append(fields, rest)
			rest = ""
			break
		}
		fields = append(fields, rest[:i])
		rest = strings.TrimLeftFunc(rest[i:], isSpace)
	}
	if len(fields) == n && rest != "" {
		fields = append(fields, rest)
	}
	return fields
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// parseNodeTable converts the node status table into per-node records,
// input order preserved. Rows that cannot be split into the required
// column count, or whose count fields are not integers, are logged and
// skipped; they contribute nothing downstream. The only error returned
// is structural: input with fewer lines than the fixed header means the
// upstream format contract itself is broken.
func parseNodeTable(data []byte) ([]stats.NodeRecord, error) {
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) < nodeTableHeaderLines {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node table too short: missing header")
	}

	records := make([]stats.NodeRecord, 0, len(lines)-nodeTableHeaderLines)
	for _, line := range lines[nodeTableHeaderLines:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, ok := parseNodeRow(line)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseNodeRow(line string) (stats.NodeRecord, bool) {
	fields := splitBounded(line, nodeTableColumns)
	if len(fields) < nodeTableColumns {
		slog.Warn("skipping malformed node row", "row", line, "reason", "too few columns")
		return stats.NodeRecord{}, false
	}

	jobs, err1 := strconv.Atoi(fields[2])
	running, err2 := strconv.Atoi(fields[3])
	suspended, err3 := strconv.Atoi(fields[4])
	if err1 != nil || err2 != nil || err3 != nil {
		slog.Warn("skipping malformed node row", "row", line, "reason", "non-integer job counts")
		return stats.NodeRecord{}, false
	}

	memFree, memTotal := parseMemPair(fields[5])
	cpuFree, cpuTotal := parsePair(fields[6])
	// fields[7] is the secondary accelerator pair; validated by shape but
	// not reported.
	gpuFree, gpuTotal := parsePair(fields[8])

	rec := stats.NodeRecord{
		Name:          fields[0],
		State:         fields[1],
		JobsTotal:     jobs,
		JobsRunning:   running,
		JobsSuspended: suspended,
		MemoryFreeGB:  memFree,
		MemoryTotalGB: memTotal,
		CPUsFree:      cpuFree,
		CPUsTotal:     cpuTotal,
		GPUsFree:      gpuFree,
		GPUsTotal:     gpuTotal,
	}
	if len(fields) > nodeTableColumns {
		rec.JobIDs = fields[nodeTableColumns]
	}

	if rec.MemoryFreeGB > rec.MemoryTotalGB || rec.CPUsFree > rec.CPUsTotal || rec.GPUsFree > rec.GPUsTotal {
		slog.Warn("node reports more free than total capacity, used clamped to 0",
			"node", rec.Name, "row", line)
	}

	return rec, true
}
