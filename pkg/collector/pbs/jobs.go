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
	"strings"

	"github.com/hpc-stack/skopos/pkg/errors"
	"github.com/hpc-stack/skopos/pkg/stats"
)

// Job listing layout (qstat -a): banner and column header lines, a dash
// separator, then one row per job. Columns: job id, username, queue, job
// name, session id, nodes, tasks, memory, walltime, state, elapsed.
const (
	jobTableColumns = 11
	jobStateColumn  = 9
	jobUserColumn   = 1
)

// parseJobTable aggregates the job listing into job counts and the
// distinct submitting users. Empty output means an empty queue, not an
// error; non-empty output without the separator line is structural.
func parseJobTable(data []byte) (stats.JobStats, error) {
	js := stats.DefaultJobStats(nil)

	text := strings.TrimSpace(string(data))
	if text == "" {
		return js, nil
	}

	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if isSeparatorRow(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return js, errors.New(errors.ErrCodeInvalidInput, "job table missing separator row")
	}

	users := make(map[string]struct{})
	for _, line := range lines[start:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < jobTableColumns {
			slog.Warn("skipping malformed job row", "row", line, "reason", "too few columns")
			continue
		}

		users[fields[jobUserColumn]] = struct{}{}
		switch fields[jobStateColumn] {
		case "R", "E":
			js.Running++
		case "Q", "W", "T", "H":
			js.Pending++
		case "S":
			js.Suspended++
		}
	}

	js.ActiveUsers = len(users)
	return js, nil
}

// isSeparatorRow reports whether the line is the dashes-and-spaces rule
// between the column headers and the data rows.
func isSeparatorRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !strings.HasPrefix(trimmed, "-") {
		return false
	}
	for _, r := range trimmed {
		if r != '-' && r != ' ' {
			return false
		}
	}
	return true
}
