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
	"strings"

	"github.com/hpc-stack/skopos/pkg/stats"
)

const squeueFormat = "%u|%T"

// parseSqueue aggregates "user|STATE" rows into job counts. COMPLETING
// still occupies resources and counts as running; CONFIGURING is queued
// work and counts as pending. Terminal states, should they appear, count
// toward nothing. Distinct users across counted rows become ActiveUsers.
// Rows without exactly two fields are logged and skipped.
func parseSqueue(data []byte) stats.JobStats {
	js := stats.DefaultJobStats(nil)
	users := make(map[string]struct{})

	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) != 2 {
			slog.Warn("skipping malformed squeue row", "row", line, "reason", "wrong column count")
			continue
		}
		user := strings.TrimSpace(fields[0])

		switch strings.ToUpper(strings.TrimSpace(fields[1])) {
		case "RUNNING", "COMPLETING":
			js.Running++
		case "PENDING", "CONFIGURING":
			js.Pending++
		case "SUSPENDED":
			js.Suspended++
		default:
			continue
		}
		if user != "" {
			users[user] = struct{}{}
		}
	}

	js.ActiveUsers = len(users)
	return js
}
