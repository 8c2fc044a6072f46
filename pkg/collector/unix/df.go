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

package unix

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hpc-stack/skopos/pkg/remote"
	"github.com/hpc-stack/skopos/pkg/stats"
)

// df -P: one header line, then one row per filesystem with exactly six
// columns; the mount point is last and may contain spaces, so rows are
// split into at most five tokens plus remainder.
const dfColumns = 5

// CollectFilesystems runs df -P for the configured mount points and
// aggregates the usage rows.
func CollectFilesystems(ctx context.Context, runner remote.Runner, timeout time.Duration, mounts []string) (stats.FilesystemStats, error) {
	args := append([]string{"-P"}, mounts...)
	out, err := runner.Run(ctx, timeout, "df", args...)
	if err != nil {
		return stats.FilesystemStats{}, err
	}
	return ParseDF(out), nil
}

// ParseDF parses POSIX df -P output. Malformed rows are logged and
// skipped; header-only or empty input yields the zeroed category.
func ParseDF(data []byte) stats.FilesystemStats {
	fs := stats.DefaultFilesystemStats()

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) < 2 {
		return fs
	}

	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		usage, ok := parseDFRow(line)
		if !ok {
			continue
		}
		fs.Filesystems = append(fs.Filesystems, usage)
		fs.TotalKB += usage.SizeKB
		fs.UsedKB += usage.UsedKB
	}
	return fs
}

func parseDFRow(line string) (stats.FilesystemUsage, bool) {
	fields := splitBounded(line, dfColumns)
	if len(fields) < dfColumns+1 {
		slog.Warn("skipping malformed df row", "row", line, "reason", "too few columns")
		return stats.FilesystemUsage{}, false
	}

	size, err1 := strconv.ParseUint(fields[1], 10, 64)
	used, err2 := strconv.ParseUint(fields[2], 10, 64)
	avail, err3 := strconv.ParseUint(fields[3], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		slog.Warn("skipping malformed df row", "row", line, "reason", "non-integer block counts")
		return stats.FilesystemUsage{}, false
	}

	pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[4], "%"), 64)
	if err != nil {
		pct = 0
	}

	return stats.FilesystemUsage{
		Name:       fields[0],
		MountPoint: fields[5],
		SizeKB:     size,
		UsedKB:     used,
		AvailKB:    avail,
		UsePct:     pct,
	}, true
}

// splitBounded splits s on whitespace into at most n tokens plus the
// trimmed remainder.
func splitBounded(s string, n int) []string {
	fields := make([]string, 0, n+1)
	rest := strings.TrimSpace(s)
	for len(fields) < n && rest != "" {
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			fields = append(fields, rest)
			rest = ""
			break
		}
		fields = append(fields, rest[:i])
		rest = strings.TrimLeft(rest[i:], " \t")
	}
	if len(fields) == n && rest != "" {
		fields = append(fields, rest)
	}
	return fields
}
