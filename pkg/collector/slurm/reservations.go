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
	"strconv"
	"strings"

	"github.com/hpc-stack/skopos/pkg/stats"
)

// parseReservations converts "scontrol show reservation" output into
// reservation records. Each record is a block of space-separated
// key=value tokens, possibly wrapped across indented lines, starting at
// a ReservationName token. "No reservations in the system" and empty
// output both mean zero reservations. Unknown keys are ignored.
func parseReservations(data []byte) stats.ReservationStats {
	rs := stats.DefaultReservationStats()

	var cur *stats.Reservation
	flush := func() {
		if cur != nil {
			rs.Reservations = append(rs.Reservations, *cur)
			rs.NodesReserved += cur.NodeCount
			cur = nil
		}
	}

	for _, line := range strings.Split(string(data), "\n") {
		for _, tok := range strings.Fields(line) {
			key, value, ok := strings.Cut(tok, "=")
			if !ok {
				continue
			}
			if key == "ReservationName" {
				flush()
				cur = &stats.Reservation{Name: value}
				continue
			}
			if cur == nil {
				continue
			}
			switch key {
			case "StartTime":
				cur.Start = value
			case "EndTime":
				cur.End = value
			case "State":
				cur.State = value
			case "Users":
				cur.Owner = nullToEmpty(value)
			case "PartitionName":
				cur.Queue = nullToEmpty(value)
			case "NodeCnt":
				if n, err := strconv.Atoi(value); err == nil {
					cur.NodeCount = n
				}
			}
		}
	}
	flush()

	rs.Count = len(rs.Reservations)
	return rs
}

func nullToEmpty(s string) string {
	if s == "(null)" {
		return ""
	}
	return s
}
