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
	"strings"

	"github.com/hpc-stack/skopos/pkg/stats"
)

// Reservation listing layout (pbs_rstat -f): one block per reservation,
// opened by a "Resv ID: <name>" line, followed by "attr = value" lines.
// Attribute values are passed through opaquely; only the node list is
// interpreted, and only to count its "+"-separated chunks.
const resvIDPrefix = "Resv ID:"

// parseReservations converts the reservation listing into reservation
// records and their aggregate counts. Empty output means no reservations.
// Unrecognized lines are ignored, so new scheduler attributes cannot
// break the parse.
func parseReservations(data []byte) stats.ReservationStats {
	rs := stats.DefaultReservationStats()

	var cur *stats.Reservation
	flush := func() {
		if cur == nil {
			return
		}
		rs.Reservations = append(rs.Reservations, *cur)
		rs.Count++
		rs.NodesReserved += cur.NodeCount
		cur = nil
	}

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, resvIDPrefix) {
			flush()
			cur = &stats.Reservation{Name: strings.TrimSpace(strings.TrimPrefix(trimmed, resvIDPrefix))}
			continue
		}
		if cur == nil {
			continue
		}

		attr, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			continue
		}
		attr = strings.TrimSpace(attr)
		value = strings.TrimSpace(value)

		switch attr {
		case "Resv_Owner":
			cur.Owner = value
		case "queue":
			cur.Queue = value
		case "reserve_state":
			cur.State = value
		case "reserve_start":
			cur.Start = value
		case "reserve_end":
			cur.End = value
		case "resv_nodes":
			cur.NodeCount = countNodeChunks(value)
		}
	}
	flush()

	return rs
}

// countNodeChunks counts node specs in a "(node1:...)+(node2:...)" list.
func countNodeChunks(spec string) int {
	if strings.TrimSpace(spec) == "" {
		return 0
	}
	return strings.Count(spec, "+") + 1
}
