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

package collector

import (
	"log/slog"

	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/stats"
)

// AggregateNodes sums per-node records into the system's configured
// partitions and returns the complete node category. Partition matchers
// are applied in configured order, first match wins; unmatched nodes go
// to the catch-all partition when one is flagged. With no partitions
// configured every node lands in the implicit "all" partition.
//
// Aggregation is a single summation pass; utilization percentages are
// computed once at the end, after the last node is added.
func AggregateNodes(sys *config.System, records []stats.NodeRecord) stats.NodeStats {
	names := sys.PartitionNames()
	parts := make([]stats.PartitionStats, len(names))
	for i, name := range names {
		parts[i] = stats.PartitionStats{Name: name}
	}

	catchAll := -1
	if len(sys.Partitions) == 0 {
		catchAll = 0
	} else {
		for i := range sys.Partitions {
			if sys.Partitions[i].CatchAll {
				catchAll = i
			}
		}
	}

	for _, rec := range records {
		target := catchAll
		for i := range sys.Partitions {
			if sys.Partitions[i].Matches(rec.Name) {
				target = i
				break
			}
		}
		if target < 0 {
			// Matches no partition and no catch-all is flagged: the node
			// still appears in the per-node list but is invisible to the
			// partition aggregates.
			slog.Debug("node matches no configured partition", "system", sys.Name, "node", rec.Name)
			continue
		}
		parts[target].Add(rec)
	}

	for i := range parts {
		parts[i].Finalize()
	}

	return stats.NodeStats{
		Partitions: parts,
		Nodes:      records,
	}
}
