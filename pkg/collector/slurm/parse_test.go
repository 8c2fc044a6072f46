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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpc-stack/skopos/pkg/config"
)

func TestParseGres(t *testing.T) {
	tests := map[string]int{
		"":                      0,
		"(null)":                0,
		"gpu:4":                 4,
		"gpu:a100:4":            4,
		"gpu:a100:4(S:0-1)":     4,
		"gpu:2,mps:200":         2,
		"gpu:v100:2,gpu:a100:4": 6,
		"mic:2":                 0,
		"gpu:oops":              0,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseGres(in), "gres %q", in)
	}
}

func TestParseCoreQuad(t *testing.T) {
	a, i, o, total, ok := parseCoreQuad("272/408/0/680")
	require.True(t, ok)
	assert.Equal(t, [4]int{272, 408, 0, 680}, [4]int{a, i, o, total})

	for _, bad := range []string{"", "1/2/3", "1/2/3/4/5", "a/b/c/d"} {
		_, _, _, _, ok := parseCoreQuad(bad)
		assert.False(t, ok, "quad %q", bad)
	}
}

func TestParseMemField(t *testing.T) {
	tests := map[string]float64{
		"192000":        192000,
		"150000+":       150000,
		"150000-190000": 150000,
		"N/A":           0,
		"":              0,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseMemField(in), "mem %q", in)
	}
}

func TestRowBucket(t *testing.T) {
	tests := []struct {
		avail, state string
		want         occupancy
	}{
		{"up", "idle", occFree},
		{"up", "idle~", occFree},
		{"up", "allocated", occBusy},
		{"up", "mixed", occBusy},
		{"up", "down*", occDown},
		{"up", "drained", occDown},
		{"up", "reserved", occReserved},
		{"up", "planned", occOther},
		{"down", "idle", occDown},
	}
	for _, tt := range tests {
		row := partitionRow{Avail: tt.avail, State: tt.state}
		assert.Equal(t, tt.want, row.Bucket(), "avail=%s state=%s", tt.avail, tt.state)
	}
}

func TestParseSinfoMalformedRows(t *testing.T) {
	input := "cpu|up|2|idle|0/136/0/136|(null)|192000|185000\n" +
		"short|row\n" +
		"cpu|up|x|idle|0/68/0/68|(null)|192000|185000\n" +
		"cpu|up|1|idle|broken|(null)|192000|185000\n"

	rows := parseSinfo([]byte(input))
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Nodes)
}

func TestParseSinfoEmpty(t *testing.T) {
	assert.Empty(t, parseSinfo(nil))
	assert.Empty(t, parseSinfo([]byte("\n\n")))
}

func TestBuildNodeStats(t *testing.T) {
	data, err := os.ReadFile("testdata/sinfo.txt")
	require.NoError(t, err)
	rows := parseSinfo(data)
	require.Len(t, rows, 6)

	sys := &config.System{
		Name: "lise",
		Partitions: []config.Partition{
			{Name: "cpu"},
			{Name: "gpu"},
		},
	}
	ns := buildNodeStats(sys, rows)

	// Configured partitions first, unconfigured scheduler partitions after.
	require.Len(t, ns.Partitions, 3)
	cpu, gpu, vis := ns.Partitions[0], ns.Partitions[1], ns.Partitions[2]
	assert.Equal(t, "cpu", cpu.Name)
	assert.Equal(t, "gpu", gpu.Name)
	assert.Equal(t, "vis", vis.Name)

	assert.Equal(t, 15, cpu.NodesTotal)
	assert.Equal(t, 10, cpu.NodesFree)
	assert.Equal(t, 4, cpu.NodesBusy)
	assert.Equal(t, 1, cpu.NodesDown)
	assert.Equal(t, 1020, cpu.CoresTotal)
	assert.Equal(t, 680, cpu.CoresFree)
	assert.InDelta(t, 33.33, cpu.CoreUtilPct, 0.001)
	assert.InDelta(t, 2812.5, cpu.MemoryTotalGB, 0.01)

	assert.Equal(t, 3, gpu.NodesTotal)
	assert.Equal(t, 12, gpu.GPUsTotal)
	assert.Equal(t, 8, gpu.GPUsFree, "free GPUs credited from idle groups only")
	assert.InDelta(t, 33.33, gpu.GPUUtilPct, 0.001)

	assert.Equal(t, 1, vis.NodesDown, "partition availability down overrides node state")
	assert.Zero(t, vis.NodesFree)

	assert.NotNil(t, ns.Nodes)
	assert.Empty(t, ns.Nodes, "grouped rows carry no node identity")
}

func TestBuildNodeStatsNoConfiguredPartitions(t *testing.T) {
	rows := []partitionRow{
		{Partition: "batch", Avail: "up", Nodes: 2, State: "idle", CoresIdle: 8, CoresTotal: 8},
	}
	ns := buildNodeStats(&config.System{Name: "s"}, rows)
	require.Len(t, ns.Partitions, 1)
	assert.Equal(t, "batch", ns.Partitions[0].Name)
	assert.Equal(t, 2, ns.Partitions[0].NodesFree)
}
