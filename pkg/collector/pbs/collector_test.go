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
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/errors"
	"github.com/hpc-stack/skopos/pkg/remote"
)

// mockRunner serves canned output per command name.
type mockRunner struct {
	outputs map[string][]byte
	errs    map[string]error
}

func (m *mockRunner) Target() string { return "mock" }

func (m *mockRunner) Run(_ context.Context, _ time.Duration, name string, _ ...string) ([]byte, error) {
	if err, ok := m.errs[name]; ok {
		return nil, err
	}
	return m.outputs[name], nil
}

func testSystem(t *testing.T) config.System {
	t.Helper()
	cfg, err := config.Parse([]byte(`
systems:
  - name: curta
    type: pbs
    partitions:
      - name: cpu
        prefix: crhtc
        catch_all: true
      - name: gpu
        prefix: crgpu
      - name: vis
        prefix: crvis
`))
	require.NoError(t, err)
	return cfg.Systems[0]
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func newTestCollector(t *testing.T, runner remote.Runner) *Collector {
	sys := testSystem(t)
	c := New(sys)
	c.runner = runner
	return c
}

func TestCollect(t *testing.T) {
	runner := &mockRunner{outputs: map[string][]byte{
		"pbsnodes":  mustRead(t, "testdata/pbsnodes.txt"),
		"qstat":     mustRead(t, "testdata/qstat.txt"),
		"pbs_rstat": mustRead(t, "testdata/pbs_rstat.txt"),
	}}

	snap := newTestCollector(t, runner).Collect(context.Background())

	assert.Equal(t, "curta", snap.System)

	require.Len(t, snap.Nodes.Partitions, 3)
	cpu, gpu, vis := snap.Nodes.Partitions[0], snap.Nodes.Partitions[1], snap.Nodes.Partitions[2]

	assert.Equal(t, 2, cpu.NodesTotal)
	assert.Equal(t, 1, cpu.NodesFree)
	assert.Equal(t, 1, cpu.NodesBusy)
	assert.Equal(t, 68, cpu.CoresTotal)
	assert.Equal(t, 2, cpu.CoresFree)

	assert.Equal(t, 3, gpu.NodesTotal)
	assert.Equal(t, 1, gpu.NodesFree)
	assert.Equal(t, 1, gpu.NodesBusy)
	assert.Equal(t, 1, gpu.NodesDown, "down,offline counts as down by substring")
	assert.Equal(t, 12, gpu.GPUsTotal)
	assert.Equal(t, 4, gpu.GPUsFree)

	assert.Equal(t, 1, vis.NodesTotal)
	assert.Equal(t, 1, vis.NodesReserved)

	// Utilization honors the divide-by-zero rule and 2-decimal rounding.
	assert.InDelta(t, 66.67, gpu.GPUUtilPct, 0.001)
	assert.Zero(t, cpu.GPUUtilPct, "no GPUs in the cpu partition means 0, not NaN")

	assert.Len(t, snap.Nodes.Nodes, 6)
	assert.Equal(t, 2, snap.Jobs.Running)
	assert.Equal(t, 2, snap.Reservations.Count)

	// Unconfigured categories still carry their full zeroed shape.
	assert.NotNil(t, snap.Logins.Nodes)
	assert.NotNil(t, snap.Filesystems.Filesystems)
}

func TestCollectCategoryIsolation(t *testing.T) {
	runner := &mockRunner{
		outputs: map[string][]byte{
			"pbsnodes":  mustRead(t, "testdata/pbsnodes.txt"),
			"pbs_rstat": {},
		},
		errs: map[string]error{
			"qstat": errors.New(errors.ErrCodeExecFailed, "qstat: cannot connect to server"),
		},
	}

	snap := newTestCollector(t, runner).Collect(context.Background())

	// Node category unaffected by the job category failure.
	assert.Equal(t, 6, len(snap.Nodes.Nodes))

	// Job category is its default: full key set, zeroed values.
	assert.Zero(t, snap.Jobs.Running)
	assert.Zero(t, snap.Jobs.ActiveUsers)
	assert.NotNil(t, snap.Jobs.SessionsByResource)
}

func TestCollectTotalFailure(t *testing.T) {
	runner := &mockRunner{errs: map[string]error{
		"pbsnodes":  errors.New(errors.ErrCodeTimeout, "timed out"),
		"qstat":     errors.New(errors.ErrCodeTimeout, "timed out"),
		"pbs_rstat": errors.New(errors.ErrCodeTimeout, "timed out"),
	}}

	snap := newTestCollector(t, runner).Collect(context.Background())

	// An unreachable system still yields a complete, defaulted snapshot.
	require.Len(t, snap.Nodes.Partitions, 3)
	assert.Equal(t, "cpu", snap.Nodes.Partitions[0].Name)
	assert.Zero(t, snap.Nodes.Partitions[0].NodesTotal)
	assert.Empty(t, snap.Nodes.Nodes)
	assert.Zero(t, snap.Jobs.Running)
	assert.Zero(t, snap.Reservations.Count)
}
