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

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpc-stack/skopos/pkg/collector"
)

func TestRootCmdStructure(t *testing.T) {
	cmd := rootCmd()

	assert.Equal(t, "skopos", cmd.Name)
	assert.NotEmpty(t, cmd.Version)

	names := make([]string, 0, len(cmd.Commands))
	for _, sub := range cmd.Commands {
		names = append(names, sub.Name)
	}
	assert.Contains(t, names, "snapshot")
	assert.Contains(t, names, "daemon")
}

func TestSnapshotCmdStructure(t *testing.T) {
	cmd := snapshotCmd()

	assert.Equal(t, "snapshot", cmd.Name)
	require.NotNil(t, cmd.Action)

	flagNames := make([]string, 0, len(cmd.Flags))
	for _, f := range cmd.Flags {
		flagNames = append(flagNames, f.Names()[0])
	}
	assert.Contains(t, flagNames, "config")
	assert.Contains(t, flagNames, "output")
	assert.Contains(t, flagNames, "format")
	assert.Contains(t, flagNames, "timeout")
}

func TestDaemonCmdStructure(t *testing.T) {
	cmd := daemonCmd()

	assert.Equal(t, "daemon", cmd.Name)
	require.NotNil(t, cmd.Action)
}

func TestDriversRegistered(t *testing.T) {
	// The blank imports in root.go must register all four drivers.
	types := collector.Types()
	for _, typ := range []string{"pbs", "slurm", "hub", "kube"} {
		assert.Contains(t, types, typ)
	}
}
