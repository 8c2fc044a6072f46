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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/stats"
)

type nopCollector struct{ name string }

func (c *nopCollector) Name() string                            { return c.name }
func (c *nopCollector) Collect(_ context.Context) *stats.Snapshot { return &stats.Snapshot{System: c.name} }

func TestRegisterAndNew(t *testing.T) {
	require.NoError(t, Register("test-registry", func(sys config.System) (Collector, error) {
		return &nopCollector{name: sys.Name}, nil
	}))

	c, err := New(config.System{Name: "frontier", Type: "test-registry"})
	require.NoError(t, err)
	assert.Equal(t, "frontier", c.Name())
}

func TestRegisterDuplicate(t *testing.T) {
	require.NoError(t, Register("test-duplicate", func(config.System) (Collector, error) {
		return nil, nil
	}))

	err := Register("test-duplicate", func(config.System) (Collector, error) {
		return nil, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(config.System{Name: "frontier", Type: "no-such-driver"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-driver")
}

func TestTypesSorted(t *testing.T) {
	types := Types()
	for i := 1; i < len(types); i++ {
		assert.LessOrEqual(t, types[i-1], types[i])
	}
}
