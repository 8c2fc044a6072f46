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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpc-stack/skopos/pkg/errors"
	"github.com/hpc-stack/skopos/pkg/remote"
)

type hostRunner struct {
	host string
	out  []byte
	err  error
}

func (r *hostRunner) Target() string { return r.host }

func (r *hostRunner) Run(context.Context, time.Duration, string, ...string) ([]byte, error) {
	return r.out, r.err
}

func TestParseUptime(t *testing.T) {
	tests := map[string]struct {
		in     string
		load1  float64
		load15 float64
		users  int
	}{
		"linux": {
			in:     " 10:24:01 up 42 days,  1:02,  3 users,  load average: 0.12, 0.20, 0.18",
			load1:  0.12, load15: 0.18, users: 3,
		},
		"bsd singular": {
			in:    "10:24 up 1 day, 1 user, load averages: 1.50 1.20 1.00",
			load1: 1.50, load15: 1.00, users: 1,
		},
		"garbage": {in: "no load here"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			node := parseUptime("h", []byte(tt.in))
			assert.True(t, node.Up, "a host that answered is up")
			assert.Equal(t, tt.load1, node.Load1)
			assert.Equal(t, tt.load15, node.Load15)
			assert.Equal(t, tt.users, node.Users)
		})
	}
}

func TestCollectLogins(t *testing.T) {
	runners := map[string]*hostRunner{
		"login1": {host: "login1", out: []byte(" 10:00:00 up 1 day, 2 users, load average: 0.50, 0.40, 0.30")},
		"login2": {host: "login2", err: errors.New(errors.ErrCodeTimeout, "ssh timed out")},
		"login3": {host: "login3", out: []byte(" 10:00:00 up 9 days, 7 users, load average: 2.00, 1.00, 0.50")},
	}
	dial := func(host string) remote.Runner { return runners[host] }

	ls := CollectLogins(context.Background(), []string{"login1", "login2", "login3"}, 2, time.Second, dial)

	assert.Equal(t, 3, ls.NodesTotal)
	assert.Equal(t, 2, ls.NodesUp)
	require.Len(t, ls.Nodes, 3)

	// Configured order, not completion order.
	assert.Equal(t, "login1", ls.Nodes[0].Host)
	assert.Equal(t, "login2", ls.Nodes[1].Host)
	assert.Equal(t, "login3", ls.Nodes[2].Host)

	assert.True(t, ls.Nodes[0].Up)
	assert.Equal(t, 0.5, ls.Nodes[0].Load1)
	assert.False(t, ls.Nodes[1].Up, "the failed probe is down, not missing")
	assert.Equal(t, 7, ls.Nodes[2].Users)
}

func TestCollectLoginsEmpty(t *testing.T) {
	ls := CollectLogins(context.Background(), nil, 2, time.Second, func(string) remote.Runner { return nil })
	assert.Zero(t, ls.NodesTotal)
	assert.Empty(t, ls.Nodes)
}
