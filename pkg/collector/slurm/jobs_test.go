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
)

func TestParseSqueue(t *testing.T) {
	data, err := os.ReadFile("testdata/squeue.txt")
	require.NoError(t, err)

	js := parseSqueue(data)

	assert.Equal(t, 3, js.Running, "COMPLETING still occupies resources")
	assert.Equal(t, 2, js.Pending)
	assert.Equal(t, 1, js.Suspended)
	assert.Equal(t, 5, js.ActiveUsers)
	assert.NotNil(t, js.SessionsByResource)
}

func TestParseSqueueEmpty(t *testing.T) {
	js := parseSqueue(nil)
	assert.Zero(t, js.Running)
	assert.Zero(t, js.ActiveUsers)
	assert.NotNil(t, js.SessionsByResource)
}

func TestParseSqueueMalformedAndTerminal(t *testing.T) {
	input := "alice|RUNNING\n" +
		"no-state-field\n" +
		"bob|COMPLETED\n" + // terminal, counts toward nothing
		"carol|PENDING\n"

	js := parseSqueue([]byte(input))
	assert.Equal(t, 1, js.Running)
	assert.Equal(t, 1, js.Pending)
	assert.Equal(t, 2, js.ActiveUsers, "terminal and malformed rows contribute no users")
}
