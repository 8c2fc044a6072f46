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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobTable(t *testing.T) {
	data, err := os.ReadFile("testdata/qstat.txt")
	require.NoError(t, err)

	js, err := parseJobTable(data)
	require.NoError(t, err)

	assert.Equal(t, 2, js.Running)
	assert.Equal(t, 2, js.Pending, "Q and H both count as pending")
	assert.Equal(t, 1, js.Suspended)
	assert.Equal(t, 3, js.ActiveUsers, "alice, bob, carol")
	assert.NotNil(t, js.SessionsByResource)
}

func TestParseJobTableEmpty(t *testing.T) {
	for _, in := range []string{"", "\n", "   \n"} {
		js, err := parseJobTable([]byte(in))
		require.NoError(t, err)
		assert.Zero(t, js.Running)
		assert.Zero(t, js.ActiveUsers)
	}
}

func TestParseJobTableMissingSeparator(t *testing.T) {
	_, err := parseJobTable([]byte("curta:\nJob ID Username\n1.curta alice\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "separator")
}

func TestParseJobTableMalformedRows(t *testing.T) {
	input := "h\n---\n" +
		"1.c  alice  batch  j1  1  1  1  1gb  1:00  R  0:10\n" +
		"2.c  bob    gpu\n" + // too short, skipped
		"3.c  bob    gpu    j3  1  1  1  1gb  1:00  Q  --\n"

	js, err := parseJobTable([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, 1, js.Running)
	assert.Equal(t, 1, js.Pending)
	assert.Equal(t, 2, js.ActiveUsers, "the malformed row's user is not counted")
}
