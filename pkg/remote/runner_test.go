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

package remote

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hpc-stack/skopos/pkg/errors"
)

func writeExe(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755), "write %s", path)
}

func TestLocal_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh scripts")
	}

	tmp := t.TempDir()

	echoArgs := filepath.Join(tmp, "echoargs.sh")
	writeExe(t, echoArgs, "#!/bin/sh\nprintf '%s|' \"$@\"\necho\n")

	stderrScript := filepath.Join(tmp, "stderr.sh")
	writeExe(t, stderrScript, "#!/bin/sh\necho 'scheduler down' 1>&2\nexit 1\n")

	sleeper := filepath.Join(tmp, "sleep.sh")
	writeExe(t, sleeper, "#!/bin/sh\nsleep 2\n")

	longErr := filepath.Join(tmp, "longerr.sh")
	writeExe(t, longErr, "#!/bin/sh\nprintf '"+strings.Repeat("x", 9000)+"' 1>&2\nexit 17\n")

	l := NewLocal()

	t.Run("success", func(t *testing.T) {
		out, err := l.Run(context.Background(), time.Second, echoArgs, "a b", "c")
		require.NoError(t, err)
		assert.Equal(t, "a b|c|\n", string(out))
	})

	t.Run("non-zero exit carries stderr", func(t *testing.T) {
		_, err := l.Run(context.Background(), time.Second, stderrScript)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler down")
		assert.Equal(t, apperrors.ErrCodeExecFailed, apperrors.CodeOf(err))
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := l.Run(context.Background(), 200*time.Millisecond, sleeper)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, apperrors.ErrCodeTimeout, apperrors.CodeOf(err))
	})

	t.Run("long stderr truncated", func(t *testing.T) {
		_, err := l.Run(context.Background(), 5*time.Second, longErr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "truncated")
	})

	t.Run("binary not found", func(t *testing.T) {
		_, err := l.Run(context.Background(), time.Second, filepath.Join(tmp, "nonexistent"))
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeExecFailed, apperrors.CodeOf(err))
	})

	t.Run("zero timeout uses default", func(t *testing.T) {
		out, err := l.Run(context.Background(), 0, echoArgs, "ok")
		require.NoError(t, err)
		assert.Equal(t, "ok|\n", string(out))
	})
}

func TestSSH_ComposesArgv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh scripts")
	}

	tmp := t.TempDir()

	// stand-in for the ssh client: prints its argv
	fakeSSH := filepath.Join(tmp, "ssh.sh")
	writeExe(t, fakeSSH, "#!/bin/sh\nprintf '%s|' \"$@\"\necho\n")

	s := NewSSH("cluster-a", WithSSHPath(fakeSSH))
	assert.Equal(t, "cluster-a", s.Target())

	out, err := s.Run(context.Background(), time.Second, "pbsnodes", "-a")
	require.NoError(t, err)

	got := string(out)
	assert.Contains(t, got, "BatchMode=yes")
	assert.Contains(t, got, "cluster-a|")
	assert.Contains(t, got, "--|pbsnodes|-a|")
}

func TestDial(t *testing.T) {
	tests := []struct {
		host       string
		wantTarget string
		wantSSH    bool
	}{
		{"", "local", false},
		{"local", "local", false},
		{"localhost", "local", false},
		{"cluster-a", "cluster-a", true},
	}
	for _, tt := range tests {
		t.Run("host="+tt.host, func(t *testing.T) {
			r := Dial(tt.host)
			assert.Equal(t, tt.wantTarget, r.Target())
			_, isSSH := r.(*SSH)
			assert.Equal(t, tt.wantSSH, isSSH)
		})
	}
}
