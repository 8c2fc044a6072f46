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

// Package remote provides the command-execution boundary for collectors:
// run a command on a target (the collector host itself, or a cluster host
// over the already-configured ssh setup), get stdout back, with a hard
// timeout and trimmed stderr on failure. Authentication is out of scope;
// the remote shell is assumed to work non-interactively.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hpc-stack/skopos/pkg/defaults"
	"github.com/hpc-stack/skopos/pkg/errors"
)

const stderrLimit = 8 << 10 // 8 KiB

// Runner executes one command against a target and returns its stdout.
//
// Implementations must honor the timeout: a command still running when it
// expires is killed and the returned error unwraps to
// context.DeadlineExceeded. A non-zero exit surfaces as an EXEC_FAILED
// error carrying a trimmed stderr snippet.
type Runner interface {
	// Target identifies where commands run, for logging ("local" or a hostname).
	Target() string

	// Run executes name with args and returns its stdout.
	// A timeout of 0 means the default command timeout.
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error)
}

type options struct {
	limiter *rate.Limiter
	sshPath string
}

// Option configures a Runner.
type Option func(*options)

// WithLimiter shares one launch limiter across runners, e.g. between a
// system's scheduler runner and its per-login-node runners.
func WithLimiter(l *rate.Limiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

// WithSSHPath overrides the ssh client binary used by SSH runners.
func WithSSHPath(path string) Option {
	return func(o *options) {
		o.sshPath = path
	}
}

// NewLimiter returns a command launch limiter at the default pacing.
func NewLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(defaults.RemoteLaunchesPerSecond), defaults.RemoteLaunchBurst)
}

func newOptions(opts ...Option) *options {
	o := &options{
		limiter: NewLimiter(),
		sshPath: "ssh",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Dial returns a Runner for the host: Local when host is empty or "local",
// SSH otherwise.
func Dial(host string, opts ...Option) Runner {
	if host == "" || host == "local" || host == "localhost" {
		return NewLocal(opts...)
	}
	return NewSSH(host, opts...)
}

// run executes argv with the timeout, pacing launches through the limiter.
// argv comes from configuration, not user input; args are passed separately,
// never through a shell.
func run(ctx context.Context, limiter *rate.Limiter, target string, timeout time.Duration, argv ...string) ([]byte, error) {
	if timeout <= 0 {
		timeout = defaults.ExecTimeout
	}
	if err := limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "command launch canceled while pacing", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	slog.Debug("executing", "target", target, "cmd", cmd.String())

	out, err := cmd.Output()
	if err != nil {
		s := strings.TrimSpace(stderr.String())
		if len(s) > stderrLimit {
			s = s[:stderrLimit] + " (truncated)"
		}
		// Normalize context-related errors so callers can
		// errors.Is(err, context.DeadlineExceeded).
		if ctx.Err() != nil {
			return out, errors.WrapWithContext(errors.ErrCodeTimeout,
				fmt.Sprintf("%s timed out after %s", argv[0], timeout), ctx.Err(),
				map[string]any{"target": target, "stderr": s})
		}
		return out, errors.WrapWithContext(errors.ErrCodeExecFailed,
			fmt.Sprintf("%s failed: %v (stderr: %s)", argv[0], err, s), err,
			map[string]any{"target": target})
	}

	return out, nil
}
