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
	"fmt"
	"time"
)

// sshConnectTimeoutSec bounds connection establishment separately from the
// command timeout, so an unreachable host fails fast.
const sshConnectTimeoutSec = 10

// SSH runs commands on a remote host through the system ssh client in batch
// mode. It relies on the environment's existing non-interactive setup (agent,
// keys, ControlMaster); it never prompts and handles no credentials.
type SSH struct {
	host string
	opts *options
}

// NewSSH returns a Runner executing commands on host over ssh.
func NewSSH(host string, opts ...Option) *SSH {
	return &SSH{
		host: host,
		opts: newOptions(opts...),
	}
}

// Target implements Runner.
func (s *SSH) Target() string {
	return s.host
}

// Run implements Runner.
func (s *SSH) Run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	argv := []string{
		s.opts.sshPath,
		"-o", "BatchMode=yes",
		"-o", fmt.Sprintf("ConnectTimeout=%d", sshConnectTimeoutSec),
		s.host,
		"--",
		name,
	}
	argv = append(argv, args...)
	return run(ctx, s.opts.limiter, s.host, timeout, argv...)
}
