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

package defaults

import "time"

// Command execution timeouts for scheduler queries.
const (
	// ExecTimeout is the default timeout for one scheduler command,
	// local or over the remote shell. Callers with a shorter parent
	// context deadline win.
	ExecTimeout = 30 * time.Second

	// ExecProbeTimeout is the timeout for cheap single-host probes
	// such as a login node uptime check.
	ExecProbeTimeout = 10 * time.Second
)

// Collection cycle parameters.
const (
	// CycleInterval is the default period between collection cycles
	// when no schedule is configured.
	CycleInterval = 5 * time.Minute

	// CycleTimeout bounds one whole collection cycle across all systems.
	// Must be shorter than CycleInterval so cycles never overlap.
	CycleTimeout = 4 * time.Minute
)

// Parallel fan-out parameters.
const (
	// FanoutWorkers is the default worker pool size for multi-host
	// command fan-out.
	FanoutWorkers = 10
)

// Remote launch rate limiting. Bursts of ssh launches against the same
// bastion trip sshd's MaxStartups, so launches are paced.
const (
	// RemoteLaunchesPerSecond is the sustained remote command launch rate.
	RemoteLaunchesPerSecond = 5

	// RemoteLaunchBurst is the launch burst allowance.
	RemoteLaunchBurst = 10
)

// Kubernetes timeouts for K8s API operations.
const (
	// CollectorK8sTimeout is the timeout for Kubernetes API calls in collectors.
	CollectorK8sTimeout = 30 * time.Second
)

// Server timeouts for the operational HTTP endpoint.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests (hub endpoint, registries).
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// Snapshot retention parameters.
const (
	// StoreRetention is the default age past which persisted snapshots
	// are pruned.
	StoreRetention = 30 * 24 * time.Hour

	// StorePruneInterval throttles retention sweeps so cycle writes do
	// not each pay a delete scan.
	StorePruneInterval = time.Hour
)

// CLI timeouts for command-line operations.
const (
	// CLICollectTimeout is the default timeout for one-shot collection.
	CLICollectTimeout = 5 * time.Minute
)
