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

// Package defaults provides centralized configuration constants for the
// collection pipeline.
//
// This package defines timeout values, worker pool sizes, rate limits, and
// retention parameters used across the codebase. Centralizing these values
// ensures consistency and makes tuning easier.
//
// # Categories
//
//   - Exec timeouts: for scheduler command execution, local or remote
//   - Cycle parameters: collection schedule period and cycle bound
//   - Fan-out parameters: multi-host worker pool sizing
//   - Remote rate limits: ssh launch pacing
//   - Server timeouts: for the operational HTTP endpoint
//   - HTTP client timeouts: for outbound requests
//   - Retention parameters: persisted snapshot pruning
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/hpc-stack/skopos/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ExecTimeout)
//	defer cancel()
//
// # Guidelines
//
// When choosing timeout values:
//
//   - Exec: 30s default per command, 10s for single-host probes
//   - Cycle: the cycle bound must stay under the schedule period
//   - Server shutdown: 30s for graceful shutdown
package defaults
