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
	"time"
)

// Local runs commands on the collector host itself.
type Local struct {
	opts *options
}

// NewLocal returns a Runner executing commands locally.
func NewLocal(opts ...Option) *Local {
	return &Local{opts: newOptions(opts...)}
}

// Target implements Runner.
func (l *Local) Target() string {
	return "local"
}

// Run implements Runner.
func (l *Local) Run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	argv := append([]string{name}, args...)
	return run(ctx, l.opts.limiter, l.Target(), timeout, argv...)
}
