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

// Package hub drives status collection for notebook-hub systems: the
// user listing is fetched over the hub REST API and classified into
// session counts. The hub exposes no node, login, filesystem or
// reservation data; those categories carry their defaults.
package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/hpc-stack/skopos/pkg/collector"
	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/errors"
	"github.com/hpc-stack/skopos/pkg/stats"
)

// maxUserListBytes bounds the /users response body.
const maxUserListBytes = 16 << 20

func init() {
	collector.MustRegister(config.TypeHub, func(sys config.System) (collector.Collector, error) {
		return New(sys), nil
	})
}

// Collector is the notebook-hub system driver.
type Collector struct {
	sys    config.System
	client *http.Client
	token  string
}

// New returns a driver for one configured hub system. The API token is
// resolved from the configured environment variable once, at
// construction; the fleet file never carries the token itself.
func New(sys config.System) *Collector {
	return &Collector{
		sys:    sys,
		client: &http.Client{Timeout: sys.Hub.Timeout.Duration()},
		token:  os.Getenv(sys.Hub.TokenEnv),
	}
}

// Name implements collector.Collector.
func (c *Collector) Name() string {
	return c.sys.Name
}

// Collect implements collector.Collector. Only the job category is
// collected; the rest of the fixed category set is defaulted so the
// snapshot schema is identical across driver types.
func (c *Collector) Collect(ctx context.Context) *stats.Snapshot {
	return &stats.Snapshot{
		System: c.sys.Name,
		Jobs: collector.Guard(c.sys.Name, stats.CategoryJobs,
			func() (stats.JobStats, error) { return c.collectSessions(ctx) },
			func() stats.JobStats { return stats.DefaultJobStats(c.sys.Hub.Resources) }),
		Nodes:        stats.DefaultNodeStats(c.sys.PartitionNames()),
		Logins:       stats.DefaultLoginStats(c.sys.LoginNodes),
		Filesystems:  stats.DefaultFilesystemStats(),
		Reservations: stats.DefaultReservationStats(),
	}
}

func (c *Collector) collectSessions(ctx context.Context) (stats.JobStats, error) {
	body, err := c.fetchUsers(ctx)
	if err != nil {
		return stats.JobStats{}, err
	}
	st, err := Classify(body, c.sys.Hub.Resources)
	if err != nil {
		return stats.JobStats{}, err
	}
	js := stats.DefaultJobStats(c.sys.Hub.Resources)
	js.MergeSessions(st)
	return js, nil
}

func (c *Collector) fetchUsers(ctx context.Context) ([]byte, error) {
	url := strings.TrimRight(c.sys.Hub.URL, "/") + "/users"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, "building hub request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "hub user listing failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewWithContext(errors.ErrCodeUnavailable,
			fmt.Sprintf("hub user listing returned %s", resp.Status),
			map[string]any{"url": url, "status": resp.StatusCode})
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUserListBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "reading hub response", err)
	}
	return body, nil
}
