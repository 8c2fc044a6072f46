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
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/hpc-stack/skopos/pkg/fanout"
	"github.com/hpc-stack/skopos/pkg/remote"
	"github.com/hpc-stack/skopos/pkg/stats"
)

var (
	loadAvgRe = regexp.MustCompile(`load averages?:\s*([\d.]+)[, ]+([\d.]+)[, ]+([\d.]+)`)
	usersRe   = regexp.MustCompile(`(\d+)\s+users?\b`)
)

// probe is the fan-out task descriptor; the host field re-associates
// completion-ordered results with configured hosts.
type probe struct {
	Host string `json:"host"`
}

// CollectLogins probes every login host's uptime through a bounded
// worker pool and returns one entry per configured host, in configured
// order. An unreachable host is reported down, never as a missing entry
// and never as a category failure.
func CollectLogins(ctx context.Context, hosts []string, workers int, timeout time.Duration, dial func(host string) remote.Runner) stats.LoginStats {
	tasks := make([]probe, len(hosts))
	for i, h := range hosts {
		tasks[i] = probe{Host: h}
	}

	results := fanout.Run(ctx, workers, tasks, func(ctx context.Context, t probe) (stats.LoginNode, error) {
		out, err := dial(t.Host).Run(ctx, timeout, "uptime")
		if err != nil {
			return stats.LoginNode{}, err
		}
		return parseUptime(t.Host, out), nil
	})

	byHost := make(map[string]stats.LoginNode, len(results))
	for _, res := range results {
		if !res.OK() {
			slog.Warn("login node probe failed", "host", res.Task.Host, "error", res.Err)
			byHost[res.Task.Host] = stats.LoginNode{Host: res.Task.Host}
			continue
		}
		byHost[res.Task.Host] = res.Value
	}

	ls := stats.LoginStats{
		Nodes:      make([]stats.LoginNode, 0, len(hosts)),
		NodesTotal: len(hosts),
	}
	for _, h := range hosts {
		node := byHost[h]
		node.Host = h
		ls.Nodes = append(ls.Nodes, node)
		if node.Up {
			ls.NodesUp++
		}
	}
	return ls
}

// parseUptime pulls user count and load averages out of one uptime line.
// A host that answered at all is up; unparseable output degrades to
// zeroed load, not to down.
func parseUptime(host string, out []byte) stats.LoginNode {
	node := stats.LoginNode{Host: host, Up: true}
	s := string(out)

	if m := usersRe.FindStringSubmatch(s); m != nil {
		node.Users, _ = strconv.Atoi(m[1])
	}
	if m := loadAvgRe.FindStringSubmatch(s); m != nil {
		node.Load1, _ = strconv.ParseFloat(m[1], 64)
		node.Load5, _ = strconv.ParseFloat(m[2], 64)
		node.Load15, _ = strconv.ParseFloat(m[3], 64)
	} else {
		slog.Warn("unrecognized uptime output", "host", host, "output", s)
	}
	return node
}
