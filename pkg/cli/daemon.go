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

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hpc-stack/skopos/pkg/snapshotter"
)

func daemonCmd() *cli.Command {
	return &cli.Command{
		Name:                  "daemon",
		EnableShellCompletion: true,
		Usage:                 "Run scheduled collection cycles",
		Description: `Collect fleet status on the configured cron schedule. The first
cycle runs immediately; subsequent cycles follow the schedule
("@every 5m" when none is configured).

The daemon persists snapshots to the configured store, prunes them past
the retention age, and serves /healthz, /readyz and /metrics when a
server address is configured. Under systemd it notifies readiness and
feeds the watchdog.

  skopos daemon -c fleet.yaml

The daemon runs until SIGINT or SIGTERM, then finishes the running
cycle and shuts down gracefully.`,
		Flags: []cli.Flag{
			configFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			d, err := snapshotter.NewDaemon(cfg, version)
			if err != nil {
				return err
			}
			return d.Run(ctx)
		},
	}
}
