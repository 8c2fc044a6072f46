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
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hpc-stack/skopos/pkg/defaults"
	"github.com/hpc-stack/skopos/pkg/serializer"
	"github.com/hpc-stack/skopos/pkg/snapshotter"
	"github.com/hpc-stack/skopos/pkg/store"
)

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		EnableShellCompletion: true,
		Usage:                 "Capture one status snapshot of every configured system",
		Description: `Run a single collection cycle across the configured fleet:
  - scheduler node, job and reservation statistics (PBS, Slurm)
  - login node load and filesystem usage
  - interactive session statistics from the hub endpoint
  - Kubernetes cluster capacity and usage

All systems are collected in parallel and share one timestamp and cycle ID.
A system that cannot be reached yields defaulted categories rather than
failing the cycle.

The snapshots can be written to stdout, a file, or an OCI registry:

  skopos snapshot -c fleet.yaml
  skopos snapshot -c fleet.yaml -o status.yaml
  skopos snapshot -c fleet.yaml -o oci://ghcr.io/hpc/status:latest

When the configuration has a store path, snapshots are persisted as well.`,
		Flags: []cli.Flag{
			configFlag,
			outputFlag,
			formatFlag,
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for the collection cycle",
				Value: defaults.CLICollectTimeout,
			},
			&cli.BoolFlag{
				Name:  "no-store",
				Usage: "Skip snapshot persistence even when the configuration has a store path",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			s, err := snapshotter.New(cfg.Systems)
			if err != nil {
				return err
			}
			s.CycleTimeout = cmd.Duration("timeout")

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if closer, ok := ser.(serializer.Closer); ok {
				defer closer.Close()
			}
			s.Serializer = ser

			if cfg.Store.Path != "" && !cmd.Bool("no-store") {
				st, err := store.Open(cfg.Store.Path, cfg.Store.Retention.Duration())
				if err != nil {
					return fmt.Errorf("failed to open snapshot store: %w", err)
				}
				defer st.Close()
				s.Store = st
			}

			_, err = s.Run(ctx)
			return err
		},
	}
}
