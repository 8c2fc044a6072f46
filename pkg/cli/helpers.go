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
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/serializer"
)

// Flags shared by the snapshot and daemon commands.
var (
	configFlag = &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    "Fleet configuration file",
		Sources:  cli.EnvVars("SKOPOS_CONFIG"),
		Required: true,
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output destination: file path or oci://registry/repository:tag (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage: fmt.Sprintf("Output format (supported values: %s); inferred from the output extension when omitted",
			serializer.SupportedFormats()),
	}
)

// loadConfig reads and validates the fleet configuration named by --config.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// parseOutputFormat resolves the output format from --format, falling back
// to the --output file extension.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	raw := cmd.String("format")
	if raw == "" {
		return serializer.FormatFromPath(cmd.String("output")), nil
	}

	format := serializer.Format(raw)
	if format.IsUnknown() {
		return "", fmt.Errorf("unknown output format %q (supported: %s)", raw, serializer.SupportedFormats())
	}
	return format, nil
}
