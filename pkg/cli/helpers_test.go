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
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/hpc-stack/skopos/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		output     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{
			name:       "explicit yaml",
			format:     "yaml",
			wantFormat: serializer.FormatYAML,
		},
		{
			name:       "explicit json",
			format:     "json",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:       "explicit table",
			format:     "table",
			wantFormat: serializer.FormatTable,
		},
		{
			name:    "invalid format xml",
			format:  "xml",
			wantErr: true,
		},
		{
			name:    "invalid format csv",
			format:  "csv",
			wantErr: true,
		},
		{
			name:       "inferred from yaml output",
			output:     "status.yaml",
			wantFormat: serializer.FormatYAML,
		},
		{
			name:       "inferred from json output",
			output:     "status.json",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:       "no format no output defaults to json",
			wantFormat: serializer.FormatJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: tt.format},
					&cli.StringFlag{Name: "output", Value: tt.output},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cmd := &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "/nonexistent/fleet.yaml"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			if _, err := loadConfig(c); err == nil {
				t.Error("expected error for missing config file")
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
		t.Fatalf("failed to run command: %v", err)
	}
}
