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

package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hpc-stack/skopos/pkg/defaults"
)

// System type identifiers understood by the collector factory.
const (
	TypePBS   = "pbs"
	TypeSlurm = "slurm"
	TypeHub   = "hub"
	TypeKube  = "kube"
)

// Config is the root of the fleet configuration file.
type Config struct {
	// Schedule is the collection schedule in cron syntax (robfig/cron,
	// "@every 5m" style descriptors included). Empty means the default
	// cycle interval.
	Schedule string `yaml:"schedule"`

	// Store configures snapshot persistence.
	Store Store `yaml:"store"`

	// Server configures the operational HTTP endpoint.
	Server Server `yaml:"server"`

	// Systems lists the monitored systems, one snapshot each per cycle.
	Systems []System `yaml:"systems"`
}

// Store configures the snapshot store.
type Store struct {
	// Path is the SQLite database file. Empty disables persistence,
	// e.g. for one-shot snapshots to stdout.
	Path string `yaml:"path"`

	// Retention is the age past which snapshots are pruned.
	Retention Duration `yaml:"retention"`
}

// Server configures the operational HTTP endpoint serving /healthz,
// /readyz and /metrics.
type Server struct {
	// Address is the listen address, e.g. ":9101". Empty disables the server.
	Address string `yaml:"address"`
}

// System describes one monitored system.
type System struct {
	// Name identifies the system in snapshots, logs and metrics.
	Name string `yaml:"name"`

	// Type selects the driver: pbs, slurm, hub or kube.
	Type string `yaml:"type"`

	// Host is where scheduler commands run: empty or "local" for the
	// collector host, anything else is reached over ssh.
	Host string `yaml:"host"`

	// ExecTimeout bounds one scheduler command. Zero means the default.
	ExecTimeout Duration `yaml:"exec_timeout"`

	// Workers bounds the login-node fan-out pool. Zero means the default.
	Workers int `yaml:"workers"`

	// Partitions are ordered node-to-partition matchers; first match wins.
	// Empty means a single implicit partition named "all".
	Partitions []Partition `yaml:"partitions"`

	// LoginNodes are interactive hosts probed for load and user counts.
	LoginNodes []string `yaml:"login_nodes"`

	// Filesystems are mount points reported in the filesystem category.
	Filesystems []string `yaml:"filesystems"`

	// Hub configures the notebook-hub endpoint for type "hub".
	Hub Hub `yaml:"hub"`

	// Kubeconfig is the kubeconfig path for type "kube". Empty uses the
	// usual KUBECONFIG / in-cluster resolution.
	Kubeconfig string `yaml:"kubeconfig"`
}

// Partition maps nodes to a named partition by name prefix or regular
// expression. At most one of Prefix and Pattern may be set.
type Partition struct {
	Name string `yaml:"name"`

	// Prefix matches nodes whose name starts with this string.
	Prefix string `yaml:"prefix"`

	// Pattern matches nodes by regular expression.
	Pattern string `yaml:"pattern"`

	// CatchAll marks this partition as the home for nodes no matcher
	// claims. At most one partition per system may set it.
	CatchAll bool `yaml:"catch_all"`

	re *regexp.Regexp
}

// Matches reports whether the node name belongs to this partition.
func (p *Partition) Matches(node string) bool {
	switch {
	case p.Prefix != "":
		return strings.HasPrefix(node, p.Prefix)
	case p.re != nil:
		return p.re.MatchString(node)
	default:
		return false
	}
}

// Hub configures a notebook-hub REST endpoint.
type Hub struct {
	// URL is the hub API base, e.g. "https://hub.example.org/hub/api".
	URL string `yaml:"url"`

	// TokenEnv names the environment variable holding the API token.
	// The token itself never appears in the fleet file.
	TokenEnv string `yaml:"token_env"`

	// Resources is the vocabulary of scheduler-backed session resource
	// names. Sessions on these resources must carry a scheduler job id;
	// sessions on anything else must carry a remote IP and a pid.
	Resources []string `yaml:"resources"`

	// Timeout bounds one hub API request. Zero means the default.
	Timeout Duration `yaml:"timeout"`
}

// PartitionNames returns the configured partition names in order, or the
// implicit single partition when none are configured.
func (s *System) PartitionNames() []string {
	if len(s.Partitions) == 0 {
		return []string{"all"}
	}
	names := make([]string, len(s.Partitions))
	for i := range s.Partitions {
		names[i] = s.Partitions[i].Name
	}
	return names
}

// Load reads, defaults and validates a fleet file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse defaults and validates fleet configuration from raw YAML.
// Unknown fields are an error.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Retention == 0 {
		c.Store.Retention = Duration(defaults.StoreRetention)
	}
	for i := range c.Systems {
		s := &c.Systems[i]
		if s.ExecTimeout == 0 {
			s.ExecTimeout = Duration(defaults.ExecTimeout)
		}
		if s.Workers == 0 {
			s.Workers = defaults.FanoutWorkers
		}
		if s.Hub.Timeout == 0 {
			s.Hub.Timeout = Duration(defaults.HTTPClientTimeout)
		}
	}
}

// Validate checks the configuration and compiles partition patterns.
// Messages name the offending system so fleet file mistakes are
// actionable without reading source.
func (c *Config) Validate() error {
	if len(c.Systems) == 0 {
		return fmt.Errorf("config: at least one system is required")
	}

	seen := make(map[string]bool, len(c.Systems))
	for i := range c.Systems {
		s := &c.Systems[i]
		if s.Name == "" {
			return fmt.Errorf("config: systems[%d]: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("config: duplicate system name %q", s.Name)
		}
		seen[s.Name] = true

		switch s.Type {
		case TypePBS, TypeSlurm, TypeHub, TypeKube:
		case "":
			return fmt.Errorf("config: system %q: type is required", s.Name)
		default:
			return fmt.Errorf("config: system %q: unknown type %q (want pbs, slurm, hub or kube)", s.Name, s.Type)
		}

		if s.Type == TypeHub && s.Hub.URL == "" {
			return fmt.Errorf("config: system %q: hub.url is required for type hub", s.Name)
		}

		if err := s.validatePartitions(); err != nil {
			return fmt.Errorf("config: system %q: %w", s.Name, err)
		}
	}
	return nil
}

func (s *System) validatePartitions() error {
	catchAll := ""
	for i := range s.Partitions {
		p := &s.Partitions[i]
		if p.Name == "" {
			return fmt.Errorf("partitions[%d]: name is required", i)
		}
		if p.Prefix != "" && p.Pattern != "" {
			return fmt.Errorf("partition %q: prefix and pattern are mutually exclusive", p.Name)
		}
		if p.Pattern != "" {
			re, err := regexp.Compile(p.Pattern)
			if err != nil {
				return fmt.Errorf("partition %q: invalid pattern: %w", p.Name, err)
			}
			p.re = re
		}
		if p.CatchAll {
			if catchAll != "" {
				return fmt.Errorf("partitions %q and %q both claim catch_all", catchAll, p.Name)
			}
			catchAll = p.Name
		}
	}
	return nil
}
