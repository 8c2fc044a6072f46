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

package stats

import (
	"errors"
	"time"
)

// Snapshot is the complete statistics record for one system for one
// collection cycle. Timestamp and CycleID are stamped once per cycle and
// shared by every system's snapshot in that cycle. Category fields are
// never omitted from serialized output; a category the system does not
// implement, or one that failed this cycle, carries its defaulted value.
//
// A snapshot is never mutated after it is handed to persistence.
type Snapshot struct {
	System    string    `json:"system" yaml:"system"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	CycleID   string    `json:"cycle_id" yaml:"cycle_id"`

	Nodes        NodeStats        `json:"nodes" yaml:"nodes"`
	Jobs         JobStats         `json:"jobs" yaml:"jobs"`
	Logins       LoginStats       `json:"logins" yaml:"logins"`
	Filesystems  FilesystemStats  `json:"filesystems" yaml:"filesystems"`
	Reservations ReservationStats `json:"reservations" yaml:"reservations"`
}

// Validate checks that the snapshot is properly formed for persistence.
func (s *Snapshot) Validate() error {
	if s.System == "" {
		return errors.New("snapshot system cannot be empty")
	}
	if s.Timestamp.IsZero() {
		return errors.New("snapshot timestamp cannot be zero")
	}
	if s.CycleID == "" {
		return errors.New("snapshot cycle id cannot be empty")
	}
	return nil
}

// NodeStats holds the node category: per-partition aggregates in configured
// partition order, plus the per-node records in input order for systems that
// expose per-node detail.
type NodeStats struct {
	Partitions []PartitionStats `json:"partitions" yaml:"partitions"`
	Nodes      []NodeRecord     `json:"nodes" yaml:"nodes"`
}

// DefaultNodeStats returns the zeroed node category. The configured partition
// names are preserved so a defaulted snapshot still carries one entry per
// partition the system exposes.
func DefaultNodeStats(partitions []string) NodeStats {
	ps := make([]PartitionStats, len(partitions))
	for i, name := range partitions {
		ps[i] = PartitionStats{Name: name}
	}
	return NodeStats{
		Partitions: ps,
		Nodes:      []NodeRecord{},
	}
}

// JobStats holds the job/session category. For batch systems the session
// fields stay zero; for hub systems the job counts mirror the classified
// sessions and the batch fields stay zero.
type JobStats struct {
	Running            int            `json:"jobs_running" yaml:"jobs_running"`
	Pending            int            `json:"jobs_pending" yaml:"jobs_pending"`
	Suspended          int            `json:"jobs_suspended" yaml:"jobs_suspended"`
	ActiveUsers        int            `json:"active_users" yaml:"active_users"`
	ActiveSessions     int            `json:"active_sessions" yaml:"active_sessions"`
	SessionsByResource map[string]int `json:"sessions_by_resource" yaml:"sessions_by_resource"`
	BrokenSessions     int            `json:"broken_session_count" yaml:"broken_session_count"`
}

// DefaultJobStats returns the zeroed job category. The resource vocabulary
// keys are preserved so the per-resource map always carries the full key set.
func DefaultJobStats(resources []string) JobStats {
	byResource := make(map[string]int, len(resources))
	for _, r := range resources {
		byResource[r] = 0
	}
	return JobStats{SessionsByResource: byResource}
}

// MergeSessions folds a classified session aggregate into the job category.
func (j *JobStats) MergeSessions(s SessionStat) {
	j.ActiveUsers = s.ActiveUsers
	j.ActiveSessions = s.ActiveSessions
	j.BrokenSessions = s.BrokenJobs
	if j.SessionsByResource == nil {
		j.SessionsByResource = make(map[string]int, len(s.JobsByResource))
	}
	for r, n := range s.JobsByResource {
		j.SessionsByResource[r] = n
	}
}

// SessionStat is the aggregate of classified hub sessions for one cycle.
// JobsByResource always carries every key of the caller-defined resource
// vocabulary; BrokenJobs counts sessions failing the integrity rule. A
// session can be counted under a resource and still be broken — the two
// signals are independent.
type SessionStat struct {
	ActiveUsers    int            `json:"active_users" yaml:"active_users"`
	ActiveSessions int            `json:"active_sessions" yaml:"active_sessions"`
	JobsByResource map[string]int `json:"jobs_by_resource" yaml:"jobs_by_resource"`
	BrokenJobs     int            `json:"broken_job_count" yaml:"broken_job_count"`
}

// NewSessionStat returns a zeroed aggregate carrying the full resource
// vocabulary key set.
func NewSessionStat(resources []string) SessionStat {
	byResource := make(map[string]int, len(resources))
	for _, r := range resources {
		byResource[r] = 0
	}
	return SessionStat{JobsByResource: byResource}
}

// LoginNode is one interactive login host's reachability and load.
type LoginNode struct {
	Host   string  `json:"host" yaml:"host"`
	Up     bool    `json:"up" yaml:"up"`
	Load1  float64 `json:"load_1m" yaml:"load_1m"`
	Load5  float64 `json:"load_5m" yaml:"load_5m"`
	Load15 float64 `json:"load_15m" yaml:"load_15m"`
	Users  int     `json:"users" yaml:"users"`
}

// LoginStats holds the login-node category.
type LoginStats struct {
	Nodes      []LoginNode `json:"nodes" yaml:"nodes"`
	NodesTotal int         `json:"nodes_total" yaml:"nodes_total"`
	NodesUp    int         `json:"nodes_up" yaml:"nodes_up"`
}

// DefaultLoginStats returns the zeroed login category with one down entry per
// configured host.
func DefaultLoginStats(hosts []string) LoginStats {
	nodes := make([]LoginNode, len(hosts))
	for i, h := range hosts {
		nodes[i] = LoginNode{Host: h}
	}
	return LoginStats{
		Nodes:      nodes,
		NodesTotal: len(hosts),
	}
}

// FilesystemUsage is one mounted filesystem's capacity, in 1K blocks.
type FilesystemUsage struct {
	Name       string  `json:"name" yaml:"name"`
	MountPoint string  `json:"mount_point" yaml:"mount_point"`
	SizeKB     uint64  `json:"size_kb" yaml:"size_kb"`
	UsedKB     uint64  `json:"used_kb" yaml:"used_kb"`
	AvailKB    uint64  `json:"avail_kb" yaml:"avail_kb"`
	UsePct     float64 `json:"use_pct" yaml:"use_pct"`
}

// FilesystemStats holds the filesystem category.
type FilesystemStats struct {
	Filesystems []FilesystemUsage `json:"filesystems" yaml:"filesystems"`
	TotalKB     uint64            `json:"total_kb" yaml:"total_kb"`
	UsedKB      uint64            `json:"used_kb" yaml:"used_kb"`
}

// DefaultFilesystemStats returns the zeroed filesystem category.
func DefaultFilesystemStats() FilesystemStats {
	return FilesystemStats{Filesystems: []FilesystemUsage{}}
}

// Reservation is one scheduler reservation. Start and End are the scheduler's
// own datetime strings, passed through opaquely like job IDs.
type Reservation struct {
	Name      string `json:"name" yaml:"name"`
	Queue     string `json:"queue" yaml:"queue"`
	Owner     string `json:"owner" yaml:"owner"`
	State     string `json:"state" yaml:"state"`
	NodeCount int    `json:"node_count" yaml:"node_count"`
	Start     string `json:"start_time" yaml:"start_time"`
	End       string `json:"end_time" yaml:"end_time"`
}

// ReservationStats holds the reservation category.
type ReservationStats struct {
	Reservations  []Reservation `json:"reservations" yaml:"reservations"`
	Count         int           `json:"count" yaml:"count"`
	NodesReserved int           `json:"nodes_reserved" yaml:"nodes_reserved"`
}

// DefaultReservationStats returns the zeroed reservation category.
func DefaultReservationStats() ReservationStats {
	return ReservationStats{Reservations: []Reservation{}}
}
