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

package hub

import (
	"github.com/tidwall/gjson"

	"github.com/hpc-stack/skopos/pkg/errors"
	"github.com/hpc-stack/skopos/pkg/stats"
)

// Classify aggregates a hub user listing into session counts. resources
// is the vocabulary of scheduler-backed resource names; sessions on
// those must carry a scheduler job id, sessions on anything else must
// carry both a remote IP and a pid.
//
// Field-level malformation never raises: a session whose state is not an
// object, or whose resource is absent, is counted broken and excluded
// from resource bucketing, with no further checks. A session failing the
// integrity rule is marked broken after its bucket is counted; being
// classified and being broken are independent signals. The only error is
// structural: a payload that is not a JSON array.
func Classify(data []byte, resources []string) (stats.SessionStat, error) {
	if !gjson.ValidBytes(data) {
		return stats.SessionStat{}, errors.New(errors.ErrCodeParseFailed, "hub payload is not valid JSON")
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return stats.SessionStat{}, errors.New(errors.ErrCodeParseFailed, "hub payload is not a user array")
	}

	known := make(map[string]bool, len(resources))
	for _, r := range resources {
		known[r] = true
	}

	st := stats.NewSessionStat(resources)
	users := make(map[string]struct{})

	parsed.ForEach(func(_, user gjson.Result) bool {
		name := user.Get("name").String()
		servers := user.Get("servers")
		if !servers.IsObject() {
			// No identifiable sessions on this user at all.
			return true
		}
		servers.ForEach(func(_, server gjson.Result) bool {
			st.ActiveSessions++
			if name != "" {
				users[name] = struct{}{}
			}

			state := server.Get("state")
			if !state.IsObject() {
				st.BrokenJobs++
				return true
			}
			resource := state.Get("resource")
			if resource.Type != gjson.String {
				st.BrokenJobs++
				return true
			}

			res := resource.String()
			if known[res] {
				st.JobsByResource[res]++
			}

			child := state.Get("child_state")
			if known[res] {
				if !child.Get("job_id").Exists() {
					st.BrokenJobs++
				}
			} else if !child.Get("remote_ip").Exists() || !child.Get("pid").Exists() {
				st.BrokenJobs++
			}
			return true
		})
		return true
	})

	st.ActiveUsers = len(users)
	return st, nil
}
