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

// Package config loads and validates the fleet configuration file.
//
// The fleet file is YAML and describes every monitored system, one entry
// per cluster or hub endpoint:
//
//	schedule: "@every 5m"
//	store:
//	  path: /var/lib/skopos/skopos.db
//	  retention: 720h
//	systems:
//	  - name: curta
//	    type: pbs
//	    host: curta-login1
//	    partitions:
//	      - name: cpu
//	        prefix: crhtc
//	        catch_all: true
//	      - name: gpu
//	        prefix: crgpu
//	    login_nodes: [login1, login2]
//	    filesystems: [/home, /scratch]
//	  - name: hub
//	    type: hub
//	    hub:
//	      url: https://hub.example.org/hub/api
//	      token_env: SKOPOS_HUB_TOKEN
//	      resources: [cr-login, cr-htc, cr-gpu]
//
// Unknown fields are rejected so typos in a fleet file fail loudly at
// startup instead of silently dropping a system. Validation errors name
// the offending system and field.
package config
