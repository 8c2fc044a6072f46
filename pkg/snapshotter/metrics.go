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

package snapshotter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Collection cycle metrics
	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skopos_cycle_duration_seconds",
			Help:    "Time taken by one complete collection cycle",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	cyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skopos_cycles_total",
			Help: "Total number of collection cycles",
		},
		[]string{"status"}, // success or error
	)

	systemDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skopos_system_collection_duration_seconds",
			Help:    "Time taken to collect one system",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"system"},
	)

	// Persistence metrics
	snapshotsPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skopos_snapshots_persisted_total",
			Help: "Total number of snapshots written to the store",
		},
	)

	storeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skopos_store_errors_total",
			Help: "Total number of failed store writes",
		},
	)
)
