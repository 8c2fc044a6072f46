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

package collector

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hpc-stack/skopos/pkg/errors"
	"github.com/hpc-stack/skopos/pkg/stats"
)

var categoryDefaulted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "skopos_collector_category_defaulted_total",
		Help: "Collection categories replaced by their zeroed default after a failure",
	},
	[]string{"system", "category"},
)

// Guard runs one category's collect step inside its own error boundary.
// On success the collected value is returned. On error or panic the
// failure is logged, counted, and the category's zeroed default is
// returned instead, so one category's failure never blanks out the
// others and the snapshot always carries the full key set.
//
// There is no retry: a defaulted category is simply collected again on
// the next cycle.
func Guard[T any](system string, category stats.Category, collect func() (T, error), fallback func() T) T {
	v, err := runGuarded(collect)
	if err != nil {
		slog.Error("collection category failed, using default",
			"system", system,
			"category", category.String(),
			"code", string(errors.CodeOf(err)),
			"error", err)
		categoryDefaulted.WithLabelValues(system, category.String()).Inc()
		return fallback()
	}
	return v
}

func runGuarded[T any](collect func() (T, error)) (v T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("collection category panicked",
				"panic", rec,
				"stack", string(debug.Stack()))
			err = errors.Wrap(errors.ErrCodeInternal, "collection category panicked", fmt.Errorf("%v", rec))
		}
	}()
	return collect()
}
