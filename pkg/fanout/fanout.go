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

// Package fanout executes independent tasks through a bounded worker pool
// with per-task fault isolation: one result per task, in completion order,
// and no task failure ever aborts the batch or cancels a sibling.
package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/sourcegraph/conc/pool"

	"github.com/hpc-stack/skopos/pkg/defaults"
	"github.com/hpc-stack/skopos/pkg/errors"
)

// Result is the outcome of one task. Task is the original descriptor,
// always present, so callers can re-associate completion-ordered results
// with what was submitted.
type Result[T, R any] struct {
	Task  T
	Value R
	Err   error
}

// OK reports whether the task succeeded.
func (r Result[T, R]) OK() bool {
	return r.Err == nil
}

// MarshalJSON flattens the result for logs and payloads: the task's own
// fields inline, plus success, plus value on success or error on failure.
func (r Result[T, R]) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage)

	tb, err := json.Marshal(r.Task)
	if err != nil {
		return nil, err
	}
	// Inline when the task marshals to an object; otherwise keep it nested.
	if err := json.Unmarshal(tb, &fields); err != nil {
		fields = map[string]json.RawMessage{"task": tb}
	}

	if r.Err != nil {
		fields["error"], _ = json.Marshal(r.Err.Error())
		fields["success"] = json.RawMessage("false")
	} else {
		vb, err := json.Marshal(r.Value)
		if err != nil {
			return nil, err
		}
		fields["value"] = vb
		fields["success"] = json.RawMessage("true")
	}

	return json.Marshal(fields)
}

// Run executes handler once per task through a pool of at most workers
// goroutines and returns one Result per task, in completion order. It
// blocks until every task has finished: a handler error or panic becomes
// that task's Result, never a batch abort, and siblings keep running.
// ctx is handed to the handler as-is; cancellation surfaces as per-task
// errors, not as missing results.
//
// workers <= 0 selects the default pool size.
func Run[T, R any](ctx context.Context, workers int, tasks []T, handler func(ctx context.Context, task T) (R, error)) []Result[T, R] {
	if workers <= 0 {
		workers = defaults.FanoutWorkers
	}

	p := pool.New().WithMaxGoroutines(workers)
	resultsChan := make(chan Result[T, R], len(tasks))

	for _, task := range tasks {
		p.Go(func() {
			value, err := runOne(ctx, task, handler)
			resultsChan <- Result[T, R]{Task: task, Value: value, Err: err}
		})
	}

	p.Wait()
	close(resultsChan)

	results := make([]Result[T, R], 0, len(tasks))
	for r := range resultsChan {
		results = append(results, r)
	}
	return results
}

// runOne isolates one handler call, converting an escaped panic into an error.
func runOne[T, R any](ctx context.Context, task T, handler func(context.Context, T) (R, error)) (value R, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("task handler panicked",
				"panic", rec,
				"stack", string(debug.Stack()))
			err = errors.Wrap(errors.ErrCodeInternal, "task handler panicked", fmt.Errorf("%v", rec))
		}
	}()
	return handler(ctx, task)
}
