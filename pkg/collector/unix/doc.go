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

// Package unix collects the scheduler-agnostic categories shared by the
// batch-system drivers: filesystem usage via POSIX df and login-node
// load via a parallel uptime fan-out. Parsing follows the same row
// discipline as the scheduler tables: malformed rows are logged and
// skipped, never fatal.
package unix
