// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package statementcache

import (
	"github.com/uber-go/tally"
)

// Metrics is a struct for tracking all the statement cache counters
type Metrics struct {
	Hit  tally.Counter
	Miss tally.Counter

	Prepare     tally.Counter
	PrepareFail tally.Counter

	Invalidate tally.Counter
}

// NewMetrics returns a new Metrics struct, with all metrics initialized
// under the statement_cache sub scope
func NewMetrics(scope tally.Scope) *Metrics {
	cacheScope := scope.SubScope("statement_cache")
	prepareScope := cacheScope.SubScope("prepare")
	return &Metrics{
		Hit:         cacheScope.Counter("hit"),
		Miss:        cacheScope.Counter("miss"),
		Prepare:     prepareScope.Counter("total"),
		PrepareFail: prepareScope.Counter("fail"),
		Invalidate:  cacheScope.Counter("invalidate"),
	}
}
