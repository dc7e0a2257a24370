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

/*
Package statementcache deduplicates statement preparation against a live
Cassandra connection. Preparing a statement is a network round trip, so for
a fixed cache key the preparation routine runs at most once even when many
callers race on a cold cache; every racing caller observes the single
resulting prepared statement, or the single preparation error.

Keys are derived from the session's logical identity (cluster and keyspace),
never from the session handle itself, so equivalent connections to the same
cluster and keyspace share entries while distinct keyspaces never do:
unqualified table references resolve differently per keyspace.

Preparation failures are propagated to the racing callers and never stored;
the next call with the same key retries preparation. The backing store is
pluggable, so a bounded store can replace the default unbounded map without
changing the cache's semantics.
*/
package statementcache
