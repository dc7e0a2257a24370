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
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// keyKind separates text-keyed lookups from statement-keyed lookups. The
// two key flavors are disjoint keyspaces: a text lookup never collides with
// a statement lookup even when the statement renders to identical CQL.
type keyKind uint8

const (
	kindCQL keyKind = iota
	kindStatement
)

// Key identifies one cache entry: the cluster and keyspace the statement
// was prepared against, the statement text and its structural hash. All
// fields participate in equality.
type Key struct {
	// Cluster identity of the connection
	Cluster string
	// Keyspace the statement resolves unqualified table references in
	Keyspace string
	// CQL statement text
	CQL string
	// Hash is the structural hash of the statement
	Hash uint64

	kind keyKind
}

// NewKeyCQL derives the cache key for a text-keyed lookup.
func NewKeyCQL(session Session, cql string) Key {
	return Key{
		Cluster:  session.ClusterID(),
		Keyspace: session.Keyspace(),
		CQL:      cql,
		Hash:     xxhash.Sum64String(cql),
		kind:     kindCQL,
	}
}

// NewKey derives the cache key for a statement-keyed lookup.
func NewKey(session Session, stmt Statement) Key {
	return Key{
		Cluster:  session.ClusterID(),
		Keyspace: session.Keyspace(),
		CQL:      stmt.CQL(),
		Hash:     stmt.StructuralHash(),
		kind:     kindStatement,
	}
}

// flightKey is the serialized form used for preparation deduplication and
// string-keyed backing stores.
func (k Key) flightKey() string {
	return fmt.Sprintf("%d\x00%s\x00%s\x00%d\x00%s",
		k.kind, k.Cluster, k.Keyspace, k.Hash, k.CQL)
}
