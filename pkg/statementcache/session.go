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

import "context"

// Session is the subset of a driver session the cache needs: a logical
// identity for key derivation and the ability to prepare CQL text.
type Session interface {
	// ClusterID identifies the cluster the session is connected to.
	// Sessions to the same cluster must return the same id regardless of
	// the handle they are represented by.
	ClusterID() string

	// Keyspace returns the logical keyspace the session operates in.
	Keyspace() string

	// Prepare compiles the statement against the connection. It blocks on
	// the network round trip and returns either the prepared statement or
	// the driver's error.
	Prepare(ctx context.Context, cql string) (PreparedStatement, error)
}

// PreparedStatement is a connection-bound compiled statement. The cache
// treats it as opaque; driver adapters expose execution on their concrete
// types.
type PreparedStatement interface {
	// CQL returns the statement text the prepared statement was compiled
	// from.
	CQL() string
}

// PrepareFunc produces a prepared statement on a cache miss.
type PrepareFunc func(ctx context.Context) (PreparedStatement, error)
