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
Package mapping derives Cassandra table and column metadata from Go types and
keeps it in a process wide registry. There are three major components of this
layer:

  - Property/Entity - the structural metadata of one mapped field and one
    mapped type. An Entity aggregates the Properties of its type in key
    order (partition key columns first, then clustering key columns by
    ordinal, then regular columns in declaration order), carries the
    resolved table or user defined type name and remembers whether the
    type passed structural verification.

  - Registry - holds every known Entity, indexed by Go type and by table
    name. Entities are built lazily on first lookup from the metadata a
    SourceResolver extracts (the registry itself never inspects struct
    tags), verified by a pluggable Verifier chain and then memoized for
    the registry's lifetime. A rejected type leaves no trace in any index.

  - Specifications - deterministic projections of a verified Entity into
    the column lists needed to emit CREATE TABLE and CREATE TYPE
    statements for schema management tooling.
*/
package mapping
