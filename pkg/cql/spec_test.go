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

package cql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSpecCQL(t *testing.T) {
	spec := NewTableSpec(MustIdentifier("animals", false))
	spec.AddPartitionKeyColumn(MustIdentifier("species", false), "text")
	spec.AddClusteredKeyColumn(
		MustIdentifier("breed", false), "text", OrderingAscending)
	spec.AddClusteredKeyColumn(
		MustIdentifier("color", false), "text", OrderingDescending)
	spec.AddColumn(MustIdentifier("name", false), "text")

	stmt, err := spec.CQL()
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE animals (species text, breed text, color text, "+
			"name text, PRIMARY KEY ((species), breed, color)) "+
			"WITH CLUSTERING ORDER BY (breed ASC, color DESC);",
		stmt)
}

func TestTableSpecCQLNoClusteringOrder(t *testing.T) {
	spec := NewTableSpec(MustIdentifier("jobs", false))
	spec.AddPartitionKeyColumn(MustIdentifier("job_id", false), "uuid")
	spec.AddColumn(MustIdentifier("state", false), "text")

	stmt, err := spec.CQL()
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE jobs (job_id uuid, state text, "+
			"PRIMARY KEY ((job_id)));",
		stmt)
}

func TestTableSpecCQLCompositePartitionKey(t *testing.T) {
	spec := NewTableSpec(MustIdentifier("events", false))
	spec.AddPartitionKeyColumn(MustIdentifier("region", false), "text")
	spec.AddPartitionKeyColumn(MustIdentifier("day", false), "date")
	spec.AddClusteredKeyColumn(
		MustIdentifier("ts", false), "timestamp", OrderingUnspecified)

	stmt, err := spec.CQL()
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TABLE events (region text, day date, ts timestamp, "+
			"PRIMARY KEY ((region, day), ts));",
		stmt)
}

func TestTableSpecCQLQuotedIdentifiers(t *testing.T) {
	spec := NewTableSpec(MustIdentifier("Order", false))
	spec.AddPartitionKeyColumn(MustIdentifier("id", false), "uuid")

	stmt, err := spec.CQL()
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "Order" (id uuid, PRIMARY KEY ((id)));`, stmt)
}

func TestTypeSpecCQL(t *testing.T) {
	spec := NewTypeSpec(MustIdentifier("address", false))
	spec.AddColumn(MustIdentifier("street", false), "text")
	spec.AddColumn(MustIdentifier("city", false), "text")

	stmt, err := spec.CQL()
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TYPE address (street text, city text);", stmt)
}

func TestOrderingCQL(t *testing.T) {
	assert.Equal(t, "ASC", OrderingAscending.CQL())
	assert.Equal(t, "DESC", OrderingDescending.CQL())
}
