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

package mapping_test

import (
	"reflect"

	"github.com/uber/cqlmap/pkg/cql"
	"github.com/uber/cqlmap/pkg/mapping"
)

// TestCreateTableSpecOrdering tests that the generated specification lists
// partition keys, clustering keys with their ordering and then regular
// columns.
func (suite *RegistryTestSuite) TestCreateTableSpecOrdering() {
	e, err := suite.registry.Resolve(reflect.TypeOf(Animal{}))
	suite.NoError(err)

	spec, err := suite.registry.CreateTableSpec(e)
	suite.NoError(err)

	suite.Len(spec.PartitionKeyColumns(), 1)
	suite.Equal("species", spec.PartitionKeyColumns()[0].Name.Key())

	cluster := spec.ClusteredKeyColumns()
	suite.Len(cluster, 2)
	suite.Equal("breed", cluster[0].Name.Key())
	suite.Equal(cql.OrderingAscending, cluster[0].Ordering)
	suite.Equal("color", cluster[1].Name.Key())
	suite.Equal(cql.OrderingDescending, cluster[1].Ordering)

	stmt, err := spec.CQL()
	suite.NoError(err)
	suite.Contains(stmt, "CREATE TABLE animals")
	suite.Contains(stmt, "PRIMARY KEY ((species), breed, color)")
	suite.Contains(stmt, "CLUSTERING ORDER BY (breed ASC, color DESC)")
}

// TestCreateTableSpecFlattensKeyClass tests that a composite key class
// reference contributes its key columns to the referencing table.
func (suite *RegistryTestSuite) TestCreateTableSpecFlattensKeyClass() {
	e, err := suite.registry.Resolve(reflect.TypeOf(Order{}))
	suite.NoError(err)

	spec, err := suite.registry.CreateTableSpec(e)
	suite.NoError(err)

	suite.Len(spec.PartitionKeyColumns(), 1)
	suite.Equal("region", spec.PartitionKeyColumns()[0].Name.Key())
	suite.Len(spec.ClusteredKeyColumns(), 1)
	suite.Equal("orderid", spec.ClusteredKeyColumns()[0].Name.Key())

	stmt, err := spec.CQL()
	suite.NoError(err)
	suite.Contains(stmt, "PRIMARY KEY ((region), orderid)")
	suite.Contains(stmt, "amount double")
}

// TestCreateTableSpecUnknownType tests that unmappable fields are reported
// together, naming each field and its concrete type.
func (suite *RegistryTestSuite) TestCreateTableSpecUnknownType() {
	e, err := suite.registry.Resolve(reflect.TypeOf(Opaque{}))
	suite.NoError(err)

	_, err = suite.registry.CreateTableSpec(e)
	suite.Error(err)

	var resolutionErr *mapping.TypeResolutionError
	suite.ErrorAs(err, &resolutionErr)
	suite.Len(resolutionErr.Fields(), 1)
	suite.Equal("Payload", resolutionErr.Fields()[0].Field)
	suite.Contains(err.Error(), "unknown type [interface {}]")
	suite.Contains(err.Error(), `column "payload"`)
}

// TestCreateTableSpecAggregatesUnknownTypes tests that projection reports
// every unmappable field of an entity in one error.
func (suite *RegistryTestSuite) TestCreateTableSpecAggregatesUnknownTypes() {
	e, err := suite.registry.Resolve(reflect.TypeOf(Shapeless{}))
	suite.NoError(err)

	_, err = suite.registry.CreateTableSpec(e)
	suite.Error(err)

	var resolutionErr *mapping.TypeResolutionError
	suite.ErrorAs(err, &resolutionErr)
	suite.Len(resolutionErr.Fields(), 2)

	var fields []string
	for _, v := range resolutionErr.Fields() {
		fields = append(fields, v.Field)
	}
	suite.Equal([]string{"Payload", "Events"}, fields)
	suite.Contains(err.Error(), "unknown type [interface {}]")
	suite.Contains(err.Error(), "unknown type [chan int]")
}

// TestCreateTableSpecRejectsNonTables tests that user defined types and key
// classes cannot be projected into CREATE TABLE specifications.
func (suite *RegistryTestSuite) TestCreateTableSpecRejectsNonTables() {
	udt, err := suite.registry.Resolve(reflect.TypeOf(Address{}))
	suite.NoError(err)
	_, err = suite.registry.CreateTableSpec(udt)
	suite.Error(err)

	keyClass, err := suite.registry.Resolve(reflect.TypeOf(OrderKey{}))
	suite.NoError(err)
	_, err = suite.registry.CreateTableSpec(keyClass)
	suite.Error(err)
}

// TestCreateTypeSpec tests CREATE TYPE generation for a user defined type.
func (suite *RegistryTestSuite) TestCreateTypeSpec() {
	e, err := suite.registry.Resolve(reflect.TypeOf(Address{}))
	suite.NoError(err)

	spec, err := suite.registry.CreateTypeSpec(e)
	suite.NoError(err)

	stmt, err := spec.CQL()
	suite.NoError(err)
	suite.Contains(stmt, "CREATE TYPE address")
	suite.Contains(stmt, "street text")
	suite.Contains(stmt, "city text")
}

// TestUserTypeColumn tests that a field of a registered user defined type
// maps to a frozen column of that type.
func (suite *RegistryTestSuite) TestUserTypeColumn() {
	e, err := suite.registry.Resolve(reflect.TypeOf(Contact{}))
	suite.NoError(err)

	spec, err := suite.registry.CreateTableSpec(e)
	suite.NoError(err)

	stmt, err := spec.CQL()
	suite.NoError(err)
	suite.Contains(stmt, "address frozen<address>")
}
