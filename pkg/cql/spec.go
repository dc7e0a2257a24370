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
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const (
	// createTableTemplate is used to construct a CREATE TABLE statement
	createTableTemplate = `CREATE TABLE {{.Table}} ({{ColumnDefs .Columns}}, ` +
		`PRIMARY KEY ({{KeyFunc .PartitionKeys .ClusteringKeys}}))` +
		`{{OrderFunc .ClusteringKeys}};`

	// createTypeTemplate is used to construct a CREATE TYPE statement
	createTypeTemplate = `CREATE TYPE {{.Type}} ({{ColumnDefs .Columns}});`
)

var (
	// function map for populating CQL templates
	specFuncMap = template.FuncMap{
		"ColumnDefs": columnDefsFunc,
		"KeyFunc":    primaryKeyFunc,
		"OrderFunc":  orderFunc,
	}

	createTableTmpl = template.Must(
		template.New("create_table").Funcs(specFuncMap).Parse(createTableTemplate))
	createTypeTmpl = template.Must(
		template.New("create_type").Funcs(specFuncMap).Parse(createTypeTemplate))
)

// ColumnSpec describes one column of a table or user defined type
// specification.
type ColumnSpec struct {
	// Name of the column
	Name Identifier
	// Type is the CQL type of the column
	Type string
	// KeyRole of the column within the primary key
	KeyRole KeyRole
	// Ordering of the column, meaningful for clustering key columns only
	Ordering Ordering
}

// TableSpec is a deterministic projection of an entity into the column lists
// needed to create its table: partition key columns ordered by ordinal, then
// clustering key columns ordered by ordinal carrying their declared ordering,
// then remaining columns in declaration order.
type TableSpec struct {
	// Name of the table
	Name Identifier

	partitionKeys  []ColumnSpec
	clusteringKeys []ColumnSpec
	columns        []ColumnSpec
}

// NewTableSpec creates an empty TableSpec for the named table.
func NewTableSpec(name Identifier) *TableSpec {
	return &TableSpec{Name: name}
}

// AddPartitionKeyColumn appends a partition key column to the specification.
func (s *TableSpec) AddPartitionKeyColumn(name Identifier, typ string) {
	s.partitionKeys = append(s.partitionKeys, ColumnSpec{
		Name:    name,
		Type:    typ,
		KeyRole: KeyRolePartitioned,
	})
}

// AddClusteredKeyColumn appends a clustering key column with its declared
// ordering to the specification.
func (s *TableSpec) AddClusteredKeyColumn(
	name Identifier, typ string, ordering Ordering) {
	s.clusteringKeys = append(s.clusteringKeys, ColumnSpec{
		Name:     name,
		Type:     typ,
		KeyRole:  KeyRoleClustered,
		Ordering: ordering,
	})
}

// AddColumn appends a regular column to the specification.
func (s *TableSpec) AddColumn(name Identifier, typ string) {
	s.columns = append(s.columns, ColumnSpec{Name: name, Type: typ})
}

// PartitionKeyColumns returns the partition key columns in ordinal order.
func (s *TableSpec) PartitionKeyColumns() []ColumnSpec {
	return s.partitionKeys
}

// ClusteredKeyColumns returns the clustering key columns in ordinal order.
func (s *TableSpec) ClusteredKeyColumns() []ColumnSpec {
	return s.clusteringKeys
}

// Columns returns all columns of the specification, key columns first.
func (s *TableSpec) Columns() []ColumnSpec {
	all := make([]ColumnSpec, 0,
		len(s.partitionKeys)+len(s.clusteringKeys)+len(s.columns))
	all = append(all, s.partitionKeys...)
	all = append(all, s.clusteringKeys...)
	all = append(all, s.columns...)
	return all
}

// CQL renders the CREATE TABLE statement for the specification.
func (s *TableSpec) CQL() (string, error) {
	var bb bytes.Buffer
	err := createTableTmpl.Execute(&bb, map[string]interface{}{
		"Table":          s.Name.CQL(),
		"Columns":        s.Columns(),
		"PartitionKeys":  s.partitionKeys,
		"ClusteringKeys": s.clusteringKeys,
	})
	return bb.String(), err
}

// TypeSpec is the projection of a user defined type entity into the column
// list needed to create it. Field order follows declaration order.
type TypeSpec struct {
	// Name of the user defined type
	Name Identifier

	columns []ColumnSpec
}

// NewTypeSpec creates an empty TypeSpec for the named user defined type.
func NewTypeSpec(name Identifier) *TypeSpec {
	return &TypeSpec{Name: name}
}

// AddColumn appends a field to the type specification.
func (s *TypeSpec) AddColumn(name Identifier, typ string) {
	s.columns = append(s.columns, ColumnSpec{Name: name, Type: typ})
}

// Columns returns the fields of the type specification.
func (s *TypeSpec) Columns() []ColumnSpec {
	return s.columns
}

// CQL renders the CREATE TYPE statement for the specification.
func (s *TypeSpec) CQL() (string, error) {
	var bb bytes.Buffer
	err := createTypeTmpl.Execute(&bb, map[string]interface{}{
		"Type":    s.Name.CQL(),
		"Columns": s.columns,
	})
	return bb.String(), err
}

// columnDefsFunc renders "name type" pairs for the column list of a CREATE
// statement
func columnDefsFunc(columns []ColumnSpec) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s %s", c.Name.CQL(), c.Type)
	}
	return strings.Join(defs, ", ")
}

// primaryKeyFunc renders the ((pk...), ck...) primary key clause
func primaryKeyFunc(partitionKeys, clusteringKeys []ColumnSpec) string {
	pks := make([]string, len(partitionKeys))
	for i, c := range partitionKeys {
		pks[i] = c.Name.CQL()
	}
	parts := []string{"(" + strings.Join(pks, ", ") + ")"}
	for _, c := range clusteringKeys {
		parts = append(parts, c.Name.CQL())
	}
	return strings.Join(parts, ", ")
}

// orderFunc renders the WITH CLUSTERING ORDER BY clause when any clustering
// key column declares an explicit ordering
func orderFunc(clusteringKeys []ColumnSpec) string {
	explicit := false
	for _, c := range clusteringKeys {
		if c.Ordering != OrderingUnspecified {
			explicit = true
			break
		}
	}
	if !explicit {
		return ""
	}
	orders := make([]string, len(clusteringKeys))
	for i, c := range clusteringKeys {
		orders[i] = fmt.Sprintf("%s %s", c.Name.CQL(), c.Ordering.CQL())
	}
	return " WITH CLUSTERING ORDER BY (" + strings.Join(orders, ", ") + ")"
}
