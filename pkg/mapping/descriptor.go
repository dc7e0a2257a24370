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

package mapping

import (
	"reflect"

	"github.com/uber/cqlmap/pkg/cql"
)

// FieldDescriptor is the pre-extracted annotation metadata for one field of a
// mapped type. It is produced by a SourceResolver; the registry consumes it
// as data and never inspects the field itself.
type FieldDescriptor struct {
	// Name is the Go field name
	Name string
	// ColumnName is the explicit column name, defaults to the lower-cased
	// field name when empty
	ColumnName string
	// ForceQuote renders the column name double-quoted
	ForceQuote bool
	// PrimaryKey marks the field as the single identifier of its entity.
	// The field either is the whole key (a composite key class reference)
	// or the sole partition key column.
	PrimaryKey bool
	// Role is the explicit key role of the column
	Role cql.KeyRole
	// Ordinal is the position among key columns, meaningful for key roles
	Ordinal int
	// Ordering is the declared clustering order
	Ordering cql.Ordering
	// Type is the Go type of the field
	Type reflect.Type
	// CQLType overrides data type resolution with an explicit CQL type
	CQLType string
	// UserType maps the column to the named user defined type
	UserType string
	// Association declares a relational association. Cassandra has no
	// associations, so declaring one is a verification violation.
	Association bool
}

// TypeDescriptor is the pre-extracted annotation metadata for one mapped Go
// type.
type TypeDescriptor struct {
	// Type is the described Go type
	Type reflect.Type
	// Name is the explicit table or user defined type name, optional
	Name string
	// ForceQuote renders the table name double-quoted
	ForceQuote bool
	// UserDefinedType marks the type as a CREATE TYPE target instead of a
	// table
	UserDefinedType bool
	// PrimaryKeyClass marks the type as a composite key aggregate whose
	// fields collectively form another entity's primary key
	PrimaryKeyClass bool
	// Fields lists the field metadata in declaration order
	Fields []FieldDescriptor
}

// SourceResolver yields annotation metadata for a Go type. Implementations
// own all struct tag or reflection concerns; the mapping core treats the
// returned descriptor as plain data.
type SourceResolver interface {
	// Describe returns the metadata of t. Describing a type must have no
	// side effects; the registry may describe a type without registering
	// it.
	Describe(t reflect.Type) (*TypeDescriptor, error)
}

// ConverterRegistry answers whether a registered custom conversion claims a
// type. Claimed types are opaque scalars and never become entities.
type ConverterRegistry interface {
	HasCustomConversion(t reflect.Type) bool
}

// ConversionSet is a ConverterRegistry backed by a fixed set of types.
type ConversionSet map[reflect.Type]struct{}

// NewConversionSet creates a ConversionSet claiming the given types.
func NewConversionSet(types ...reflect.Type) ConversionSet {
	s := make(ConversionSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// HasCustomConversion reports whether t is claimed by the set.
func (s ConversionSet) HasCustomConversion(t reflect.Type) bool {
	_, ok := s[t]
	return ok
}
