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
	"sort"

	"github.com/uber/cqlmap/pkg/cql"
)

// Property is the resolved metadata of one mapped field: the column it maps
// to, its key role and its data type information.
type Property struct {
	// Name is the logical (Go field) name
	Name string
	// Column is the resolved column identifier
	Column cql.Identifier
	// PrimaryKey marks the single identifier field of the entity
	PrimaryKey bool
	// Role is the key role of the column
	Role cql.KeyRole
	// Ordinal is the position among key columns of the entity
	Ordinal int
	// Ordering is the declared clustering order
	Ordering cql.Ordering
	// Type is the Go type of the field
	Type reflect.Type
	// CQLType is an explicit data type override, empty when resolution
	// should derive the type from Type
	CQLType string
	// UserType names the user defined type the column maps to
	UserType string
	// CompositeKeyRef is set when Type is itself a composite key class
	CompositeKeyRef bool
	// Association declares a relational association
	Association bool

	// index is the declaration order within the entity
	index int
}

// IsPrimaryKeyColumn reports whether the property is part of the primary key.
func (p *Property) IsPrimaryKeyColumn() bool {
	return p.Role != cql.KeyRoleNone
}

// IsPartitionKeyColumn reports whether the property is a partition key
// column.
func (p *Property) IsPartitionKeyColumn() bool {
	return p.Role == cql.KeyRolePartitioned
}

// IsClusterKeyColumn reports whether the property is a clustering key column.
func (p *Property) IsClusterKeyColumn() bool {
	return p.Role == cql.KeyRoleClustered
}

// roleTier maps key roles to their sort tier: partition key columns sort
// before clustering key columns, regular columns last. This ordering is
// load-bearing for CREATE TABLE column lists.
func roleTier(r cql.KeyRole) int {
	switch r {
	case cql.KeyRolePartitioned:
		return 0
	case cql.KeyRoleClustered:
		return 1
	default:
		return 2
	}
}

// sortProperties orders properties by key role tier, then ordinal, then
// declaration order. The sort is stable so regular columns keep their
// declaration order.
func sortProperties(props []*Property) {
	sort.SliceStable(props, func(i, j int) bool {
		ti, tj := roleTier(props[i].Role), roleTier(props[j].Role)
		if ti != tj {
			return ti < tj
		}
		if ti < 2 && props[i].Ordinal != props[j].Ordinal {
			return props[i].Ordinal < props[j].Ordinal
		}
		return props[i].index < props[j].index
	})
}
