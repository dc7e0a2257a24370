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
	"fmt"

	"github.com/pkg/errors"

	"github.com/uber/cqlmap/pkg/cql"
)

// CreateTableSpec projects a verified table entity into a CREATE TABLE
// specification: partition key columns by ordinal, clustering key columns by
// ordinal carrying their declared ordering, remaining columns in declaration
// order. Composite key class references are flattened into the key column
// lists. When any field's type cannot be mapped the returned
// TypeResolutionError enumerates every offending field of the entity.
func (r *Registry) CreateTableSpec(e *Entity) (*cql.TableSpec, error) {
	if e == nil {
		return nil, errors.New("entity must not be nil")
	}
	if e.IsUserDefinedType() || e.IsCompositePrimaryKey() {
		return nil, errors.Errorf(
			"entity %s does not map to a table", e.Name())
	}

	spec := cql.NewTableSpec(e.TableName())
	var offending []Violation
	for _, p := range e.Properties() {
		if p.CompositeKeyRef {
			r.appendKeyColumns(spec, p, &offending)
			continue
		}
		r.appendColumn(spec, p, &offending)
	}
	if len(offending) > 0 {
		return nil, newTypeResolutionError(e.Name(), offending)
	}
	if len(spec.PartitionKeyColumns()) == 0 {
		return nil, errors.Errorf(
			"entity %s defines no partition key column", e.Name())
	}
	return spec, nil
}

// CreateTypeSpec projects a verified user defined type entity into a CREATE
// TYPE specification with its fields in declaration order.
func (r *Registry) CreateTypeSpec(e *Entity) (*cql.TypeSpec, error) {
	if e == nil {
		return nil, errors.New("entity must not be nil")
	}
	if !e.IsUserDefinedType() {
		return nil, errors.Errorf(
			"entity %s is not a user defined type", e.Name())
	}

	spec := cql.NewTypeSpec(e.TableName())
	var offending []Violation
	for _, p := range e.Properties() {
		typ, err := r.types.Resolve(p)
		if err != nil {
			offending = append(offending, unknownTypeViolation(p))
			continue
		}
		spec.AddColumn(p.Column, typ)
	}
	if len(offending) > 0 {
		return nil, newTypeResolutionError(e.Name(), offending)
	}
	return spec, nil
}

// appendKeyColumns flattens the key columns of a composite key class
// reference into the table specification.
func (r *Registry) appendKeyColumns(
	spec *cql.TableSpec, ref *Property, offending *[]Violation) {
	nested, ok := r.byType.Load(typeKey(indirectType(ref.Type)))
	if !ok {
		*offending = append(*offending, Violation{
			Field:   ref.Name,
			Type:    fmt.Sprint(ref.Type),
			Message: "composite key class is not registered",
		})
		return
	}
	for _, p := range nested.Properties() {
		if p.CompositeKeyRef {
			r.appendKeyColumns(spec, p, offending)
			continue
		}
		r.appendColumn(spec, p, offending)
	}
}

func (r *Registry) appendColumn(
	spec *cql.TableSpec, p *Property, offending *[]Violation) {
	typ, err := r.types.Resolve(p)
	if err != nil {
		*offending = append(*offending, unknownTypeViolation(p))
		return
	}
	switch p.Role {
	case cql.KeyRolePartitioned:
		spec.AddPartitionKeyColumn(p.Column, typ)
	case cql.KeyRoleClustered:
		spec.AddClusteredKeyColumn(p.Column, typ, p.Ordering)
	default:
		spec.AddColumn(p.Column, typ)
	}
}

func unknownTypeViolation(p *Property) Violation {
	return Violation{
		Field:   p.Name,
		Type:    fmt.Sprint(p.Type),
		Message: fmt.Sprintf("unknown type [%s] for column %q", p.Type, p.Column.Key()),
	}
}
