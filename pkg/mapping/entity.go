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
	"strings"

	"github.com/uber/cqlmap/pkg/cql"
	"go.uber.org/atomic"
)

// Entity verification states. An entity enters stateVerifying exactly once,
// on first resolution, and ends in one of the two terminal states.
const (
	stateUnverified int32 = iota
	stateVerifying
	stateVerified
	stateRejected
)

// Entity is the structural metadata of one mapped Go type: its properties in
// key order, its table or user defined type name and its verification state.
type Entity struct {
	typ        reflect.Type
	simpleName string
	properties []*Property
	byName     map[string]*Property

	// tableName is memoized on first resolution; the zero identifier
	// means not yet computed
	tableName cql.Identifier

	compositePrimaryKey bool
	userDefinedType     bool

	state atomic.Int32
}

func newEntity(t reflect.Type, td *TypeDescriptor) *Entity {
	return &Entity{
		typ:                 t,
		simpleName:          t.Name(),
		byName:              map[string]*Property{},
		compositePrimaryKey: td.PrimaryKeyClass,
		userDefinedType:     td.UserDefinedType,
	}
}

func (e *Entity) addProperty(p *Property) {
	e.properties = append(e.properties, p)
	e.byName[p.Name] = p
}

// Type returns the Go type the entity describes.
func (e *Entity) Type() reflect.Type {
	return e.typ
}

// Name returns the simple name of the entity's Go type.
func (e *Entity) Name() string {
	return e.simpleName
}

// Properties returns the entity's properties ordered by key role tier,
// ordinal and declaration order.
func (e *Entity) Properties() []*Property {
	return e.properties
}

// Property returns the property with the given logical name, or nil.
func (e *Entity) Property(name string) *Property {
	return e.byName[name]
}

// IDProperty returns the single identifier property of the entity, or nil
// when the entity uses explicit key columns instead.
func (e *Entity) IDProperty() *Property {
	for _, p := range e.properties {
		if p.PrimaryKey {
			return p
		}
	}
	return nil
}

// PartitionKeyProperties returns the partition key properties in ordinal
// order.
func (e *Entity) PartitionKeyProperties() []*Property {
	var keys []*Property
	for _, p := range e.properties {
		if p.IsPartitionKeyColumn() {
			keys = append(keys, p)
		}
	}
	return keys
}

// ClusterKeyProperties returns the clustering key properties in ordinal
// order.
func (e *Entity) ClusterKeyProperties() []*Property {
	var keys []*Property
	for _, p := range e.properties {
		if p.IsClusterKeyColumn() {
			keys = append(keys, p)
		}
	}
	return keys
}

// TableName returns the resolved table or user defined type name. The name
// defaults to the entity's lower-cased simple type name and is memoized on
// first resolution.
func (e *Entity) TableName() cql.Identifier {
	if e.tableName.IsZero() {
		return e.defaultTableName()
	}
	return e.tableName
}

// SetTableName overrides the table name while the entity is being built.
// Once verification reaches a terminal state the name is fixed: the registry
// indexes the entity by it, so later overrides are ignored.
func (e *Entity) SetTableName(name cql.Identifier) {
	if s := e.state.Load(); s == stateVerified || s == stateRejected {
		return
	}
	e.tableName = name
}

func (e *Entity) defaultTableName() cql.Identifier {
	return cql.MustIdentifier(strings.ToLower(e.simpleName), false)
}

// IsCompositePrimaryKey reports whether the entity is a composite key class.
func (e *Entity) IsCompositePrimaryKey() bool {
	return e.compositePrimaryKey
}

// IsUserDefinedType reports whether the entity maps to a user defined type
// instead of a table.
func (e *Entity) IsUserDefinedType() bool {
	return e.userDefinedType
}

// IsVerified reports whether the entity passed structural verification.
func (e *Entity) IsVerified() bool {
	return e.state.Load() == stateVerified
}

// beginVerify transitions the entity into the verifying state. It returns
// false when verification already ran.
func (e *Entity) beginVerify() bool {
	return e.state.CompareAndSwap(stateUnverified, stateVerifying)
}

func (e *Entity) markVerified() {
	e.state.Store(stateVerified)
}

func (e *Entity) markRejected() {
	e.state.Store(stateRejected)
}
