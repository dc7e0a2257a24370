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
	"strings"

	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/uber/cqlmap/pkg/cql"
)

// Registry holds every known Entity, indexed by Go type and by resolved
// table name. Lookups vastly outnumber insertions once the mapped type set
// stabilizes, so both indices are concurrent read-optimized maps; building
// and verifying a previously unseen type is serialized per type so that
// concurrent first lookups observe one descriptor and one verification run.
type Registry struct {
	source      SourceResolver
	verifier    Verifier
	types       TypeResolver
	conversions ConverterRegistry

	byType *xsync.MapOf[string, *Entity]
	byName *xsync.MapOf[string, *Entity]
	group  singleflight.Group
}

// Option configures a Registry.
type Option func(*Registry)

// WithVerifier replaces the default verifier chain.
func WithVerifier(v Verifier) Option {
	return func(r *Registry) { r.verifier = v }
}

// WithTypeResolver replaces the default Go type to CQL type resolution.
func WithTypeResolver(t TypeResolver) Option {
	return func(r *Registry) { r.types = t }
}

// WithConverterRegistry installs the custom conversion collaborator
// consulted by ShouldMap.
func WithConverterRegistry(c ConverterRegistry) Option {
	return func(r *Registry) { r.conversions = c }
}

// NewRegistry creates a Registry that builds entities from the metadata
// source extracts.
func NewRegistry(source SourceResolver, opts ...Option) *Registry {
	r := &Registry{
		source: source,
		types:  NewDefaultTypeResolver(),
		byType: xsync.NewMapOf[string, *Entity](),
		byName: xsync.NewMapOf[string, *Entity](),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.verifier == nil {
		r.verifier = DefaultVerifier(r.types)
	}
	return r
}

// Resolve returns the entity of t, building and verifying it on first
// lookup. Verification failures leave no partial state: the type appears in
// no index afterwards and the returned MappingError lists every violation.
func (r *Registry) Resolve(t reflect.Type) (*Entity, error) {
	return r.resolve(indirectType(t), map[string]bool{})
}

func (r *Registry) resolve(
	t reflect.Type, visiting map[string]bool) (*Entity, error) {
	key := typeKey(t)
	if e, ok := r.byType.Load(key); ok {
		return e, nil
	}
	if visiting[key] {
		return nil, errors.Errorf(
			"circular entity reference involving type %s", t)
	}
	visiting[key] = true
	defer delete(visiting, key)

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		if e, ok := r.byType.Load(key); ok {
			return e, nil
		}
		return r.build(t, visiting)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entity), nil
}

// resolveNested resolves an entity referenced from another entity's field.
// Nested entities are built inline instead of joining another flight: a
// goroutine never waits on a second flight key, so concurrent first lookups
// of mutually referencing types error out on the cycle instead of
// deadlocking. Duplicate inline builds lose against the registered entity in
// the index.
func (r *Registry) resolveNested(
	t reflect.Type, visiting map[string]bool) (*Entity, error) {
	key := typeKey(t)
	if e, ok := r.byType.Load(key); ok {
		return e, nil
	}
	if visiting[key] {
		return nil, errors.Errorf(
			"circular entity reference involving type %s", t)
	}
	visiting[key] = true
	defer delete(visiting, key)
	return r.build(t, visiting)
}

// build extracts, verifies and registers the entity of t. Nested composite
// key classes and user defined types encountered on fields are resolved
// recursively and registered as entities of their own.
func (r *Registry) build(
	t reflect.Type, visiting map[string]bool) (*Entity, error) {
	if !r.ShouldMap(t) {
		return nil, errors.Errorf(
			"type %s is not a mappable entity type", t)
	}

	td, err := r.source.Describe(t)
	if err != nil {
		return nil, errors.Wrapf(err, "describing type %s", t)
	}

	e := newEntity(t, td)
	if td.Name != "" {
		name, err := cql.NewIdentifier(td.Name, td.ForceQuote)
		if err != nil {
			return nil, errors.Wrapf(err, "table name of type %s", t)
		}
		e.SetTableName(name)
	}

	for i, f := range td.Fields {
		p, err := r.buildProperty(i, f, visiting)
		if err != nil {
			return nil, err
		}
		e.addProperty(p)
	}
	sortProperties(e.properties)

	if !e.beginVerify() {
		// a freshly built entity is always unverified
		return nil, errors.Errorf("type %s is already being verified", t)
	}
	if violations := r.verifier.Verify(e); len(violations) > 0 {
		e.markRejected()
		return nil, newMappingError(e.Name(), violations)
	}
	e.SetTableName(e.TableName())
	e.markVerified()

	actual, loaded := r.byType.LoadOrStore(typeKey(t), e)
	if loaded {
		return actual, nil
	}
	if !e.IsCompositePrimaryKey() {
		nameKey := e.TableName().Key()
		if prev, ok := r.byName.LoadOrStore(nameKey, e); ok && prev.Type() != t {
			log.WithFields(log.Fields{
				"table":    nameKey,
				"existing": prev.Name(),
				"entity":   e.Name(),
			}).Warn("table name already mapped by another entity")
		}
	}
	log.WithFields(log.Fields{
		"entity": e.Name(),
		"table":  e.TableName().Key(),
		"udt":    e.IsUserDefinedType(),
	}).Debug("registered entity")
	return e, nil
}

func (r *Registry) buildProperty(
	index int, f FieldDescriptor, visiting map[string]bool) (*Property, error) {
	columnName := f.ColumnName
	if columnName == "" {
		columnName = strings.ToLower(f.Name)
	}
	column, err := cql.NewIdentifier(columnName, f.ForceQuote)
	if err != nil {
		return nil, errors.Wrapf(err, "column name of field %s", f.Name)
	}

	p := &Property{
		Name:        f.Name,
		Column:      column,
		PrimaryKey:  f.PrimaryKey,
		Role:        f.Role,
		Ordinal:     f.Ordinal,
		Ordering:    f.Ordering,
		Type:        f.Type,
		CQLType:     f.CQLType,
		UserType:    f.UserType,
		Association: f.Association,
		index:       index,
	}

	// a primary key field is the sole partition key column unless its type
	// turns out to be a composite key class below
	if p.PrimaryKey {
		p.Role = cql.KeyRolePartitioned
		p.Ordinal = 0
	}

	ft := indirectType(f.Type)
	if ft != nil && ft.Kind() == reflect.Struct && r.ShouldMap(ft) {
		// plain struct fields without entity metadata stay unresolved
		// here and are reported by specification building instead
		ntd, err := r.source.Describe(ft)
		if err != nil {
			return p, nil
		}
		switch {
		case ntd.PrimaryKeyClass:
			if _, err := r.resolveNested(ft, visiting); err != nil {
				return nil, err
			}
			p.CompositeKeyRef = true
		case ntd.UserDefinedType:
			nested, err := r.resolveNested(ft, visiting)
			if err != nil {
				return nil, err
			}
			if p.UserType == "" {
				p.UserType = nested.TableName().Key()
			}
		}
	}
	return p, nil
}

// Contains reports whether t resolved to a verified entity.
func (r *Registry) Contains(t reflect.Type) bool {
	_, ok := r.byType.Load(typeKey(indirectType(t)))
	return ok
}

// ContainsTable reports whether the named table maps to a registered table
// entity. Name comparison follows identifier normalization.
func (r *Registry) ContainsTable(name string) bool {
	e, ok := r.byName.Load(strings.ToLower(name))
	return ok && !e.IsUserDefinedType()
}

// TableEntities returns the registered entities that map to tables: no
// composite key classes, no user defined types. Order is deterministic by
// table name.
func (r *Registry) TableEntities() []*Entity {
	return r.entities(func(e *Entity) bool {
		return !e.IsCompositePrimaryKey() && !e.IsUserDefinedType()
	})
}

// UserDefinedTypeEntities returns the registered user defined type entities
// in deterministic name order.
func (r *Registry) UserDefinedTypeEntities() []*Entity {
	return r.entities(func(e *Entity) bool { return e.IsUserDefinedType() })
}

// Entities returns all registered entities, optionally including user
// defined types.
func (r *Registry) Entities(includeUserDefinedTypes bool) []*Entity {
	return r.entities(func(e *Entity) bool {
		return includeUserDefinedTypes || !e.IsUserDefinedType()
	})
}

func (r *Registry) entities(match func(*Entity) bool) []*Entity {
	var out []*Entity
	r.byType.Range(func(_ string, e *Entity) bool {
		if match(e) {
			out = append(out, e)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].TableName().Key() < out[j].TableName().Key()
	})
	return out
}

// UsesUserType reports whether any registered entity is, or has a column
// of, the named user defined type.
func (r *Registry) UsesUserType(name string) bool {
	key := strings.ToLower(name)
	used := false
	r.byType.Range(func(_ string, e *Entity) bool {
		if e.IsUserDefinedType() && e.TableName().Key() == key {
			used = true
			return false
		}
		for _, p := range e.Properties() {
			if strings.ToLower(p.UserType) == key {
				used = true
				return false
			}
		}
		return true
	})
	return used
}

// Remove evicts the entity of t from every index, for example on a hot
// reload of mappings. The caller owns the consistency obligation of
// invalidating any cached statements that referenced the entity's table.
// Remove reports whether an entity was registered.
func (r *Registry) Remove(t reflect.Type) bool {
	t = indirectType(t)
	e, ok := r.byType.LoadAndDelete(typeKey(t))
	if !ok {
		return false
	}
	if cur, ok := r.byName.Load(e.TableName().Key()); ok && cur == e {
		r.byName.Delete(e.TableName().Key())
	}
	log.WithFields(log.Fields{
		"entity": e.Name(),
		"table":  e.TableName().Key(),
	}).Debug("removed entity")
	return true
}

// ShouldMap reports whether t is a candidate entity type: a struct not
// claimed by a custom conversion and not mappable as a plain scalar or
// collection.
func (r *Registry) ShouldMap(t reflect.Type) bool {
	t = indirectType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}
	if r.conversions != nil && r.conversions.HasCustomConversion(t) {
		return false
	}
	return !isScalarType(t)
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func typeKey(t reflect.Type) string {
	return t.PkgPath() + "." + t.String()
}
