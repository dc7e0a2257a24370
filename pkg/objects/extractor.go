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

// Package objects extracts mapping metadata from annotated Go structs. It
// is the only package that inspects struct tags; the mapping registry
// consumes the extracted descriptors as plain data.
package objects

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"

	"github.com/uber/cqlmap/pkg/cql"
	"github.com/uber/cqlmap/pkg/mapping"
	"github.com/uber/cqlmap/pkg/objects/base"
)

var objectType = reflect.TypeOf((*base.Object)(nil)).Elem()

// Resolver extracts annotation metadata from struct tags. It implements
// mapping.SourceResolver.
type Resolver struct{}

var _ mapping.SourceResolver = (*Resolver)(nil)

// NewResolver creates a tag based Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// NewRegistry creates a mapping registry backed by tag extraction.
func NewRegistry(opts ...mapping.Option) *mapping.Registry {
	return mapping.NewRegistry(NewResolver(), opts...)
}

// Describe extracts the metadata of t. Types embedding base.Object must
// annotate every exported field; types without the marker are described
// with defaults, one regular column per exported field.
func (r *Resolver) Describe(t reflect.Type) (*mapping.TypeDescriptor, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Errorf("type %s is not a struct", t)
	}

	td := &mapping.TypeDescriptor{Type: t}
	annotated := false
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == objectType {
			annotated = true
			if err := parseObjectTag(f.Tag, td); err != nil {
				return nil, errors.Wrapf(err, "type %s", t)
			}
			continue
		}
		if f.PkgPath != "" { // unexported
			continue
		}
		fd := mapping.FieldDescriptor{Name: f.Name, Type: f.Type}
		tag, ok := f.Tag.Lookup("column")
		if ok {
			if err := parseColumnTag(tag, &fd); err != nil {
				return nil, errors.Wrapf(err, "field %s of type %s", f.Name, t)
			}
		}
		td.Fields = append(td.Fields, fd)
	}

	if annotated {
		for _, fd := range td.Fields {
			if fd.ColumnName == "" {
				return nil, errors.Errorf(
					"field %s of type %s has no column annotation", fd.Name, t)
			}
		}
	}
	return td, nil
}

// parseObjectTag parses the cassandra annotation on the embedded marker and
// fills the type level descriptor attributes.
func parseObjectTag(tag reflect.StructTag, td *mapping.TypeDescriptor) error {
	raw, ok := tag.Lookup("cassandra")
	if !ok {
		return errors.New("embedded base.Object carries no cassandra annotation")
	}

	var primaryKey string
	for _, entry := range splitTopLevel(raw) {
		key, value := splitEntry(entry)
		switch key {
		case "name":
			td.Name = value
		case "udt":
			td.UserDefinedType = true
			td.Name = value
		case "primaryKeyType":
			td.PrimaryKeyClass = true
		case "primaryKey":
			primaryKey = value
		case "forceQuote":
			td.ForceQuote = true
		case "":
		default:
			return errors.Errorf("unknown cassandra annotation %q", key)
		}
	}
	if primaryKey != "" {
		if err := applyPrimaryKey(primaryKey, td); err != nil {
			return err
		}
	}
	return nil
}

// parseColumnTag parses a field's column annotation.
func parseColumnTag(raw string, fd *mapping.FieldDescriptor) error {
	for _, entry := range splitTopLevel(raw) {
		key, value := splitEntry(entry)
		switch key {
		case "name":
			fd.ColumnName = value
		case "type":
			fd.CQLType = value
		case "udt":
			fd.UserType = value
		case "primaryKey":
			fd.PrimaryKey = true
		case "association":
			fd.Association = true
		case "forceQuote":
			fd.ForceQuote = true
		case "":
		default:
			return errors.Errorf("unknown column annotation %q", key)
		}
	}
	return nil
}

// applyPrimaryKey resolves a ((PK1,PK2..), CK1 asc, CK2 desc..) clause
// against the extracted fields, assigning key roles, ordinals and ordering
// by clause position.
func applyPrimaryKey(clause string, td *mapping.TypeDescriptor) error {
	clause = strings.TrimSpace(clause)
	if !strings.HasPrefix(clause, "(") || !strings.HasSuffix(clause, ")") {
		return errors.Errorf("malformed primaryKey clause %q", clause)
	}
	clause = strings.TrimSpace(clause[1 : len(clause)-1])
	if clause == "" {
		return errors.New("primaryKey clause declares no key column")
	}

	byColumn := map[string]*mapping.FieldDescriptor{}
	for i := range td.Fields {
		fd := &td.Fields[i]
		name := fd.ColumnName
		if name == "" {
			name = strings.ToLower(fd.Name)
		}
		byColumn[strings.ToLower(name)] = fd
	}

	parts := splitTopLevel(clause)
	ordinal := 0
	assign := func(ref string, role cql.KeyRole) error {
		name, ordering, err := parseKeyColumnRef(ref, role)
		if err != nil {
			return err
		}
		fd, ok := byColumn[name]
		if !ok {
			return errors.Errorf(
				"primaryKey clause references unknown column %q", name)
		}
		fd.Role = role
		fd.Ordinal = ordinal
		fd.Ordering = ordering
		ordinal++
		return nil
	}

	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i == 0 {
			// first element is the partition key, either one column or
			// a parenthesized group
			if strings.HasPrefix(part, "(") {
				if !strings.HasSuffix(part, ")") {
					return errors.Errorf("malformed partition key group %q", part)
				}
				group := strings.TrimSpace(part[1 : len(part)-1])
				if group == "" {
					return errors.New("primaryKey clause declares no key column")
				}
				for _, ref := range splitTopLevel(group) {
					if err := assign(ref, cql.KeyRolePartitioned); err != nil {
						return err
					}
				}
			} else if err := assign(part, cql.KeyRolePartitioned); err != nil {
				return err
			}
			continue
		}
		if err := assign(part, cql.KeyRoleClustered); err != nil {
			return err
		}
	}
	return nil
}

// parseKeyColumnRef splits "name asc" style key column references.
func parseKeyColumnRef(
	ref string, role cql.KeyRole) (string, cql.Ordering, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(ref)))
	switch len(fields) {
	case 1:
		return fields[0], cql.OrderingUnspecified, nil
	case 2:
		if role != cql.KeyRoleClustered {
			return "", 0, errors.Errorf(
				"partition key column %q must not declare an ordering", fields[0])
		}
		switch fields[1] {
		case "asc":
			return fields[0], cql.OrderingAscending, nil
		case "desc":
			return fields[0], cql.OrderingDescending, nil
		}
		return "", 0, errors.Errorf(
			"unknown ordering %q of key column %q", fields[1], fields[0])
	default:
		return "", 0, errors.Errorf("malformed key column reference %q", ref)
	}
}

// splitTopLevel splits a comma separated annotation, keeping parenthesized
// groups intact.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// splitEntry splits one "key=value" annotation entry; flag entries have an
// empty value.
func splitEntry(entry string) (string, string) {
	if idx := strings.IndexByte(entry, '='); idx >= 0 {
		return strings.TrimSpace(entry[:idx]), strings.TrimSpace(entry[idx+1:])
	}
	return strings.TrimSpace(entry), ""
}
