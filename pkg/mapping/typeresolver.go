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
	"reflect"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
)

// TypeResolver maps a property's Go type to a CQL column type. An explicit
// type annotation on the property always wins over derived resolution.
type TypeResolver interface {
	Resolve(p *Property) (string, error)
}

var (
	timeType      = reflect.TypeOf(time.Time{})
	gocqlUUIDType = reflect.TypeOf(gocql.UUID{})
	byteSliceType = reflect.TypeOf([]byte(nil))
)

type defaultTypeResolver struct{}

// NewDefaultTypeResolver returns the standard Go type to CQL type mapping.
func NewDefaultTypeResolver() TypeResolver {
	return defaultTypeResolver{}
}

func (defaultTypeResolver) Resolve(p *Property) (string, error) {
	if p.CQLType != "" {
		return p.CQLType, nil
	}
	if p.UserType != "" {
		return fmt.Sprintf("frozen<%s>", p.UserType), nil
	}
	return resolveGoType(p.Type)
}

// resolveGoType derives the CQL type for a Go type. C* internally uses int
// and bigint for the integral families.
func resolveGoType(t reflect.Type) (string, error) {
	if t == nil {
		return "", errors.New("cannot resolve a nil type")
	}

	switch t {
	case timeType:
		return "timestamp", nil
	case gocqlUUIDType:
		return "uuid", nil
	case byteSliceType:
		return "blob", nil
	}

	switch t.Kind() {
	case reflect.String:
		return "text", nil
	case reflect.Bool:
		return "boolean", nil
	case reflect.Int8, reflect.Uint8:
		return "tinyint", nil
	case reflect.Int16, reflect.Uint16:
		return "smallint", nil
	case reflect.Int, reflect.Int32, reflect.Uint32:
		return "int", nil
	case reflect.Int64, reflect.Uint64:
		return "bigint", nil
	case reflect.Float32:
		return "float", nil
	case reflect.Float64:
		return "double", nil
	case reflect.Ptr:
		return resolveGoType(t.Elem())
	case reflect.Slice:
		elem, err := resolveGoType(t.Elem())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("list<%s>", elem), nil
	case reflect.Map:
		key, err := resolveGoType(t.Key())
		if err != nil {
			return "", err
		}
		val, err := resolveGoType(t.Elem())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("map<%s, %s>", key, val), nil
	default:
		return "", errors.Errorf("unknown type [%s]", t)
	}
}

// isScalarType reports whether t maps to a plain CQL scalar or collection
// and therefore never becomes an entity of its own.
func isScalarType(t reflect.Type) bool {
	_, err := resolveGoType(t)
	return err == nil
}
