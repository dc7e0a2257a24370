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
	"go.uber.org/multierr"
)

// ErrUnsupportedOperation marks violations of rules that are meaningless in
// the Cassandra model, such as declaring a relational association. It
// surfaces through MappingError, so errors.Is(err, ErrUnsupportedOperation)
// holds for entities rejected on such a rule.
var ErrUnsupportedOperation = errors.New("unsupported cassandra operation")

// Violation is one structural rule violation found while verifying an entity
// or resolving its column types.
type Violation struct {
	// Field is the offending field name, empty for entity level violations
	Field string
	// Type is the concrete Go type involved
	Type string
	// Message describes the violated rule
	Message string

	// cause is the sentinel behind the violation, if any
	cause error
}

func (v Violation) Error() string {
	if v.Field == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: field %q of type %s", v.Message, v.Field, v.Type)
}

// Unwrap exposes the sentinel behind the violation so callers can test with
// errors.Is, for example against ErrUnsupportedOperation.
func (v Violation) Unwrap() error {
	return v.cause
}

// MappingError is the aggregate verification failure of one entity. It
// carries every violation found by the verifier chain so callers never need
// to re-run verification to enumerate problems.
type MappingError struct {
	// Entity is the simple name of the rejected type
	Entity string

	violations []Violation
}

func newMappingError(entity string, violations []Violation) *MappingError {
	return &MappingError{Entity: entity, violations: violations}
}

// Violations returns every individual rule violation.
func (e *MappingError) Violations() []Violation {
	return e.violations
}

// Unwrap exposes the individual violations to errors.Is and errors.As.
func (e *MappingError) Unwrap() []error {
	errs := make([]error, len(e.violations))
	for i, v := range e.violations {
		errs[i] = v
	}
	return errs
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping verification of entity %s failed: %v",
		e.Entity, multierr.Combine(e.Unwrap()...))
}

// TypeResolutionError is the aggregate failure of projecting an entity into
// a table or type specification. One entry per field whose type could not be
// mapped to a column type.
type TypeResolutionError struct {
	// Entity is the simple name of the projected type
	Entity string

	fields []Violation
}

func newTypeResolutionError(entity string, fields []Violation) *TypeResolutionError {
	return &TypeResolutionError{Entity: entity, fields: fields}
}

// Fields returns one violation per unmappable field, naming the field and
// its concrete type.
func (e *TypeResolutionError) Fields() []Violation {
	return e.fields
}

func (e *TypeResolutionError) Error() string {
	errs := make([]error, len(e.fields))
	for i, v := range e.fields {
		errs[i] = v
	}
	return fmt.Sprintf("cannot resolve column types of entity %s: %v",
		e.Entity, multierr.Combine(errs...))
}
