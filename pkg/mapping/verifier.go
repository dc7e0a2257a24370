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

import "fmt"

// Verifier checks one structural rule of an entity and contributes zero or
// more violations. Verifiers must be independent of each other; the chain
// collects all violations before the entity is rejected.
type Verifier interface {
	Verify(e *Entity) []Violation
}

// CompositeVerifier runs an ordered chain of verifiers and concatenates
// their violations.
type CompositeVerifier struct {
	verifiers []Verifier
}

// NewCompositeVerifier creates a verifier chain from the given verifiers.
func NewCompositeVerifier(verifiers ...Verifier) *CompositeVerifier {
	return &CompositeVerifier{verifiers: verifiers}
}

// DefaultVerifier returns the standard chain: identifier strategy
// uniqueness, key ordinal uniqueness, association rejection and composite
// key class field rules. The resolver is used to decide whether key class
// fields are primitive-mappable.
func DefaultVerifier(resolver TypeResolver) *CompositeVerifier {
	return NewCompositeVerifier(
		identifierStrategyVerifier{},
		keyOrdinalVerifier{},
		associationVerifier{},
		primaryKeyClassVerifier{resolver: resolver},
	)
}

// Verify runs the whole chain and returns every violation found.
func (c *CompositeVerifier) Verify(e *Entity) []Violation {
	var violations []Violation
	for _, v := range c.verifiers {
		violations = append(violations, v.Verify(e)...)
	}
	return violations
}

// identifierStrategyVerifier checks that an entity declares at most one
// identifier strategy: either a single primary key field (plain or composite
// key class reference) or explicit key role columns, never both.
type identifierStrategyVerifier struct{}

func (identifierStrategyVerifier) Verify(e *Entity) []Violation {
	var idFields, keyColumns []*Property
	for _, p := range e.Properties() {
		switch {
		case p.PrimaryKey:
			idFields = append(idFields, p)
		case p.IsPrimaryKeyColumn():
			keyColumns = append(keyColumns, p)
		}
	}

	var violations []Violation
	if len(idFields) > 1 {
		for _, p := range idFields[1:] {
			violations = append(violations, Violation{
				Field:   p.Name,
				Type:    fmt.Sprint(p.Type),
				Message: "entity declares more than one primary key field",
			})
		}
	}
	if len(idFields) > 0 && len(keyColumns) > 0 {
		for _, p := range keyColumns {
			violations = append(violations, Violation{
				Field: p.Name,
				Type:  fmt.Sprint(p.Type),
				Message: "entity mixes a primary key field with explicit " +
					"primary key columns",
			})
		}
	}
	return violations
}

// keyOrdinalVerifier checks that ordinals among the key columns of one
// entity are unique, so they define a total order.
type keyOrdinalVerifier struct{}

func (keyOrdinalVerifier) Verify(e *Entity) []Violation {
	seen := map[int]*Property{}
	var violations []Violation
	for _, p := range e.Properties() {
		if !p.IsPrimaryKeyColumn() || p.PrimaryKey {
			continue
		}
		if prev, ok := seen[p.Ordinal]; ok {
			violations = append(violations, Violation{
				Field: p.Name,
				Type:  fmt.Sprint(p.Type),
				Message: fmt.Sprintf(
					"key column ordinal %d already used by field %q",
					p.Ordinal, prev.Name),
			})
			continue
		}
		seen[p.Ordinal] = p
	}
	return violations
}

// associationVerifier rejects relational associations. Declaring one is a
// violation, never silently ignored.
type associationVerifier struct{}

func (associationVerifier) Verify(e *Entity) []Violation {
	var violations []Violation
	for _, p := range e.Properties() {
		if p.Association {
			violations = append(violations, Violation{
				Field:   p.Name,
				Type:    fmt.Sprint(p.Type),
				Message: "cassandra does not support associations",
				cause:   ErrUnsupportedOperation,
			})
		}
	}
	return violations
}

// primaryKeyClassVerifier checks composite key classes: every field must be
// a key column and every field type must be primitive-mappable or itself a
// nested composite key class.
type primaryKeyClassVerifier struct {
	resolver TypeResolver
}

func (v primaryKeyClassVerifier) Verify(e *Entity) []Violation {
	if !e.IsCompositePrimaryKey() {
		return nil
	}

	var violations []Violation
	for _, p := range e.Properties() {
		if !p.IsPrimaryKeyColumn() {
			violations = append(violations, Violation{
				Field:   p.Name,
				Type:    fmt.Sprint(p.Type),
				Message: "composite key class fields must all be key columns",
			})
		}
		if p.CompositeKeyRef {
			continue
		}
		if _, err := v.resolver.Resolve(p); err != nil {
			violations = append(violations, Violation{
				Field: p.Name,
				Type:  fmt.Sprint(p.Type),
				Message: "composite key class fields must be " +
					"primitive-mappable or nested composite keys",
			})
		}
	}
	return violations
}
