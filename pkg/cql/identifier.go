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
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// unquotedIdentifierRegexp matches names that are legal CQL identifiers
// without quoting. Anything else must be rendered double-quoted.
var unquotedIdentifierRegexp = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Identifier is a normalized CQL table, type or column name. Quoting affects
// only how the identifier is rendered into CQL text; lookups and equality
// always use the unquoted, lower-cased form.
type Identifier struct {
	name   string
	quoted bool
}

// NewIdentifier creates an Identifier from name. The identifier is rendered
// quoted when forceQuote is set or when name is not a legal unquoted CQL
// identifier.
func NewIdentifier(name string, forceQuote bool) (Identifier, error) {
	if strings.TrimSpace(name) == "" {
		return Identifier{}, errors.New("identifier name must not be empty")
	}
	if strings.ContainsRune(name, '"') {
		return Identifier{}, errors.Errorf(
			"identifier name %q must not contain a quote character", name)
	}
	return Identifier{
		name:   name,
		quoted: forceQuote || !unquotedIdentifierRegexp.MatchString(name),
	}, nil
}

// MustIdentifier is like NewIdentifier but panics on an illegal name. Use for
// identifiers known at compile time.
func MustIdentifier(name string, forceQuote bool) Identifier {
	id, err := NewIdentifier(name, forceQuote)
	if err != nil {
		panic(err)
	}
	return id
}

// UnquotedIdentifier lower-cases name and returns an unquoted Identifier.
func UnquotedIdentifier(name string) (Identifier, error) {
	return NewIdentifier(strings.ToLower(name), false)
}

// QuotedIdentifier returns an Identifier that always renders double-quoted,
// preserving the verbatim name.
func QuotedIdentifier(name string) (Identifier, error) {
	return NewIdentifier(name, true)
}

// Name returns the verbatim name the identifier was created with.
func (i Identifier) Name() string {
	return i.name
}

// IsQuoted reports whether the identifier renders double-quoted.
func (i Identifier) IsQuoted() bool {
	return i.quoted
}

// Key returns the normalized form used for lookups and equality.
func (i Identifier) Key() string {
	return strings.ToLower(i.name)
}

// Equal reports whether two identifiers refer to the same database object.
// Quoting is ignored.
func (i Identifier) Equal(other Identifier) bool {
	return i.Key() == other.Key()
}

// CQL renders the identifier for inclusion in literal CQL text.
func (i Identifier) CQL() string {
	if i.quoted {
		return `"` + i.name + `"`
	}
	return strings.ToLower(i.name)
}

func (i Identifier) String() string {
	return i.CQL()
}

// IsZero reports whether the identifier has not been set.
func (i Identifier) IsZero() bool {
	return i.name == ""
}
