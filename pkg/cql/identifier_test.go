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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierUnquoted(t *testing.T) {
	id, err := NewIdentifier("species", false)
	require.NoError(t, err)

	assert.False(t, id.IsQuoted())
	assert.Equal(t, "species", id.Key())
	assert.Equal(t, "species", id.CQL())
}

func TestIdentifierAutoQuote(t *testing.T) {
	testCases := []string{
		"Order",       // upper case
		"select",      // fine: keywords are not special-cased
		"with space",  // illegal character
		"1stcolumn",   // leading digit
		"weird-name",  // dash
	}
	// "select" stays unquoted, everything else must quote
	id, err := NewIdentifier(testCases[1], false)
	require.NoError(t, err)
	assert.False(t, id.IsQuoted())

	for _, name := range []string{
		testCases[0], testCases[2], testCases[3], testCases[4]} {
		id, err := NewIdentifier(name, false)
		require.NoError(t, err)
		assert.True(t, id.IsQuoted(), name)
		assert.Equal(t, `"`+name+`"`, id.CQL(), name)
	}
}

func TestIdentifierForceQuote(t *testing.T) {
	id, err := NewIdentifier("species", true)
	require.NoError(t, err)

	assert.True(t, id.IsQuoted())
	assert.Equal(t, `"species"`, id.CQL())
	assert.Equal(t, "species", id.Key())
}

func TestIdentifierEqualityIgnoresQuoting(t *testing.T) {
	plain, err := NewIdentifier("animals", false)
	require.NoError(t, err)
	quoted, err := NewIdentifier("Animals", true)
	require.NoError(t, err)

	assert.True(t, plain.Equal(quoted))
	assert.True(t, quoted.Equal(plain))
	assert.Equal(t, plain.Key(), quoted.Key())
}

func TestIdentifierRejectsIllegalNames(t *testing.T) {
	_, err := NewIdentifier("", false)
	assert.Error(t, err)

	_, err = NewIdentifier("   ", false)
	assert.Error(t, err)

	_, err = NewIdentifier(`bad"name`, false)
	assert.Error(t, err)
}

func TestIdentifierZero(t *testing.T) {
	var id Identifier
	assert.True(t, id.IsZero())

	id = MustIdentifier("animals", false)
	assert.False(t, id.IsZero())
}

func TestQuotedIdentifier(t *testing.T) {
	id, err := QuotedIdentifier("Animals")
	require.NoError(t, err)

	assert.True(t, id.IsQuoted())
	assert.Equal(t, `"Animals"`, id.CQL())
	assert.Equal(t, "animals", id.Key())
}

func TestUnquotedIdentifier(t *testing.T) {
	id, err := UnquotedIdentifier("MixedCase")
	require.NoError(t, err)

	assert.False(t, id.IsQuoted())
	assert.Equal(t, "mixedcase", id.CQL())
}
