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

package statementcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedStatementCreator(t *testing.T) {
	cache := NewMapCache()
	session := &fakeSession{cluster: "test-cluster", keyspace: "test_keyspace"}

	creator, err := NewCachedStatementCreator(
		cache, NewSimpleStatement(selectJobCQL))
	require.NoError(t, err)
	assert.Equal(t, selectJobCQL, creator.Statement().CQL())
	assert.Same(t, cache, creator.Cache())

	first, err := creator.CreatePreparedStatement(context.Background(), session)
	require.NoError(t, err)

	second, err := creator.CreatePreparedStatement(context.Background(), session)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), session.prepares.Load())
}

func TestCachedStatementCreatorSharesByStructure(t *testing.T) {
	cache := NewMapCache()
	session := &fakeSession{cluster: "test-cluster", keyspace: "test_keyspace"}

	// two creators around structurally equal statements share one entry
	a, err := NewCachedStatementCreator(cache, NewSimpleStatement(selectJobCQL))
	require.NoError(t, err)
	b, err := NewCachedStatementCreator(cache, NewSimpleStatement(selectJobCQL))
	require.NoError(t, err)

	first, err := a.CreatePreparedStatement(context.Background(), session)
	require.NoError(t, err)
	second, err := b.CreatePreparedStatement(context.Background(), session)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), session.prepares.Load())
}

func TestCachedStatementCreatorCQL(t *testing.T) {
	cache := NewMapCache()
	session := &fakeSession{cluster: "test-cluster", keyspace: "test_keyspace"}

	a, err := NewCachedStatementCreatorCQL(cache, selectJobCQL)
	require.NoError(t, err)
	b, err := NewCachedStatementCreatorCQL(
		cache, selectJobCQL, WithConsistency("QUORUM"))
	require.NoError(t, err)

	// text-keyed creators share entries regardless of query options
	first, err := a.CreatePreparedStatement(context.Background(), session)
	require.NoError(t, err)
	second, err := b.CreatePreparedStatement(context.Background(), session)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), session.prepares.Load())
}

func TestCachedStatementCreatorPerSessionIdentity(t *testing.T) {
	cache := NewMapCache()
	creator, err := NewCachedStatementCreatorCQL(cache, selectJobCQL)
	require.NoError(t, err)

	east := &fakeSession{cluster: "east", keyspace: "app"}
	west := &fakeSession{cluster: "west", keyspace: "app"}

	// same creator, distinct clusters: one preparation each
	_, err = creator.CreatePreparedStatement(context.Background(), east)
	require.NoError(t, err)
	_, err = creator.CreatePreparedStatement(context.Background(), east)
	require.NoError(t, err)
	_, err = creator.CreatePreparedStatement(context.Background(), west)
	require.NoError(t, err)

	assert.Equal(t, int64(1), east.prepares.Load())
	assert.Equal(t, int64(1), west.prepares.Load())
}

func TestCreatorInputValidation(t *testing.T) {
	cache := NewMapCache()

	_, err := NewCachedStatementCreator(nil, NewSimpleStatement(selectJobCQL))
	assert.Error(t, err)

	_, err = NewCachedStatementCreator(cache, nil)
	assert.Error(t, err)

	_, err = NewCachedStatementCreatorCQL(cache, "   ")
	assert.Error(t, err)
}
