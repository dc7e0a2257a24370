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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(keyspace, cqlText string) Key {
	session := &fakeSession{cluster: "test-cluster", keyspace: keyspace}
	return NewKeyCQL(session, cqlText)
}

func runStoreTest(t *testing.T, store Store) {
	key := testKey("test_keyspace", selectJobCQL)
	other := testKey("other_keyspace", selectJobCQL)
	ps := &fakePreparedStatement{cql: selectJobCQL}

	_, ok := store.Load(key)
	assert.False(t, ok)

	store.Store(key, ps)
	got, ok := store.Load(key)
	require.True(t, ok)
	assert.Same(t, ps, got)

	_, ok = store.Load(other)
	assert.False(t, ok)

	store.Store(other, &fakePreparedStatement{cql: selectJobCQL})
	seen := map[string]bool{}
	store.Range(func(k Key, _ PreparedStatement) bool {
		seen[k.Keyspace] = true
		return true
	})
	assert.Len(t, seen, 2)

	store.Delete(key)
	_, ok = store.Load(key)
	assert.False(t, ok)
	_, ok = store.Load(other)
	assert.True(t, ok)
}

func TestMapStore(t *testing.T) {
	runStoreTest(t, NewMapStore())
}

func TestBoundedStore(t *testing.T) {
	runStoreTest(t, NewBoundedStore(DefaultBoundedStoreConfig()))
}

func TestBoundedStoreTTL(t *testing.T) {
	cfg := DefaultBoundedStoreConfig()
	cfg.TTL = time.Millisecond
	store := NewBoundedStore(cfg)

	key := testKey("test_keyspace", selectJobCQL)
	store.Store(key, &fakePreparedStatement{cql: selectJobCQL})

	assert.Eventually(t, func() bool {
		_, ok := store.Load(key)
		return !ok
	}, time.Second, 10*time.Millisecond)

	// expired entries also fall out of iteration
	count := 0
	store.Range(func(Key, PreparedStatement) bool {
		count++
		return true
	})
	assert.Zero(t, count)
}

func TestCacheWithBoundedStore(t *testing.T) {
	cache := NewMapCache(
		WithStore(NewBoundedStore(DefaultBoundedStoreConfig())))
	session := &fakeSession{cluster: "test-cluster", keyspace: "test_keyspace"}

	ps, err := cache.GetOrPrepareCQL(context.Background(), session,
		selectJobCQL, session.prepareFunc(selectJobCQL))
	require.NoError(t, err)

	again, err := cache.GetOrPrepareCQL(context.Background(), session,
		selectJobCQL, session.prepareFunc(selectJobCQL))
	require.NoError(t, err)
	assert.Same(t, ps, again)
	assert.Equal(t, int64(1), session.prepares.Load())
}
