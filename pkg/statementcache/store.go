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
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
)

// Store is the pluggable backing of a statement cache. Implementations must
// support concurrent read-heavy, write-occasional access. A store may evict
// entries at any time; evictions only cost a re-preparation.
type Store interface {
	Load(key Key) (PreparedStatement, bool)
	Store(key Key, ps PreparedStatement)
	Delete(key Key)
	Range(f func(key Key, ps PreparedStatement) bool)
}

// MapStore is the default unbounded Store. Growth is the caller's concern;
// install a BoundedStore when eviction is needed.
type MapStore struct {
	entries *xsync.MapOf[Key, PreparedStatement]
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{entries: xsync.NewMapOf[Key, PreparedStatement]()}
}

// Load returns the statement cached under key.
func (s *MapStore) Load(key Key) (PreparedStatement, bool) {
	return s.entries.Load(key)
}

// Store caches ps under key.
func (s *MapStore) Store(key Key, ps PreparedStatement) {
	s.entries.Store(key, ps)
}

// Delete drops the entry of key.
func (s *MapStore) Delete(key Key) {
	s.entries.Delete(key)
}

// Range iterates the store until f returns false.
func (s *MapStore) Range(f func(key Key, ps PreparedStatement) bool) {
	s.entries.Range(f)
}

// BoundedStoreConfig sizes a BoundedStore.
type BoundedStoreConfig struct {
	// Capacity is the maximum number of cached statements
	Capacity int
	// NumShards of the underlying cache, higher improves concurrency
	NumShards int
	// TTL after which an entry is re-prepared
	TTL time.Duration
	// EvictionPercentage of entries dropped when capacity is reached,
	// 1 to 100
	EvictionPercentage int
}

// DefaultBoundedStoreConfig returns sensible defaults: statements stabilize
// after warm-up, so a day of TTL mostly serves schema drift.
func DefaultBoundedStoreConfig() BoundedStoreConfig {
	return BoundedStoreConfig{
		Capacity:           10000,
		NumShards:          64,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
	}
}

// BoundedStore is a capacity and TTL bounded Store backed by sturdyc. The
// key set is tracked alongside the value cache so invalidation by predicate
// keeps working; stale key entries are dropped lazily when their value has
// been evicted.
type BoundedStore struct {
	values *sturdyc.Client[PreparedStatement]
	keys   *xsync.MapOf[string, Key]
}

// NewBoundedStore creates a BoundedStore with the given bounds.
func NewBoundedStore(cfg BoundedStoreConfig) *BoundedStore {
	return &BoundedStore{
		values: sturdyc.New[PreparedStatement](
			cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
		keys: xsync.NewMapOf[string, Key](),
	}
}

// Load returns the statement cached under key.
func (s *BoundedStore) Load(key Key) (PreparedStatement, bool) {
	ps, ok := s.values.Get(key.flightKey())
	if !ok {
		s.keys.Delete(key.flightKey())
		return nil, false
	}
	return ps, true
}

// Store caches ps under key.
func (s *BoundedStore) Store(key Key, ps PreparedStatement) {
	s.values.Set(key.flightKey(), ps)
	s.keys.Store(key.flightKey(), key)
}

// Delete drops the entry of key.
func (s *BoundedStore) Delete(key Key) {
	s.values.Delete(key.flightKey())
	s.keys.Delete(key.flightKey())
}

// Range iterates the live entries until f returns false.
func (s *BoundedStore) Range(f func(key Key, ps PreparedStatement) bool) {
	s.keys.Range(func(fk string, key Key) bool {
		ps, ok := s.values.Get(fk)
		if !ok {
			s.keys.Delete(fk)
			return true
		}
		return f(key, ps)
	})
}
