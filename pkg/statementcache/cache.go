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
	"regexp"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"golang.org/x/sync/singleflight"

	"github.com/uber/cqlmap/pkg/cql"
)

// Cache synchronously prepares CQL statements, at most once per key.
type Cache interface {
	// GetOrPrepare returns the statement cached for the statement-keyed
	// lookup, invoking prepare on a miss.
	GetOrPrepare(
		ctx context.Context,
		session Session,
		stmt Statement,
		prepare PrepareFunc,
	) (PreparedStatement, error)

	// GetOrPrepareCQL is the text-keyed flavor of GetOrPrepare. Text and
	// statement lookups never share entries.
	GetOrPrepareCQL(
		ctx context.Context,
		session Session,
		cqlText string,
		prepare PrepareFunc,
	) (PreparedStatement, error)
}

// MapCache is the standard Cache: a pluggable Store for hits plus a
// per-key flight group that guarantees at-most-once preparation under
// races. Failed preparations are never stored.
type MapCache struct {
	store   Store
	group   singleflight.Group
	metrics *Metrics
}

// CacheOption configures a MapCache.
type CacheOption func(*MapCache)

// WithStore replaces the default unbounded MapStore.
func WithStore(store Store) CacheOption {
	return func(c *MapCache) { c.store = store }
}

// WithScope emits cache counters under the given metrics scope.
func WithScope(scope tally.Scope) CacheOption {
	return func(c *MapCache) { c.metrics = NewMetrics(scope) }
}

// NewMapCache creates a MapCache backed by an unbounded concurrent map
// unless a Store is supplied.
func NewMapCache(opts ...CacheOption) *MapCache {
	c := &MapCache{}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = NewMapStore()
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(tally.NoopScope)
	}
	return c
}

var _ Cache = (*MapCache)(nil)

// GetOrPrepare returns the statement cached under the statement-derived
// key, preparing it at most once on a miss.
func (c *MapCache) GetOrPrepare(
	ctx context.Context,
	session Session,
	stmt Statement,
	prepare PrepareFunc,
) (PreparedStatement, error) {
	if stmt == nil {
		return nil, errors.New("statement must not be nil")
	}
	return c.getOrPrepare(ctx, NewKey(session, stmt), prepare)
}

// GetOrPrepareCQL returns the statement cached under the text-derived key,
// preparing it at most once on a miss.
func (c *MapCache) GetOrPrepareCQL(
	ctx context.Context,
	session Session,
	cqlText string,
	prepare PrepareFunc,
) (PreparedStatement, error) {
	if strings.TrimSpace(cqlText) == "" {
		return nil, errors.New("statement text must not be empty")
	}
	return c.getOrPrepare(ctx, NewKeyCQL(session, cqlText), prepare)
}

func (c *MapCache) getOrPrepare(
	ctx context.Context, key Key, prepare PrepareFunc,
) (PreparedStatement, error) {
	if prepare == nil {
		return nil, errors.New("prepare function must not be nil")
	}
	if ps, ok := c.store.Load(key); ok {
		c.metrics.Hit.Inc(1)
		return ps, nil
	}
	c.metrics.Miss.Inc(1)

	// Every caller racing on this key lands on one flight; only the
	// winner invokes prepare, the rest share its outcome. An error leaves
	// the store untouched so the next call retries.
	v, err, _ := c.group.Do(key.flightKey(), func() (interface{}, error) {
		if ps, ok := c.store.Load(key); ok {
			return ps, nil
		}
		c.metrics.Prepare.Inc(1)
		ps, err := prepare(ctx)
		if err != nil {
			c.metrics.PrepareFail.Inc(1)
			log.WithFields(log.Fields{
				"keyspace": key.Keyspace,
				"cql":      key.CQL,
			}).WithError(err).Debug("statement preparation failed")
			return nil, err
		}
		c.store.Store(key, ps)
		return ps, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(PreparedStatement), nil
}

// InvalidateWhere drops every entry matching the predicate and returns how
// many were dropped.
func (c *MapCache) InvalidateWhere(match func(Key) bool) int {
	dropped := 0
	c.store.Range(func(key Key, _ PreparedStatement) bool {
		if match(key) {
			c.store.Delete(key)
			c.metrics.Invalidate.Inc(1)
			dropped++
		}
		return true
	})
	return dropped
}

// InvalidateTable drops every entry whose statement text references the
// named table. Callers removing an entity from the mapping registry use
// this to keep the cache consistent with the mapping.
func (c *MapCache) InvalidateTable(table cql.Identifier) int {
	ref := regexp.MustCompile(`(^|[^a-z0-9_"])"?` +
		regexp.QuoteMeta(table.Key()) + `"?($|[^a-z0-9_"])`)
	return c.InvalidateWhere(func(key Key) bool {
		return ref.MatchString(strings.ToLower(key.CQL))
	})
}
