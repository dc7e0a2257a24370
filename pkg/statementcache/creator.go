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
	"strings"

	"github.com/pkg/errors"
)

// CachedStatementCreator binds one statement to one cache. Repeated calls
// against sessions with the same logical identity hit the cache; preparation
// runs only on the first call per cluster and keyspace.
type CachedStatementCreator struct {
	cache Cache
	stmt  Statement

	// textKeyed creators look entries up by statement text, so two
	// creators built from equal CQL strings share entries. Statement
	// keyed creators include the statement's structural hash instead.
	textKeyed bool
}

// NewCachedStatementCreator creates a statement-keyed creator. Reusing the
// same statement object, or one with an equal structural hash, is what makes
// repeated calls cache-hit.
func NewCachedStatementCreator(
	cache Cache, stmt Statement) (*CachedStatementCreator, error) {
	if cache == nil {
		return nil, errors.New("cache must not be nil")
	}
	if stmt == nil {
		return nil, errors.New("statement must not be nil")
	}
	return &CachedStatementCreator{cache: cache, stmt: stmt}, nil
}

// NewCachedStatementCreatorCQL creates a text-keyed creator from CQL text.
// Query options are applied to the statement before preparation but do not
// participate in the cache key.
func NewCachedStatementCreatorCQL(
	cache Cache, cqlText string, opts ...QueryOption,
) (*CachedStatementCreator, error) {
	if cache == nil {
		return nil, errors.New("cache must not be nil")
	}
	if strings.TrimSpace(cqlText) == "" {
		return nil, errors.New("statement text must not be empty")
	}
	return &CachedStatementCreator{
		cache:     cache,
		stmt:      NewSimpleStatement(cqlText, opts...),
		textKeyed: true,
	}, nil
}

// Statement returns the wrapped statement.
func (c *CachedStatementCreator) Statement() Statement {
	return c.stmt
}

// Cache returns the underlying statement cache.
func (c *CachedStatementCreator) Cache() Cache {
	return c.cache
}

// CreatePreparedStatement resolves the creator's statement against the
// session, preparing it through the cache on first use.
func (c *CachedStatementCreator) CreatePreparedStatement(
	ctx context.Context, session Session) (PreparedStatement, error) {
	prepare := func(ctx context.Context) (PreparedStatement, error) {
		return session.Prepare(ctx, c.stmt.CQL())
	}
	if c.textKeyed {
		return c.cache.GetOrPrepareCQL(ctx, session, c.stmt.CQL(), prepare)
	}
	return c.cache.GetOrPrepare(ctx, session, c.stmt, prepare)
}
