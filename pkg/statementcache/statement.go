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
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Statement is a structural statement object. Two statements with identical
// CQL text but different structure (for example different query options)
// hash differently and occupy distinct cache entries.
type Statement interface {
	// CQL returns the statement text.
	CQL() string

	// StructuralHash covers the statement text and every option that
	// affects the prepared statement.
	StructuralHash() uint64
}

// QueryOptions carries the options applied to a statement before it is
// prepared.
type QueryOptions struct {
	// Consistency level name, empty for the session default
	Consistency string
	// Idempotent marks the statement safe to retry
	Idempotent bool
	// PageSize of result iteration, zero for the driver default
	PageSize int
}

// QueryOption mutates QueryOptions when building a SimpleStatement.
type QueryOption func(*QueryOptions)

// WithConsistency sets the consistency level name.
func WithConsistency(consistency string) QueryOption {
	return func(o *QueryOptions) { o.Consistency = consistency }
}

// WithIdempotence marks the statement idempotent.
func WithIdempotence() QueryOption {
	return func(o *QueryOptions) { o.Idempotent = true }
}

// WithPageSize sets the page size.
func WithPageSize(n int) QueryOption {
	return func(o *QueryOptions) { o.PageSize = n }
}

// SimpleStatement is a Statement built from CQL text plus query options.
type SimpleStatement struct {
	cql  string
	opts QueryOptions
}

// NewSimpleStatement creates a SimpleStatement for the given CQL text.
func NewSimpleStatement(cql string, opts ...QueryOption) *SimpleStatement {
	s := &SimpleStatement{cql: cql}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// CQL returns the statement text.
func (s *SimpleStatement) CQL() string {
	return s.cql
}

// Options returns the query options of the statement.
func (s *SimpleStatement) Options() QueryOptions {
	return s.opts
}

// StructuralHash covers the CQL text and the query options.
func (s *SimpleStatement) StructuralHash() uint64 {
	return xxhash.Sum64String(fmt.Sprintf(
		"%s|%s|%t|%d", s.cql, s.opts.Consistency, s.opts.Idempotent,
		s.opts.PageSize))
}
