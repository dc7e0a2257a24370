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

package cassandra

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"

	"github.com/uber/cqlmap/pkg/statementcache"
)

const (
	defaultConnectionsPerHost = 3
	// defaultTimeout is overwritten by the timeout provided in the
	// cassandra config.
	defaultTimeout         = 20000 * time.Millisecond
	defaultProtoVersion    = 3
	defaultConsistency     = "LOCAL_QUORUM"
	defaultSocketKeepAlive = 30 * time.Second
	defaultPageSize        = 1000
	defaultPort            = 9042
)

// Session adapts a gocql session to the statement cache's Session
// interface. Its logical identity comes from the configuration, not the
// handle, so equivalent sessions to one cluster and keyspace share cache
// entries.
type Session struct {
	session   *gocql.Session
	clusterID string
	keyspace  string

	scope              tally.Scope
	prepareScope       tally.Scope
	prepareFailedScope tally.Scope
}

var _ statementcache.Session = (*Session)(nil)

// newCluster returns a gocql cluster config for the connection properties
func newCluster(conn *CassandraConn) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(conn.ContactPoints...)

	consistency := conn.Consistency
	if consistency == "" {
		consistency = defaultConsistency
	}
	cluster.Consistency = gocql.ParseConsistency(consistency)

	cluster.Timeout = conn.Timeout
	if cluster.Timeout == 0 {
		cluster.Timeout = defaultTimeout
	}

	cluster.NumConns = conn.ConnectionsPerHost
	if cluster.NumConns == 0 {
		cluster.NumConns = defaultConnectionsPerHost
	}

	cluster.ProtoVersion = conn.ProtoVersion
	if cluster.ProtoVersion == 0 {
		cluster.ProtoVersion = defaultProtoVersion
	} else if cluster.ProtoVersion != 3 {
		log.Warn("protocol version 2/4 is not compatible between " +
			"2.2.x and 3.y. use 3 instead.")
	}

	cluster.SocketKeepalive = conn.SocketKeepalive
	if cluster.SocketKeepalive == 0 {
		cluster.SocketKeepalive = defaultSocketKeepAlive
	}

	cluster.PageSize = conn.PageSize
	if cluster.PageSize == 0 {
		cluster.PageSize = defaultPageSize
	}

	cluster.Port = conn.Port
	if cluster.Port == 0 {
		cluster.Port = defaultPort
	}

	if dc := conn.DataCenter; dc != "" {
		cluster.HostFilter = gocql.DataCentreHostFilter(dc)
		if conn.HostPolicy == "TokenAwareHostPolicy" {
			cluster.PoolConfig.HostSelectionPolicy =
				gocql.TokenAwareHostPolicy(gocql.DCAwareRoundRobinPolicy(dc))
		}
	} else if conn.HostPolicy == "TokenAwareHostPolicy" {
		cluster.PoolConfig.HostSelectionPolicy =
			gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	}

	if len(conn.CQLVersion) > 0 {
		cluster.CQLVersion = conn.CQLVersion
	}

	if conn.RetryCount != 0 {
		cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: conn.RetryCount}
	} else {
		cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 3}
	}

	return cluster
}

// NewSession creates clusters and connections and wraps them for statement
// caching.
func NewSession(config *Config, scope tally.Scope) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cluster := newCluster(config.Connection)
	cluster.Keyspace = config.Keyspace

	if len(config.Connection.Username) != 0 {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Connection.Username,
			Password: config.Connection.Password,
		}
	}

	cSession, err := cluster.CreateSession()
	if err != nil {
		log.WithError(err).Error("Fail to create C* session")
		return nil, errors.Wrap(err, "creating cassandra session")
	}

	storeScope := scope.SubScope("cql").Tagged(
		map[string]string{"store": config.Keyspace})
	log.WithFields(log.Fields{
		"key_space":      config.Keyspace,
		"cluster":        clusterID(config),
		"cassandra_port": config.Connection.Port,
	}).Info("C* Session Created.")

	return &Session{
		session:   cSession,
		clusterID: clusterID(config),
		keyspace:  config.Keyspace,
		scope:     storeScope,
		prepareScope: storeScope.Tagged(
			map[string]string{"result": "success"}),
		prepareFailedScope: storeScope.Tagged(
			map[string]string{"result": "fail"}),
	}, nil
}

// clusterID derives the logical cluster identity from the configuration.
// Two configurations naming the same cluster, or listing the same contact
// points, produce the same identity.
func clusterID(config *Config) string {
	if config.Connection.ClusterName != "" {
		return config.Connection.ClusterName
	}
	points := make([]string, len(config.Connection.ContactPoints))
	copy(points, config.Connection.ContactPoints)
	sort.Strings(points)
	port := config.Connection.Port
	if port == 0 {
		port = defaultPort
	}
	return strings.Join(points, ",") + ":" + strconv.Itoa(port)
}

// ClusterID identifies the cluster this session is connected to.
func (s *Session) ClusterID() string {
	return s.clusterID
}

// Keyspace returns the logical keyspace of the session.
func (s *Session) Keyspace() string {
	return s.keyspace
}

// Prepare hands out a connection-bound statement handle. gocql registers
// the prepared statement with the cluster on first execution and re-prepares
// transparently after evictions; a closed session is the only error Prepare
// itself can detect.
func (s *Session) Prepare(
	ctx context.Context, cqlText string) (statementcache.PreparedStatement, error) {
	if s.session.Closed() {
		s.prepareFailedScope.Counter("prepare").Inc(1)
		return nil, errors.Errorf(
			"preparing statement %q: session is closed", cqlText)
	}
	s.prepareScope.Counter("prepare").Inc(1)
	return &preparedStatement{cql: cqlText, session: s.session}, nil
}

// Close shuts the underlying gocql session down.
func (s *Session) Close() {
	s.session.Close()
	log.WithField("key_space", s.keyspace).Info("C* Session Closed.")
}

// preparedStatement is a connection-bound statement handle. Bind returns a
// fresh gocql query per call, so one prepared statement can be executed
// concurrently.
type preparedStatement struct {
	cql     string
	session *gocql.Session
}

var _ statementcache.PreparedStatement = (*preparedStatement)(nil)

// CQL returns the statement text.
func (p *preparedStatement) CQL() string {
	return p.cql
}

// Bind creates an executable query with the given values bound.
func (p *preparedStatement) Bind(values ...interface{}) *gocql.Query {
	return p.session.Query(p.cql, values...)
}
