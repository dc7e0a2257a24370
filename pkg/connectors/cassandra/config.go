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
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// CassandraConn describes the properties to manage a Cassandra connection.
type CassandraConn struct {
	ContactPoints      []string      `yaml:"contactPoints"`
	Port               int           `yaml:"port"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	Consistency        string        `yaml:"consistency"`
	ConnectionsPerHost int           `yaml:"connectionsPerHost"`
	Timeout            time.Duration `yaml:"timeout"`
	SocketKeepalive    time.Duration `yaml:"socketKeepalive"`
	ProtoVersion       int           `yaml:"protoVersion"`
	DataCenter         string        `yaml:"dataCenter"` // data center filter
	PageSize           int           `yaml:"pageSize"`
	RetryCount         int           `yaml:"retryCount"`
	HostPolicy         string        `yaml:"hostPolicy"`
	CQLVersion         string        `yaml:"cqlVersion"` // set only on C* 3.x

	// ClusterName names the logical cluster for statement cache key
	// derivation. Defaults to the sorted contact points when unset.
	ClusterName string `yaml:"clusterName"`
}

// Config is the top level yaml configuration for this client library.
type Config struct {
	Connection *CassandraConn `yaml:"connection"`
	// Keyspace the session is bound to
	Keyspace string `yaml:"keyspace"`
}

// Validate checks that the configuration can produce a working session.
func (c *Config) Validate() error {
	if c.Connection == nil {
		return errors.New("connection configuration is required")
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Keyspace, validation.Required),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(c.Connection,
		validation.Field(&c.Connection.ContactPoints,
			validation.Required, validation.Length(1, 0)),
		validation.Field(&c.Connection.Port, validation.Min(0)),
		validation.Field(&c.Connection.ProtoVersion, validation.Min(0)),
	)
}

// LoadConfig reads a yaml Config from path.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	config := &Config{}
	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validating config %s", path)
	}
	return config, nil
}
