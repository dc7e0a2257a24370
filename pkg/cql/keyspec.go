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

// KeyRole describes how a column participates in a table's compound primary
// key.
type KeyRole int

const (
	// KeyRoleNone marks a regular, non-key column.
	KeyRoleNone KeyRole = iota
	// KeyRolePartitioned marks a partition key column.
	KeyRolePartitioned
	// KeyRoleClustered marks a clustering key column.
	KeyRoleClustered
)

func (r KeyRole) String() string {
	switch r {
	case KeyRolePartitioned:
		return "partitioned"
	case KeyRoleClustered:
		return "clustered"
	default:
		return "none"
	}
}

// Ordering is the declared clustering order of a clustering key column.
type Ordering int

const (
	// OrderingUnspecified leaves the order to the database default.
	OrderingUnspecified Ordering = iota
	// OrderingAscending sorts the column ascending within a partition.
	OrderingAscending
	// OrderingDescending sorts the column descending within a partition.
	OrderingDescending
)

// CQL returns the CLUSTERING ORDER BY keyword for the ordering. Unspecified
// ordering renders as ascending, matching the database default.
func (o Ordering) CQL() string {
	if o == OrderingDescending {
		return "DESC"
	}
	return "ASC"
}

func (o Ordering) String() string {
	switch o {
	case OrderingAscending:
		return "ascending"
	case OrderingDescending:
		return "descending"
	default:
		return "unspecified"
	}
}
