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

package base

// Object is a marker interface that is used to add cassandra specific
// annotations to mapped types. Users can embed this interface in any
// structure definition that maps to a table, user defined type or composite
// key class.
//
// For example:
// Animal is a representation of the mapping annotations
//
//	type Animal struct {
//		base.Object `cassandra:"name=animals, primaryKey=((species), breed asc, color desc)"`
//		Species     string `column:"name=species"`
//		Breed       string `column:"name=breed"`
//		Color       string `column:"name=color"`
//	}
//
// Here, base.Object is embedded in Animal just to specify cassandra specific
// annotations that describe the primary key information as well as the table
// name of that type. The partition key is `species` while `breed` and
// `color` are clustering keys with explicit ordering. Key column ordinals
// follow their position in the primaryKey clause.
//
// The `cassandra` keyword denotes that this annotation is for the Cassandra
// mapping layer. The primary key formats supported are
// ((PK1,PK2..), CK1, CK2..) and (PK, CK1, CK2..), each clustering key
// optionally followed by asc or desc.
//
// Other supported type level annotations:
//
//	`cassandra:"udt=address"`      - the type maps to a user defined type
//	`cassandra:"primaryKeyType"`   - the type is a composite key class whose
//	                                 fields collectively form another
//	                                 entity's primary key
//
// Field level annotations use the `column` keyword:
//
//	`column:"name=id"`                  - explicit column name
//	`column:"name=id, primaryKey"`      - the field is the single identifier
//	                                      of the entity (either the sole
//	                                      partition key or a composite key
//	                                      class reference)
//	`column:"name=ts, type=timestamp"`  - explicit CQL type override
//	`column:"name=addr, udt=address"`   - column of a user defined type
//	`column:"name=jobs, association"`   - declares a relational association,
//	                                      always rejected by verification
type Object interface {
	// mapped is never implemented; embedding the interface only attaches
	// annotations to the enclosing type
	mapped()
}
