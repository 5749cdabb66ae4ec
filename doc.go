// Package dbmodels maps declared record types to relational tables.
//
// Declare a model once, as plain shape data, a tagged Go struct, or a YAML
// file, and derive both the dependency-ordered DDL needed to store it and
// the row mapping needed to move instances in and out of a database.
//
// The module is organized into four packages:
//
//   - [github.com/HazelTheWitch/dbmodels/coltype] — column types: scalars, enums, serials, arrays, and their encode/decode rules
//   - [github.com/HazelTheWitch/dbmodels/model] — model descriptors, constraints, the registry, and the row mapper
//   - [github.com/HazelTheWitch/dbmodels/ddl] — CREATE TABLE synthesis, creation planning, DDL parsing, and schema snapshots
//   - [github.com/HazelTheWitch/dbmodels/session] — a thin database/sql boundary for executing what the core produces
//
// The coltype, model, and ddl packages are pure: no I/O, no database, no
// goroutines beyond a registry mutex. Only the session package touches a
// live connection.
package dbmodels
