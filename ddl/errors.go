package ddl

import (
	"fmt"
	"strings"
)

// CyclicDependencyError reports that a set of models reference each other in
// a cycle, so no creation order exists.
type CyclicDependencyError struct {
	// Tables lists the tables involved in or downstream of the cycle.
	Tables []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("ddl: cyclic foreign key dependency among %s", strings.Join(e.Tables, ", "))
}

// ReferenceError reports a foreign key that cannot be resolved to a concrete
// target column.
type ReferenceError struct {
	Table   string
	Field   string
	Message string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("ddl: %s.%s: %s", e.Table, e.Field, e.Message)
}

// ParseError reports a statement the DDL reader could not turn back into a
// shape.
type ParseError struct {
	Statement string
	Cause     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ddl: parse %q: %v", e.Statement, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }
