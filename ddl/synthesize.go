// Package ddl turns registered models into executable schema statements and
// reads CREATE TABLE statements back into shapes.
package ddl

import (
	"fmt"
	"strings"

	"github.com/HazelTheWitch/dbmodels/coltype"
	"github.com/HazelTheWitch/dbmodels/model"
)

// Synthesizer renders DDL for models whose foreign keys resolve against one
// registry.
type Synthesizer struct {
	reg         *model.Registry
	ifNotExists bool
}

// NewSynthesizer returns a synthesizer resolving references through r.
func NewSynthesizer(r *model.Registry) *Synthesizer {
	return &Synthesizer{reg: r}
}

// IfNotExists makes emitted CREATE TABLE statements idempotent. It returns
// the synthesizer for chaining.
func (s *Synthesizer) IfNotExists() *Synthesizer {
	s.ifNotExists = true
	return s
}

// CreateTable renders the CREATE TABLE statement for one model. A foreign
// key that names no target column resolves to the target model's primary
// key, which requires the target to be registered; otherwise the call fails
// with *ReferenceError.
func (s *Synthesizer) CreateTable(m *model.ModelDescriptor) (string, error) {
	fields := m.Fields()
	cols := make([]string, len(fields))
	for i := range fields {
		col, err := s.columnClause(m, &fields[i])
		if err != nil {
			return "", err
		}
		cols[i] = col
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if s.ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(quoteIdent(m.Table()))
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(");")
	return b.String(), nil
}

// columnClause renders one column definition. PRIMARY KEY already implies
// NOT NULL, so an explicit NOT NULL on the key column is suppressed.
func (s *Synthesizer) columnClause(m *model.ModelDescriptor, f *model.FieldDescriptor) (string, error) {
	var b strings.Builder
	b.WriteString(quoteIdent(f.Name()))
	b.WriteByte(' ')
	b.WriteString(f.Type().Fragment())

	if f.Has(model.KindPrimaryKey) {
		b.WriteString(" PRIMARY KEY")
	}
	if f.Has(model.KindUnique) {
		b.WriteString(" UNIQUE")
	}
	if f.Has(model.KindNotNull) && !f.Has(model.KindPrimaryKey) {
		b.WriteString(" NOT NULL")
	}

	if fk, ok := f.ForeignKey(); ok {
		col := fk.RefField
		if col == "" {
			target, err := s.reg.Resolve(fk.RefTable)
			if err != nil {
				return "", &ReferenceError{Table: m.Table(), Field: f.Name(),
					Message: fmt.Sprintf("cannot resolve primary key of unregistered table %q", fk.RefTable)}
			}
			pk, ok := target.PrimaryKey()
			if !ok {
				return "", &ReferenceError{Table: m.Table(), Field: f.Name(),
					Message: fmt.Sprintf("referenced table %q has no primary key", fk.RefTable)}
			}
			col = pk.Name()
		}
		fmt.Fprintf(&b, " REFERENCES %s (%s)", quoteIdent(fk.RefTable), quoteIdent(col))
	}
	return b.String(), nil
}

// Script renders the complete creation script for the given models: named
// type declarations first, then CREATE TABLE statements in dependency order,
// one statement per line.
func (s *Synthesizer) Script(models []*model.ModelDescriptor) (string, error) {
	ordered, err := Plan(models)
	if err != nil {
		return "", err
	}
	stmts := TypeDeclarations(ordered)
	for _, m := range ordered {
		stmt, err := s.CreateTable(m)
		if err != nil {
			return "", err
		}
		stmts = append(stmts, stmt)
	}
	return strings.Join(stmts, "\n"), nil
}

// ScriptAll renders the creation script for every model in the registry, in
// registration order before planning.
func (s *Synthesizer) ScriptAll() (string, error) {
	return s.Script(s.reg.Models())
}

// TypeDeclarations returns the idempotent declaration statements for every
// named type the given models use, deduplicated in first-use order. Array
// columns contribute their element type's declaration.
func TypeDeclarations(models []*model.ModelDescriptor) []string {
	var decls []string
	seen := make(map[string]bool)
	for _, m := range models {
		fields := m.Fields()
		for i := range fields {
			d, ok := declaredOf(fields[i].Type())
			if !ok || seen[d.TypeName()] {
				continue
			}
			seen[d.TypeName()] = true
			decls = append(decls, d.Declaration())
		}
	}
	return decls
}

// declaredOf unwraps array types until it finds a declared named type.
func declaredOf(t coltype.ColumnType) (coltype.DeclaredType, bool) {
	for {
		if d, ok := t.(coltype.DeclaredType); ok {
			return d, true
		}
		arr, ok := t.(interface{ Elem() coltype.ColumnType })
		if !ok {
			return nil, false
		}
		t = arr.Elem()
	}
}

// quoteIdent double-quotes an identifier, doubling any embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
