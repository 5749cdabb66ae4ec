// Package session executes synthesized schemas and mapped rows against a
// database handle. It stays on database/sql so any driver works; the
// placeholder style is configurable per session.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/HazelTheWitch/dbmodels/coltype"
	"github.com/HazelTheWitch/dbmodels/ddl"
	"github.com/HazelTheWitch/dbmodels/model"
)

// Placeholder selects the bind-parameter style of the target driver.
type Placeholder int

const (
	// PlaceholderQuestion renders ? placeholders (SQLite, MySQL).
	PlaceholderQuestion Placeholder = iota
	// PlaceholderDollar renders $1, $2, ... placeholders (PostgreSQL).
	PlaceholderDollar
)

// Session binds a registry to an open database handle.
type Session struct {
	db  *sql.DB
	reg *model.Registry
	log *zap.Logger
	ph  Placeholder
}

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a structured logger. Statements are logged at debug
// level before execution.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithPlaceholders selects the bind-parameter style.
func WithPlaceholders(p Placeholder) Option {
	return func(s *Session) { s.ph = p }
}

// New returns a session over an open database handle. The session does not
// own the handle; closing it is the caller's responsibility.
func New(db *sql.DB, reg *model.Registry, opts ...Option) *Session {
	s := &Session{db: db, reg: reg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the registry this session resolves models through.
func (s *Session) Registry() *model.Registry { return s.reg }

// CreateTables synthesizes and executes the creation script for the given
// models, or for every registered model when none are named. Statements run
// in dependency order and use IF NOT EXISTS, so the call is idempotent.
func (s *Session) CreateTables(ctx context.Context, models ...*model.ModelDescriptor) error {
	if len(models) == 0 {
		models = s.reg.Models()
	}
	ordered, err := ddl.Plan(models)
	if err != nil {
		return fmt.Errorf("session: create tables: %w", err)
	}

	synth := ddl.NewSynthesizer(s.reg).IfNotExists()
	stmts := ddl.TypeDeclarations(ordered)
	for _, m := range ordered {
		stmt, err := synth.CreateTable(m)
		if err != nil {
			return fmt.Errorf("session: create tables: %w", err)
		}
		stmts = append(stmts, stmt)
	}

	for _, stmt := range stmts {
		s.log.Debug("exec", zap.String("statement", stmt))
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("session: execute %q: %w", stmt, err)
		}
	}
	return nil
}

// Insert writes a new row for the instance. Server-generated columns are
// omitted from the column list; when the model has any, the statement uses
// RETURNING and the generated values are written back into the instance.
func (s *Session) Insert(ctx context.Context, inst *model.Instance) error {
	m := inst.Model()
	literals, err := m.EncodeInstance(inst)
	if err != nil {
		return fmt.Errorf("session: insert: %w", err)
	}

	cols := m.InsertColumns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(m.Table()), strings.Join(quoted, ", "),
		strings.Join(s.placeholders(len(cols)), ", "))

	generated := generatedColumns(m)
	if len(generated) == 0 {
		s.log.Debug("exec", zap.String("statement", query))
		if _, err := s.db.ExecContext(ctx, query, literals...); err != nil {
			return fmt.Errorf("session: insert into %s: %w", m.Table(), err)
		}
		return nil
	}

	returning := make([]string, len(generated))
	for i, c := range generated {
		returning[i] = quoteIdent(c)
	}
	query += " RETURNING " + strings.Join(returning, ", ")
	s.log.Debug("exec", zap.String("statement", query))

	raws := make([]any, len(generated))
	dests := make([]any, len(generated))
	for i := range raws {
		dests[i] = &raws[i]
	}
	if err := s.db.QueryRowContext(ctx, query, literals...).Scan(dests...); err != nil {
		return fmt.Errorf("session: insert into %s: %w", m.Table(), err)
	}

	for i, col := range generated {
		f, _ := m.Field(col)
		decoded, err := f.Type().Decode(raws[i])
		if err != nil {
			return fmt.Errorf("session: insert into %s: decode %s: %w", m.Table(), col, err)
		}
		if err := inst.Set(col, decoded); err != nil {
			return fmt.Errorf("session: insert into %s: %w", m.Table(), err)
		}
	}
	return nil
}

// InsertOrUpdate writes the instance's row, updating by primary key when the
// row already exists and inserting otherwise. An instance carrying no primary
// key value is inserted directly, since there is no row it could match.
func (s *Session) InsertOrUpdate(ctx context.Context, inst *model.Instance) error {
	m := inst.Model()
	if _, ok := m.PrimaryKey(); !ok {
		return fmt.Errorf("session: insert or update %s: %w", m.Table(), ErrNoPrimaryKey)
	}
	if pkValue, ok := inst.PrimaryKeyValue(); !ok || pkValue == nil {
		return s.Insert(ctx, inst)
	}
	err := s.Update(ctx, inst)
	if errors.Is(err, ErrNotFound) {
		return s.Insert(ctx, inst)
	}
	return err
}

// Update rewrites every non-key column of the instance's row, located by
// primary key. The model must declare a primary key and the instance must
// carry a value for it.
func (s *Session) Update(ctx context.Context, inst *model.Instance) error {
	m := inst.Model()
	pk, ok := m.PrimaryKey()
	if !ok {
		return fmt.Errorf("session: update %s: %w", m.Table(), ErrNoPrimaryKey)
	}
	pkValue, ok := inst.PrimaryKeyValue()
	if !ok || pkValue == nil {
		return fmt.Errorf("session: update %s: instance has no primary key value", m.Table())
	}

	literals, err := m.EncodeRow(inst)
	if err != nil {
		return fmt.Errorf("session: update: %w", err)
	}

	cols := m.Columns()
	var sets []string
	var args []any
	n := 1
	for i, col := range cols {
		if col == pk.Name() {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s", quoteIdent(col), s.placeholder(n)))
		args = append(args, literals[i])
		n++
	}

	encodedPK, err := pk.Type().Encode(pkValue)
	if err != nil {
		return fmt.Errorf("session: update %s: %w", m.Table(), err)
	}
	args = append(args, encodedPK)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		quoteIdent(m.Table()), strings.Join(sets, ", "),
		quoteIdent(pk.Name()), s.placeholder(n))
	s.log.Debug("exec", zap.String("statement", query))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("session: update %s: %w", m.Table(), err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("session: update %s: %w", m.Table(), ErrNotFound)
	}
	return nil
}

// Delete removes the instance's row, located by primary key.
func (s *Session) Delete(ctx context.Context, inst *model.Instance) error {
	m := inst.Model()
	pk, ok := m.PrimaryKey()
	if !ok {
		return fmt.Errorf("session: delete %s: %w", m.Table(), ErrNoPrimaryKey)
	}
	pkValue, ok := inst.PrimaryKeyValue()
	if !ok || pkValue == nil {
		return fmt.Errorf("session: delete %s: instance has no primary key value", m.Table())
	}
	encodedPK, err := pk.Type().Encode(pkValue)
	if err != nil {
		return fmt.Errorf("session: delete %s: %w", m.Table(), err)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		quoteIdent(m.Table()), quoteIdent(pk.Name()), s.placeholder(1))
	s.log.Debug("exec", zap.String("statement", query))

	if _, err := s.db.ExecContext(ctx, query, encodedPK); err != nil {
		return fmt.Errorf("session: delete from %s: %w", m.Table(), err)
	}
	return nil
}

// Get retrieves one row by primary key. It returns ErrNotFound when no row
// matches.
func (s *Session) Get(ctx context.Context, m *model.ModelDescriptor, key any) (*model.Instance, error) {
	pk, ok := m.PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("session: get %s: %w", m.Table(), ErrNoPrimaryKey)
	}
	encodedPK, err := pk.Type().Encode(key)
	if err != nil {
		return nil, fmt.Errorf("session: get %s: %w", m.Table(), err)
	}

	rows, err := s.Select(ctx, m,
		fmt.Sprintf("%s = %s", quoteIdent(pk.Name()), s.placeholder(1)), encodedPK)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("session: get %s: %w", m.Table(), ErrNotFound)
	}
	return rows[0], nil
}

// Select retrieves every row matching the given WHERE clause, decoded into
// instances. An empty clause selects the whole table. The clause is raw SQL
// with session-style placeholders; column values never pass through it.
func (s *Session) Select(ctx context.Context, m *model.ModelDescriptor, where string, args ...any) ([]*model.Instance, error) {
	cols := m.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), quoteIdent(m.Table()))
	if where != "" {
		query += " WHERE " + where
	}
	s.log.Debug("query", zap.String("statement", query))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("session: select from %s: %w", m.Table(), err)
	}
	defer rows.Close()

	var out []*model.Instance
	for rows.Next() {
		raws := make([]any, len(cols))
		dests := make([]any, len(cols))
		for i := range raws {
			dests[i] = &raws[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("session: select from %s: %w", m.Table(), err)
		}
		inst, err := m.DecodeRow(raws)
		if err != nil {
			return nil, fmt.Errorf("session: select from %s: %w", m.Table(), err)
		}
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session: select from %s: %w", m.Table(), err)
	}
	return out, nil
}

// placeholder renders the n-th bind parameter, counting from 1.
func (s *Session) placeholder(n int) string {
	if s.ph == PlaceholderDollar {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *Session) placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s.placeholder(i + 1)
	}
	return out
}

// generatedColumns lists the model's server-generated column names.
func generatedColumns(m *model.ModelDescriptor) []string {
	var cols []string
	fields := m.Fields()
	for i := range fields {
		if coltype.ServerGenerated(fields[i].Type()) {
			cols = append(cols, fields[i].Name())
		}
	}
	return cols
}

// quoteIdent double-quotes an identifier, doubling any embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
