package ddl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/HazelTheWitch/dbmodels/coltype"
	"github.com/HazelTheWitch/dbmodels/model"
)

// --- Participle grammar structs ---
// These define the accepted CREATE TABLE grammar using struct tags. Multi-word
// keywords (PRIMARY KEY, NOT NULL, IF NOT EXISTS) are lexed as single tokens
// so column types made of plain words stay unambiguous.

// ddlScript parses a sequence of CREATE TABLE statements.
type ddlScript struct {
	Stmts []createStmt `parser:"@@*"`
}

// createStmt parses: CREATE TABLE [IF NOT EXISTS] name ( column, ... ) [;]
type createStmt struct {
	Create      string      `parser:"Create"`
	IfNotExists bool        `parser:"@IfNotExists?"`
	Table       identifier  `parser:"@@"`
	Columns     []columnDef `parser:"'(' @@ ( ',' @@ )* ')' ';'?"`
}

// columnDef parses: name type [constraint...]
type columnDef struct {
	Name        identifier      `parser:"@@"`
	Type        typeExpr        `parser:"@@"`
	Constraints []constraintDef `parser:"@@*"`
}

// identifier is a bare or double-quoted name.
type identifier struct {
	Text string `parser:"@Ident | @QuotedIdent"`
}

// name returns the identifier with quoting removed.
func (id identifier) name() string {
	s := id.Text
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

// typeExpr parses a column type: one or more words, optional numeric
// parameters, and optional array bounds. Examples: INTEGER, VARCHAR(50),
// NUMERIC(10, 2), TIMESTAMP WITH TIME ZONE, TEXT[], INTEGER[3].
type typeExpr struct {
	Words  []string     `parser:"@Ident+"`
	Params []string     `parser:"( '(' @Number ( ',' @Number )* ')' )?"`
	Bounds []arrayBound `parser:"@@*"`
}

// arrayBound parses: [ n ] or [ ]
type arrayBound struct {
	Open   string `parser:"'['"`
	Length string `parser:"@Number?"`
	Close  string `parser:"']'"`
}

// fragment reassembles the type expression into a DDL fragment.
func (t typeExpr) fragment() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Words, " "))
	if len(t.Params) > 0 {
		b.WriteByte('(')
		b.WriteString(strings.Join(t.Params, ", "))
		b.WriteByte(')')
	}
	for _, bound := range t.Bounds {
		b.WriteByte('[')
		b.WriteString(bound.Length)
		b.WriteByte(']')
	}
	return b.String()
}

// constraintDef parses one column constraint.
type constraintDef struct {
	PrimaryKey bool    `parser:"  @PrimaryKey"`
	NotNull    bool    `parser:"| @NotNull"`
	Unique     bool    `parser:"| @Unique"`
	References *refDef `parser:"| @@"`
}

// refDef parses: REFERENCES table [( column )]
type refDef struct {
	Table  identifier  `parser:"References @@"`
	Column *identifier `parser:"( '(' @@ ')' )?"`
}

var ddlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Create", Pattern: `(?i)\bCREATE\s+TABLE\b`},
	{Name: "IfNotExists", Pattern: `(?i)\bIF\s+NOT\s+EXISTS\b`},
	{Name: "PrimaryKey", Pattern: `(?i)\bPRIMARY\s+KEY\b`},
	{Name: "NotNull", Pattern: `(?i)\bNOT\s+NULL\b`},
	{Name: "Unique", Pattern: `(?i)\bUNIQUE\b`},
	{Name: "References", Pattern: `(?i)\bREFERENCES\b`},
	{Name: "QuotedIdent", Pattern: `"(?:[^"]|"")*"`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(),;\[\]]`},
})

var ddlParser = participle.MustBuild[ddlScript](
	participle.Lexer(ddlLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseCreateTables reads CREATE TABLE statements into shapes, one per
// statement. Column types are resolved through the column type registry, so
// a named enum type that only exists in the database cannot be parsed back;
// declare such types in code and build the shape directly instead. The
// returned shapes have not been built or registered.
func ParseCreateTables(input string) ([]model.Shape, error) {
	script, err := ddlParser.ParseString("ddl", input)
	if err != nil {
		return nil, &ParseError{Statement: firstLine(input), Cause: err}
	}

	shapes := make([]model.Shape, 0, len(script.Stmts))
	for _, stmt := range script.Stmts {
		shape, err := convertStmt(stmt)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

// ParseCreateTable reads exactly one CREATE TABLE statement into a shape.
func ParseCreateTable(input string) (model.Shape, error) {
	shapes, err := ParseCreateTables(input)
	if err != nil {
		return model.Shape{}, err
	}
	if len(shapes) != 1 {
		return model.Shape{}, &ParseError{Statement: firstLine(input),
			Cause: fmt.Errorf("expected one statement, got %d", len(shapes))}
	}
	return shapes[0], nil
}

// convertStmt converts the parsed statement into a shape.
func convertStmt(stmt createStmt) (model.Shape, error) {
	shape := model.Shape{Table: stmt.Table.name()}
	for _, col := range stmt.Columns {
		fragment := col.Type.fragment()
		ct, err := coltype.FromFragment(fragment)
		if err != nil {
			return model.Shape{}, &ParseError{
				Statement: fmt.Sprintf("%s.%s", shape.Table, col.Name.name()),
				Cause:     err,
			}
		}

		def := model.FieldDef{Name: col.Name.name(), Type: ct}
		for _, c := range col.Constraints {
			switch {
			case c.PrimaryKey:
				def.Constraints = append(def.Constraints, model.PrimaryKey)
			case c.Unique:
				def.Constraints = append(def.Constraints, model.Unique)
			case c.NotNull:
				def.Constraints = append(def.Constraints, model.NotNull)
			case c.References != nil:
				field := ""
				if c.References.Column != nil {
					field = c.References.Column.name()
				}
				def.Constraints = append(def.Constraints,
					model.ReferencesField(c.References.Table.name(), field))
			}
		}
		shape.Fields = append(shape.Fields, def)
	}
	return shape, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
