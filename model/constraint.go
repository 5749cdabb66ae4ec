package model

// ConstraintKind enumerates the closed set of field constraints.
type ConstraintKind int

const (
	// KindPrimaryKey marks the field as the table's primary key.
	KindPrimaryKey ConstraintKind = iota
	// KindForeignKey makes the field reference a column of another model.
	KindForeignKey
	// KindUnique requires the field's values to be unique across rows.
	KindUnique
	// KindNotNull forbids null values in the field.
	KindNotNull
)

// String returns the DDL keyword for the constraint kind.
func (k ConstraintKind) String() string {
	switch k {
	case KindPrimaryKey:
		return "PRIMARY KEY"
	case KindForeignKey:
		return "REFERENCES"
	case KindUnique:
		return "UNIQUE"
	case KindNotNull:
		return "NOT NULL"
	}
	return "UNKNOWN"
}

// Constraint is a rule attached to a field. It is a closed tagged variant:
// only foreign keys carry parameters.
//
// A foreign key names its target model by table name. The reference is
// resolved at synthesis time, not declaration time, so models that reference
// each other can be declared in any order.
type Constraint struct {
	// Kind selects the variant.
	Kind ConstraintKind
	// RefTable is the referenced table name (foreign keys only).
	RefTable string
	// RefField is the referenced column. Empty means the target model's
	// primary key (foreign keys only).
	RefField string
}

// Convenience values for the parameterless constraint kinds.
var (
	// PrimaryKey marks a field as the single-column primary key. A primary
	// key field is implicitly NOT NULL.
	PrimaryKey = Constraint{Kind: KindPrimaryKey}
	// Unique requires each stored value of the field to be distinct.
	Unique = Constraint{Kind: KindUnique}
	// NotNull forbids null values in the field.
	NotNull = Constraint{Kind: KindNotNull}
)

// References returns a foreign key constraint targeting another model's
// primary key.
func References(table string) Constraint {
	return Constraint{Kind: KindForeignKey, RefTable: table}
}

// ReferencesField returns a foreign key constraint targeting a specific
// column of another model.
func ReferencesField(table, field string) Constraint {
	return Constraint{Kind: KindForeignKey, RefTable: table, RefField: field}
}
