package ddl

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/HazelTheWitch/dbmodels/model"
)

// Snapshot is a serializable description of a registry's schema at one point
// in time. Comparing snapshots across runs detects schema drift without a
// database round trip.
type Snapshot struct {
	TakenAt time.Time    `msgpack:"taken_at"`
	Tables  []TableState `msgpack:"tables"`
}

// TableState records one model's columns in declaration order.
type TableState struct {
	Name    string        `msgpack:"name"`
	Columns []ColumnState `msgpack:"columns"`
}

// ColumnState records one column's rendered type and constraint clauses.
type ColumnState struct {
	Name        string   `msgpack:"name"`
	Type        string   `msgpack:"type"`
	Constraints []string `msgpack:"constraints"`
}

// TakeSnapshot captures every model registered in r, in registration order.
func TakeSnapshot(r *model.Registry) *Snapshot {
	snap := &Snapshot{TakenAt: time.Now().UTC()}
	for _, m := range r.Models() {
		table := TableState{Name: m.Table()}
		fields := m.Fields()
		for i := range fields {
			f := &fields[i]
			col := ColumnState{Name: f.Name(), Type: f.Type().Fragment()}
			for _, c := range f.Constraints() {
				col.Constraints = append(col.Constraints, constraintState(c))
			}
			table.Columns = append(table.Columns, col)
		}
		snap.Tables = append(snap.Tables, table)
	}
	return snap
}

// constraintState renders a constraint into its stable textual form.
func constraintState(c model.Constraint) string {
	if c.Kind != model.KindForeignKey {
		return c.Kind.String()
	}
	if c.RefField == "" {
		return fmt.Sprintf("REFERENCES %s", c.RefTable)
	}
	return fmt.Sprintf("REFERENCES %s(%s)", c.RefTable, c.RefField)
}

// Fingerprint returns the SHA-256 hash of the snapshot's schema content. The
// capture timestamp does not participate, so two snapshots of an identical
// schema always fingerprint identically.
func (s *Snapshot) Fingerprint() string {
	h := sha256.New()
	for _, t := range s.Tables {
		fmt.Fprintf(h, "table %s\n", t.Name)
		for _, c := range t.Columns {
			fmt.Fprintf(h, "  %s %s %s\n", c.Name, c.Type, strings.Join(c.Constraints, " "))
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Save writes the snapshot to w in msgpack form.
func (s *Snapshot) Save(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("ddl: save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot previously written by Save.
func LoadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("ddl: load snapshot: %w", err)
	}
	return &snap, nil
}

// DiffFrom summarizes the schema changes between an older snapshot and this
// one, one human-readable line per change. An empty result means the schemas
// match.
func (s *Snapshot) DiffFrom(old *Snapshot) []string {
	var changes []string

	oldTables := make(map[string]TableState, len(old.Tables))
	for _, t := range old.Tables {
		oldTables[t.Name] = t
	}
	newTables := make(map[string]TableState, len(s.Tables))
	for _, t := range s.Tables {
		newTables[t.Name] = t
	}

	for _, t := range s.Tables {
		before, ok := oldTables[t.Name]
		if !ok {
			changes = append(changes, fmt.Sprintf("table %s added", t.Name))
			continue
		}
		changes = append(changes, diffColumns(t.Name, before, t)...)
	}
	for _, t := range old.Tables {
		if _, ok := newTables[t.Name]; !ok {
			changes = append(changes, fmt.Sprintf("table %s removed", t.Name))
		}
	}
	return changes
}

func diffColumns(table string, before, after TableState) []string {
	var changes []string

	oldCols := make(map[string]ColumnState, len(before.Columns))
	for _, c := range before.Columns {
		oldCols[c.Name] = c
	}
	newCols := make(map[string]ColumnState, len(after.Columns))
	for _, c := range after.Columns {
		newCols[c.Name] = c
	}

	for _, c := range after.Columns {
		prev, ok := oldCols[c.Name]
		if !ok {
			changes = append(changes, fmt.Sprintf("column %s.%s added", table, c.Name))
			continue
		}
		if prev.Type != c.Type {
			changes = append(changes, fmt.Sprintf("column %s.%s type changed from %s to %s",
				table, c.Name, prev.Type, c.Type))
		}
		if strings.Join(prev.Constraints, " ") != strings.Join(c.Constraints, " ") {
			changes = append(changes, fmt.Sprintf("column %s.%s constraints changed", table, c.Name))
		}
	}
	for _, c := range before.Columns {
		if _, ok := newCols[c.Name]; !ok {
			changes = append(changes, fmt.Sprintf("column %s.%s removed", table, c.Name))
		}
	}
	return changes
}
