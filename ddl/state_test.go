package ddl

import (
	"bytes"
	"testing"

	"github.com/HazelTheWitch/dbmodels/coltype"
	"github.com/HazelTheWitch/dbmodels/model"
)

func snapshotRegistry(t *testing.T) *model.Registry {
	t.Helper()
	r := model.NewRegistry()
	model.MustDefine(r, departmentShape())
	model.MustDefine(r, personShape())
	return r
}

func TestTakeSnapshot(t *testing.T) {
	snap := TakeSnapshot(snapshotRegistry(t))

	if len(snap.Tables) != 2 {
		t.Fatalf("tables: got %d", len(snap.Tables))
	}
	if snap.Tables[0].Name != "department" || snap.Tables[1].Name != "person" {
		t.Errorf("tables should follow registration order: %+v", snap.Tables)
	}

	name := snap.Tables[1].Columns[1]
	if name.Name != "name" || name.Type != "VARCHAR(50)" {
		t.Errorf("column: %+v", name)
	}
	if len(name.Constraints) != 1 || name.Constraints[0] != "NOT NULL" {
		t.Errorf("constraints: %v", name.Constraints)
	}

	dept := snap.Tables[1].Columns[2]
	if len(dept.Constraints) != 1 || dept.Constraints[0] != "REFERENCES department" {
		t.Errorf("foreign key state: %v", dept.Constraints)
	}
}

func TestFingerprintIgnoresTimestamp(t *testing.T) {
	r := snapshotRegistry(t)
	a := TakeSnapshot(r)
	b := TakeSnapshot(r)
	b.TakenAt = b.TakenAt.AddDate(0, 0, 1)

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical schemas must fingerprint identically")
	}
}

func TestFingerprintChangesWithSchema(t *testing.T) {
	r := snapshotRegistry(t)
	before := TakeSnapshot(r)

	model.MustDefine(r, model.Shape{
		Table:  "extra",
		Fields: []model.FieldDef{{Name: "id", Type: coltype.Integer}},
	})
	after := TakeSnapshot(r)

	if before.Fingerprint() == after.Fingerprint() {
		t.Error("schema change must change the fingerprint")
	}
}

func TestSnapshotSaveLoad(t *testing.T) {
	snap := TakeSnapshot(snapshotRegistry(t))

	var buf bytes.Buffer
	if err := snap.Save(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadSnapshot(&buf)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Fingerprint() != snap.Fingerprint() {
		t.Error("loaded snapshot must fingerprint like the original")
	}
	if !loaded.TakenAt.Equal(snap.TakenAt) {
		t.Errorf("taken at: got %v, want %v", loaded.TakenAt, snap.TakenAt)
	}
}

func TestLoadSnapshotRejectsGarbage(t *testing.T) {
	if _, err := LoadSnapshot(bytes.NewReader([]byte("not msgpack at all"))); err == nil {
		t.Fatal("expected error")
	}
}

func TestSnapshotDiff(t *testing.T) {
	r := model.NewRegistry()
	model.MustDefine(r, departmentShape())
	old := TakeSnapshot(r)

	r2 := model.NewRegistry()
	model.MustDefine(r2, model.Shape{
		Table: "department",
		Fields: []model.FieldDef{
			{Name: "id", Type: coltype.Serial, Constraints: []model.Constraint{model.PrimaryKey}},
			{Name: "title", Type: coltype.Text, Constraints: []model.Constraint{model.Unique}},
			{Name: "floor", Type: coltype.Integer},
		},
	})
	model.MustDefine(r2, personShape())
	current := TakeSnapshot(r2)

	changes := current.DiffFrom(old)
	want := []string{
		"column department.title type changed from VARCHAR(80) to TEXT",
		"column department.floor added",
		"table person added",
	}
	if len(changes) != len(want) {
		t.Fatalf("changes: %v", changes)
	}
	for i, w := range want {
		if changes[i] != w {
			t.Errorf("change %d: got %q, want %q", i, changes[i], w)
		}
	}
}

func TestSnapshotDiffEmpty(t *testing.T) {
	r := snapshotRegistry(t)
	if changes := TakeSnapshot(r).DiffFrom(TakeSnapshot(r)); len(changes) != 0 {
		t.Errorf("identical schemas should not diff: %v", changes)
	}
}
