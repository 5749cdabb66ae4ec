package ddl

import "github.com/HazelTheWitch/dbmodels/model"

// Plan orders models so that every foreign key target inside the set comes
// before its dependents. The order is stable: models stay in their input
// order except where a dependency forces them later. Targets outside the set
// are assumed to exist already and do not constrain the order, and a model
// may reference itself. Plan fails with *CyclicDependencyError when two or
// more models form a reference cycle.
func Plan(models []*model.ModelDescriptor) ([]*model.ModelDescriptor, error) {
	inSet := make(map[string]bool, len(models))
	for _, m := range models {
		inSet[m.Table()] = true
	}

	placed := make(map[string]bool, len(models))
	ordered := make([]*model.ModelDescriptor, 0, len(models))
	remaining := append([]*model.ModelDescriptor(nil), models...)

	for len(remaining) > 0 {
		var stalled []*model.ModelDescriptor
		for _, m := range remaining {
			if ready(m, inSet, placed) {
				placed[m.Table()] = true
				ordered = append(ordered, m)
			} else {
				stalled = append(stalled, m)
			}
		}
		if len(stalled) == len(remaining) {
			tables := make([]string, len(stalled))
			for i, m := range stalled {
				tables[i] = m.Table()
			}
			return nil, &CyclicDependencyError{Tables: tables}
		}
		remaining = stalled
	}
	return ordered, nil
}

// ready reports whether every in-set dependency of m has been placed.
// Self-references never block placement.
func ready(m *model.ModelDescriptor, inSet, placed map[string]bool) bool {
	for _, dep := range m.Dependencies() {
		if dep == m.Table() || !inSet[dep] {
			continue
		}
		if !placed[dep] {
			return false
		}
	}
	return true
}
