package progression

import "learnpath_backend/internal/curriculum"

// ResumeTarget is where a learner lands when reopening a path: the
// introduction, a module or a unit test.
type ResumeTarget = State

// Resolve computes the resume point from the path and the completed module
// set. It is a pure function of its inputs.
//
// The path's modules are flattened in document order and the last completed
// one (by position, not by time) decides the target: its successor in the
// same unit, else the unit's test, else the entry of the next unit. A learner
// with nothing completed, or with the last unit finished, gets the
// introduction; offering the final test is up to the host.
func Resolve(path *curriculum.Path, completed CompletedSet) ResumeTarget {
	if path == nil {
		return Introduction()
	}
	seq := path.Flatten()

	last := -1
	for i, pos := range seq {
		if completed.Has(pos.Module.ID) {
			last = i
		}
	}
	if last == -1 {
		return Introduction()
	}

	pos := seq[last]
	modules := pos.Unit.OrderedModules()
	if pos.Index+1 < len(modules) {
		return ModuleSelected(pos.Unit, modules[pos.Index+1])
	}
	if pos.Unit.Test != nil {
		return UnitTestSelected(pos.Unit)
	}
	if next, ok := entryAfter(path, pos.Unit); ok {
		return next
	}
	return Introduction()
}

// entryAfter finds the first navigable selection in the units following u:
// the first module of a unit, or its test when it has no modules. Units with
// neither are skipped.
func entryAfter(path *curriculum.Path, u *curriculum.Unit) (State, bool) {
	for next := path.NextUnit(u); next != nil; next = path.NextUnit(next) {
		if m := next.FirstModule(); m != nil {
			return ModuleSelected(next, m), true
		}
		if next.Test != nil {
			return UnitTestSelected(next), true
		}
	}
	return State{}, false
}
