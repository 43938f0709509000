package progression

import "learnpath_backend/internal/curriculum"

type StateKind string

const (
	KindIntroduction StateKind = "introduction"
	KindUnit         StateKind = "unit"
	KindModule       StateKind = "module"
	KindUnitTest     StateKind = "unit_test"
	KindFinalTest    StateKind = "final_test"
)

// State is the navigator's current selection. Unit is set for every kind
// except introduction and final test, Module only for KindModule and Test for
// both test kinds.
type State struct {
	Kind   StateKind
	Unit   *curriculum.Unit
	Module *curriculum.Module
	Test   *curriculum.Test
}

func Introduction() State {
	return State{Kind: KindIntroduction}
}

func UnitSelected(u *curriculum.Unit) State {
	return State{Kind: KindUnit, Unit: u}
}

func ModuleSelected(u *curriculum.Unit, m *curriculum.Module) State {
	return State{Kind: KindModule, Unit: u, Module: m}
}

func UnitTestSelected(u *curriculum.Unit) State {
	return State{Kind: KindUnitTest, Unit: u, Test: u.Test}
}

func FinalTestSelected(t *curriculum.Test) State {
	return State{Kind: KindFinalTest, Test: t}
}

func (s State) UnitID() string {
	if s.Unit == nil {
		return ""
	}
	return s.Unit.ID
}

func (s State) ModuleID() string {
	if s.Module == nil {
		return ""
	}
	return s.Module.ID
}

func (s State) TestID() string {
	if s.Test == nil {
		return ""
	}
	return s.Test.ID
}

// Equal compares selections by identity of the selected objects.
func (s State) Equal(o State) bool {
	return s.Kind == o.Kind && s.UnitID() == o.UnitID() && s.ModuleID() == o.ModuleID() && s.TestID() == o.TestID()
}
