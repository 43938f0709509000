package progression

import "sort"

// Snapshot is the serialisable part of a navigator: the selection by id and
// the sidebar bookkeeping. The completed set is not part of it; it is always
// reloaded from the progress store.
type Snapshot struct {
	Kind        StateKind `json:"kind"`
	UnitID      string    `json:"unitId,omitempty"`
	ModuleID    string    `json:"moduleId,omitempty"`
	Expanded    []string  `json:"expanded,omitempty"`
	Narrow      bool      `json:"narrow,omitempty"`
	SidebarOpen bool      `json:"sidebarOpen,omitempty"`
}

func (n *Navigator) Snapshot() Snapshot {
	expanded := n.view.manualIDs()
	sort.Strings(expanded)
	return Snapshot{
		Kind:        n.current.Kind,
		UnitID:      n.current.UnitID(),
		ModuleID:    n.current.ModuleID(),
		Expanded:    expanded,
		Narrow:      n.view.narrow,
		SidebarOpen: n.view.sidebarOpen,
	}
}

// Restore re-applies a saved snapshot against the current tree. When the
// saved selection no longer exists (curriculum edited since) the selection is
// left as is and an *InvalidSelectionError is returned; sidebar state is
// restored either way, dropping units that disappeared.
func (n *Navigator) Restore(s Snapshot) error {
	n.view = NewViewState()
	for _, id := range s.Expanded {
		if n.path.Unit(id) != nil {
			n.view.manual[id] = true
		}
	}
	n.view.narrow = s.Narrow
	n.view.sidebarOpen = s.SidebarOpen

	switch s.Kind {
	case KindIntroduction:
		n.current = Introduction()
	case KindUnit:
		u := n.path.Unit(s.UnitID)
		if u == nil {
			return invalid("restore", "unit %s is not part of path %s", s.UnitID, n.path.ID)
		}
		n.current = UnitSelected(u)
	case KindModule:
		u := n.path.Unit(s.UnitID)
		if u == nil || u.Module(s.ModuleID) == nil {
			return invalid("restore", "module %s/%s is not part of path %s", s.UnitID, s.ModuleID, n.path.ID)
		}
		n.current = ModuleSelected(u, u.Module(s.ModuleID))
	case KindUnitTest:
		u := n.path.Unit(s.UnitID)
		if u == nil || u.Test == nil {
			return invalid("restore", "unit test of %s is not part of path %s", s.UnitID, n.path.ID)
		}
		n.current = UnitTestSelected(u)
	case KindFinalTest:
		if n.path.FinalTest == nil {
			return invalid("restore", "path %s has no final test", n.path.ID)
		}
		n.current = FinalTestSelected(n.path.FinalTest)
	default:
		return invalid("restore", "unknown selection kind %q", s.Kind)
	}
	return nil
}
