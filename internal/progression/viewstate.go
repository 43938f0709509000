package progression

import "learnpath_backend/internal/curriculum"

// ViewState is sidebar bookkeeping derived from the current selection. It
// carries no business rules beyond keeping the selected unit expanded.
type ViewState struct {
	manual      map[string]bool
	narrow      bool
	sidebarOpen bool
}

func NewViewState() *ViewState {
	return &ViewState{manual: make(map[string]bool)}
}

// Toggle flips a unit the learner expanded or collapsed by hand.
func (v *ViewState) Toggle(unitID string) {
	if v.manual[unitID] {
		delete(v.manual, unitID)
		return
	}
	v.manual[unitID] = true
}

// Expanded returns the expanded unit ids in path order: the manually expanded
// units plus the unit containing the current selection.
func (v *ViewState) Expanded(path *curriculum.Path, current State) []string {
	ids := make([]string, 0, len(v.manual)+1)
	for _, u := range path.OrderedUnits() {
		if v.manual[u.ID] || u.ID == current.UnitID() {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

func (v *ViewState) SetNarrow(narrow bool) {
	v.narrow = narrow
	if !narrow {
		v.sidebarOpen = false
	}
}

func (v *ViewState) Narrow() bool { return v.narrow }

func (v *ViewState) SidebarOpen() bool { return v.sidebarOpen }

func (v *ViewState) ToggleSidebar() {
	v.sidebarOpen = !v.sidebarOpen
}

// selected closes the mobile overlay after any selection on a narrow viewport.
func (v *ViewState) selected() {
	if v.narrow {
		v.sidebarOpen = false
	}
}

func (v *ViewState) manualIDs() []string {
	ids := make([]string, 0, len(v.manual))
	for id := range v.manual {
		ids = append(ids, id)
	}
	return ids
}
