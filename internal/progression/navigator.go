package progression

import (
	"context"
	"errors"

	"learnpath_backend/internal/curriculum"
)

// Transition describes the outcome of Advance or MarkCurrentModuleComplete.
// PathComplete is set when the learner moved past the last unit; FinalTest
// then carries the path's final test, if any, for the host to offer.
type Transition struct {
	State        State
	Moved        bool
	PathComplete bool
	FinalTest    *curriculum.Test
}

// Navigator is the state machine over a learner's selection in one path. It
// is not safe for concurrent use; hosts open one per request or per view.
type Navigator struct {
	path      *curriculum.Path
	learnerID string
	store     ProgressStore
	completed CompletedSet
	current   State
	view      *ViewState
	loadErr   error
}

// New seeds a navigator with an already loaded completed set and an initial
// selection. An empty learnerID marks an anonymous learner: completions are
// kept in memory only.
func New(path *curriculum.Path, learnerID string, store ProgressStore, completed CompletedSet, initial State) *Navigator {
	if completed == nil {
		completed = NewCompletedSet()
	}
	return &Navigator{
		path:      path,
		learnerID: learnerID,
		store:     store,
		completed: completed.clone(),
		current:   initial,
		view:      NewViewState(),
	}
}

// Open loads the learner's completed modules and seeds the navigator at the
// resume point. A failed load never fails Open: the learner starts at the
// introduction with no progress and LoadWarning reports the error.
func Open(ctx context.Context, path *curriculum.Path, learnerID string, store ProgressStore) *Navigator {
	if learnerID == "" || store == nil {
		return New(path, learnerID, store, nil, Introduction())
	}

	completed, err := store.LoadCompleted(ctx, learnerID, path.ID)
	if err != nil {
		var loadErr *ProgressLoadError
		if !errors.As(err, &loadErr) {
			loadErr = &ProgressLoadError{LearnerID: learnerID, PathID: path.ID, Err: err}
		}
		n := New(path, learnerID, store, nil, Introduction())
		n.loadErr = loadErr
		return n
	}

	return New(path, learnerID, store, completed, Resolve(path, completed))
}

func (n *Navigator) Path() *curriculum.Path { return n.path }

func (n *Navigator) LearnerID() string { return n.learnerID }

func (n *Navigator) Anonymous() bool { return n.learnerID == "" }

// LoadWarning returns the *ProgressLoadError swallowed by Open, if any.
func (n *Navigator) LoadWarning() error { return n.loadErr }

func (n *Navigator) Current() State { return n.current }

func (n *Navigator) View() *ViewState { return n.view }

func (n *Navigator) IsModuleCompleted(moduleID string) bool {
	return n.completed.Has(moduleID)
}

// CompletedModules returns the completed module ids sorted.
func (n *Navigator) CompletedModules() []string {
	return n.completed.IDs()
}

// ResumeTarget recomputes the resume point from the current completed set.
func (n *Navigator) ResumeTarget() ResumeTarget {
	return Resolve(n.path, n.completed)
}

func (n *Navigator) ExpandedUnits() []string {
	return n.view.Expanded(n.path, n.current)
}

func (n *Navigator) ToggleUnitExpansion(unitID string) error {
	if n.path.Unit(unitID) == nil {
		return invalid("toggleUnitExpansion", "unit %s is not part of path %s", unitID, n.path.ID)
	}
	n.view.Toggle(unitID)
	return nil
}

func (n *Navigator) set(s State) {
	n.current = s
	n.view.selected()
}

func (n *Navigator) SelectIntroduction() {
	n.set(Introduction())
}

// SelectUnit lands on the unit's first module, else its test, else the bare
// unit.
func (n *Navigator) SelectUnit(unitID string) error {
	u := n.path.Unit(unitID)
	if u == nil {
		return invalid("selectUnit", "unit %s is not part of path %s", unitID, n.path.ID)
	}
	switch {
	case u.FirstModule() != nil:
		n.set(ModuleSelected(u, u.FirstModule()))
	case u.Test != nil:
		n.set(UnitTestSelected(u))
	default:
		n.set(UnitSelected(u))
	}
	return nil
}

func (n *Navigator) SelectModule(unitID, moduleID string) error {
	u := n.path.Unit(unitID)
	if u == nil {
		return invalid("selectModule", "unit %s is not part of path %s", unitID, n.path.ID)
	}
	m := u.Module(moduleID)
	if m == nil {
		return invalid("selectModule", "module %s does not belong to unit %s", moduleID, unitID)
	}
	n.set(ModuleSelected(u, m))
	return nil
}

func (n *Navigator) SelectUnitTest(unitID string) error {
	u := n.path.Unit(unitID)
	if u == nil {
		return invalid("selectUnitTest", "unit %s is not part of path %s", unitID, n.path.ID)
	}
	if u.Test == nil {
		return invalid("selectUnitTest", "unit %s has no test", unitID)
	}
	n.set(UnitTestSelected(u))
	return nil
}

func (n *Navigator) SelectFinalTest() error {
	if n.path.FinalTest == nil {
		return invalid("selectFinalTest", "path %s has no final test", n.path.ID)
	}
	n.set(FinalTestSelected(n.path.FinalTest))
	return nil
}

// Advance is the "Next" transition. From a module it moves to the next
// module, then the unit test, then the entry of the next unit; past the last
// unit it returns to the introduction with PathComplete set. From a unit test
// it is a no-op: passing the test is owned by the assessment side.
func (n *Navigator) Advance() (Transition, error) {
	switch n.current.Kind {
	case KindUnitTest:
		return Transition{State: n.current}, nil
	case KindModule:
	default:
		return Transition{State: n.current}, invalid("advance", "cannot advance from %s", n.current.Kind)
	}

	u := n.current.Unit
	modules := u.OrderedModules()
	idx := u.ModuleIndex(n.current.Module.ID)
	if idx >= 0 && idx+1 < len(modules) {
		n.set(ModuleSelected(u, modules[idx+1]))
		return Transition{State: n.current, Moved: true}, nil
	}
	if u.Test != nil {
		n.set(UnitTestSelected(u))
		return Transition{State: n.current, Moved: true}, nil
	}
	if next, ok := entryAfter(n.path, u); ok {
		n.set(next)
		return Transition{State: n.current, Moved: true}, nil
	}

	n.set(Introduction())
	return Transition{State: n.current, Moved: true, PathComplete: true, FinalTest: n.path.FinalTest}, nil
}

// MarkCurrentModuleComplete persists completion of the selected module and
// advances. When the save fails the completed set and the selection are left
// untouched and a *ProgressSaveError is returned so the learner can retry.
func (n *Navigator) MarkCurrentModuleComplete(ctx context.Context) (Transition, error) {
	if n.current.Kind != KindModule {
		return Transition{State: n.current}, invalid("markCurrentModuleComplete", "no module selected (state %s)", n.current.Kind)
	}
	u, m := n.current.Unit, n.current.Module

	if !n.Anonymous() && n.store != nil {
		if err := n.store.MarkComplete(ctx, n.learnerID, n.path.ID, u.ID, m.ID); err != nil {
			var saveErr *ProgressSaveError
			if !errors.As(err, &saveErr) {
				saveErr = &ProgressSaveError{LearnerID: n.learnerID, PathID: n.path.ID, ModuleID: m.ID, Err: err}
			}
			return Transition{State: n.current}, saveErr
		}
	}

	n.completed.Add(m.ID)
	return n.Advance()
}
