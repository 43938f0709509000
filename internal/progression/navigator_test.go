package progression

import (
	"context"
	"errors"
	"testing"

	"learnpath_backend/internal/curriculum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_Scenario(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.completed["learner/P1"] = NewCompletedSet("M1")

	nav := Open(ctx, scenarioPath(), "learner", store)
	require.NoError(t, nav.LoadWarning())
	assert.Equal(t, KindModule, nav.Current().Kind)
	assert.Equal(t, "M2", nav.Current().ModuleID())

	tr, err := nav.MarkCurrentModuleComplete(ctx)
	require.NoError(t, err)
	assert.True(t, tr.Moved)
	assert.Equal(t, KindUnitTest, nav.Current().Kind)
	assert.Equal(t, "T1", nav.Current().TestID())
	assert.Equal(t, []string{"M1", "M2"}, nav.CompletedModules())
	require.Len(t, store.saves, 1)
	assert.Equal(t, saveCall{"learner", "P1", "U1", "M2"}, store.saves[0])

	// Test completion is external: advancing from the test stays put.
	tr, err = nav.Advance()
	require.NoError(t, err)
	assert.False(t, tr.Moved)
	assert.Equal(t, KindUnitTest, nav.Current().Kind)

	require.NoError(t, nav.SelectModule("U2", "M3"))
	assert.Equal(t, KindModule, nav.Current().Kind)
	assert.Equal(t, "U2", nav.Current().UnitID())
	assert.Equal(t, "M3", nav.Current().ModuleID())
}

func TestNavigator_AdvanceVisitsEveryModuleOnce(t *testing.T) {
	ctx := context.Background()
	path := linearPath(3, 4)
	store := newFakeStore()
	nav := Open(ctx, path, "learner", store)
	require.NoError(t, nav.SelectUnit("u0"))

	var visited []string
	var last Transition
	for i := 0; i < 100 && nav.Current().Kind == KindModule; i++ {
		visited = append(visited, nav.Current().ModuleID())
		tr, err := nav.MarkCurrentModuleComplete(ctx)
		require.NoError(t, err)
		last = tr
	}

	want := make([]string, 0, path.ModuleCount())
	for _, pos := range path.Flatten() {
		want = append(want, pos.Module.ID)
	}
	assert.Equal(t, want, visited)
	assert.Equal(t, KindIntroduction, nav.Current().Kind)
	assert.True(t, last.PathComplete)
	assert.Nil(t, last.FinalTest)
	assert.Len(t, store.saves, path.ModuleCount())
	assert.Equal(t, path.ModuleCount(), len(nav.CompletedModules()))
}

func TestNavigator_PathCompleteOffersFinalTest(t *testing.T) {
	path := linearPath(1, 1)
	path.FinalTest = &curriculum.Test{ID: "final", Type: curriculum.TestTypeFinal}
	nav := New(path, "learner", newFakeStore(), nil, Introduction())
	require.NoError(t, nav.SelectModule("u0", "u0-m0"))

	tr, err := nav.MarkCurrentModuleComplete(context.Background())
	require.NoError(t, err)
	assert.True(t, tr.PathComplete)
	require.NotNil(t, tr.FinalTest)
	assert.Equal(t, "final", tr.FinalTest.ID)
	assert.Equal(t, KindIntroduction, nav.Current().Kind)

	require.NoError(t, nav.SelectFinalTest())
	assert.Equal(t, KindFinalTest, nav.Current().Kind)
	assert.Equal(t, "final", nav.Current().TestID())
}

func TestNavigator_IdempotentCompletion(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	nav := Open(ctx, scenarioPath(), "learner", store)

	require.NoError(t, nav.SelectModule("U1", "M1"))
	_, err := nav.MarkCurrentModuleComplete(ctx)
	require.NoError(t, err)
	before := nav.ResumeTarget()

	require.NoError(t, nav.SelectModule("U1", "M1"))
	_, err = nav.MarkCurrentModuleComplete(ctx)
	require.NoError(t, err)

	assert.Len(t, nav.CompletedModules(), 1)
	assert.True(t, before.Equal(nav.ResumeTarget()))
	assert.Equal(t, 1, store.completed["learner/P1"].Len())
}

func TestNavigator_SelectionGuard(t *testing.T) {
	nav := New(scenarioPath(), "learner", newFakeStore(), nil, Introduction())
	require.NoError(t, nav.SelectModule("U1", "M2"))
	before := nav.Current()

	err := nav.SelectModule("U1", "M3")
	var invalidErr *InvalidSelectionError
	require.True(t, errors.As(err, &invalidErr))
	assert.Equal(t, "selectModule", invalidErr.Op)
	assert.True(t, before.Equal(nav.Current()))

	assert.Error(t, nav.SelectModule("missing", "M1"))
	assert.Error(t, nav.SelectUnit("missing"))
	assert.Error(t, nav.SelectUnitTest("U2"))
	assert.Error(t, nav.SelectFinalTest())
	assert.Error(t, nav.ToggleUnitExpansion("missing"))
	assert.True(t, before.Equal(nav.Current()))
}

func TestNavigator_SelectUnit(t *testing.T) {
	path := scenarioPath()
	path.Units = append(path.Units,
		&curriculum.Unit{ID: "U3", OrderNumber: 3, Test: &curriculum.Test{ID: "T3", Type: curriculum.TestTypeUnit}},
		&curriculum.Unit{ID: "U4", OrderNumber: 4},
	)
	nav := New(path, "", nil, nil, Introduction())

	require.NoError(t, nav.SelectUnit("U1"))
	assert.Equal(t, "M1", nav.Current().ModuleID())

	require.NoError(t, nav.SelectUnit("U3"))
	assert.Equal(t, KindUnitTest, nav.Current().Kind)
	assert.Equal(t, "T3", nav.Current().TestID())

	require.NoError(t, nav.SelectUnit("U4"))
	assert.Equal(t, KindUnit, nav.Current().Kind)
	assert.Equal(t, "U4", nav.Current().UnitID())

	nav.SelectIntroduction()
	nav.SelectIntroduction()
	assert.Equal(t, KindIntroduction, nav.Current().Kind)
}

func TestNavigator_AdvanceFromUnsupportedStates(t *testing.T) {
	nav := New(scenarioPath(), "learner", newFakeStore(), nil, Introduction())

	_, err := nav.Advance()
	var invalidErr *InvalidSelectionError
	assert.True(t, errors.As(err, &invalidErr))
	assert.Equal(t, KindIntroduction, nav.Current().Kind)

	_, err = nav.MarkCurrentModuleComplete(context.Background())
	assert.True(t, errors.As(err, &invalidErr))
}

func TestNavigator_AdvanceSkipsEmptyUnits(t *testing.T) {
	path := linearPath(1, 1)
	path.Units = append(path.Units,
		&curriculum.Unit{ID: "empty", OrderNumber: 2},
		&curriculum.Unit{ID: "last", OrderNumber: 3, Modules: []*curriculum.Module{{ID: "last-m", UnitID: "last", OrderNumber: 1}}},
	)
	nav := New(path, "", nil, nil, Introduction())
	require.NoError(t, nav.SelectModule("u0", "u0-m0"))

	tr, err := nav.Advance()
	require.NoError(t, err)
	assert.False(t, tr.PathComplete)
	assert.Equal(t, "last-m", nav.Current().ModuleID())
}

func TestNavigator_SaveFailureBlocksAdvance(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.saveErr = errBackend
	nav := Open(ctx, scenarioPath(), "learner", store)
	require.NoError(t, nav.SelectModule("U1", "M1"))

	tr, err := nav.MarkCurrentModuleComplete(ctx)
	var saveErr *ProgressSaveError
	require.True(t, errors.As(err, &saveErr))
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, "M1", saveErr.ModuleID)
	assert.False(t, tr.Moved)
	assert.Equal(t, "M1", nav.Current().ModuleID())
	assert.False(t, nav.IsModuleCompleted("M1"))

	// Retrying the same action succeeds once the store recovers.
	store.saveErr = nil
	_, err = nav.MarkCurrentModuleComplete(ctx)
	require.NoError(t, err)
	assert.True(t, nav.IsModuleCompleted("M1"))
	assert.Equal(t, "M2", nav.Current().ModuleID())
}

func TestOpen_FailOpenLoad(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errBackend
	store.completed["learner/P1"] = NewCompletedSet("M1")

	var nav *Navigator
	require.NotPanics(t, func() {
		nav = Open(context.Background(), scenarioPath(), "learner", store)
	})
	assert.Equal(t, KindIntroduction, nav.Current().Kind)
	assert.Empty(t, nav.CompletedModules())

	var loadErr *ProgressLoadError
	require.True(t, errors.As(nav.LoadWarning(), &loadErr))
	assert.Equal(t, "learner", loadErr.LearnerID)
	assert.ErrorIs(t, loadErr, errBackend)
}

func TestOpen_AnonymousLearner(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.completed["/P1"] = NewCompletedSet("M1")

	nav := Open(ctx, scenarioPath(), "", store)
	assert.True(t, nav.Anonymous())
	assert.Equal(t, KindIntroduction, nav.Current().Kind)

	require.NoError(t, nav.SelectModule("U1", "M1"))
	_, err := nav.MarkCurrentModuleComplete(ctx)
	require.NoError(t, err)
	assert.Empty(t, store.saves)
	assert.True(t, nav.IsModuleCompleted("M1"))
}

func TestNavigator_SnapshotRestore(t *testing.T) {
	path := scenarioPath()
	nav := New(path, "learner", newFakeStore(), nil, Introduction())
	nav.View().SetNarrow(true)
	nav.View().ToggleSidebar()
	require.NoError(t, nav.ToggleUnitExpansion("U2"))
	require.NoError(t, nav.SelectModule("U1", "M2"))

	snap := nav.Snapshot()
	assert.Equal(t, KindModule, snap.Kind)
	assert.Equal(t, []string{"U2"}, snap.Expanded)
	assert.False(t, snap.SidebarOpen)

	restored := New(path, "learner", newFakeStore(), nil, Introduction())
	require.NoError(t, restored.Restore(snap))
	assert.True(t, nav.Current().Equal(restored.Current()))
	assert.Equal(t, []string{"U1", "U2"}, restored.ExpandedUnits())
	assert.True(t, restored.View().Narrow())

	stale := Snapshot{Kind: KindModule, UnitID: "U1", ModuleID: "gone", Expanded: []string{"gone-unit"}}
	fresh := New(path, "learner", newFakeStore(), nil, Introduction())
	var invalidErr *InvalidSelectionError
	assert.True(t, errors.As(fresh.Restore(stale), &invalidErr))
	assert.Equal(t, KindIntroduction, fresh.Current().Kind)
	assert.Empty(t, fresh.ExpandedUnits())
}
