package progression

import (
	"context"
	"errors"
	"fmt"

	"learnpath_backend/internal/curriculum"
)

// scenarioPath is Unit1 = [M1, M2] + T1, Unit2 = [M3], no final test.
func scenarioPath() *curriculum.Path {
	u1 := &curriculum.Unit{
		ID:          "U1",
		OrderNumber: 1,
		Modules: []*curriculum.Module{
			{ID: "M1", UnitID: "U1", OrderNumber: 1},
			{ID: "M2", UnitID: "U1", OrderNumber: 2},
		},
		Test: &curriculum.Test{ID: "T1", Type: curriculum.TestTypeUnit, UnitID: "U1"},
	}
	u2 := &curriculum.Unit{
		ID:          "U2",
		OrderNumber: 2,
		Modules:     []*curriculum.Module{{ID: "M3", UnitID: "U2", OrderNumber: 1}},
	}
	return &curriculum.Path{ID: "P1", Units: []*curriculum.Unit{u1, u2}}
}

// linearPath has units*perUnit modules and no tests.
func linearPath(units, perUnit int) *curriculum.Path {
	p := &curriculum.Path{ID: "linear"}
	for i := 0; i < units; i++ {
		u := &curriculum.Unit{ID: fmt.Sprintf("u%d", i), OrderNumber: i + 1}
		for j := 0; j < perUnit; j++ {
			u.Modules = append(u.Modules, &curriculum.Module{
				ID:          fmt.Sprintf("u%d-m%d", i, j),
				UnitID:      u.ID,
				OrderNumber: j + 1,
			})
		}
		p.Units = append(p.Units, u)
	}
	return p
}

type saveCall struct {
	learnerID, pathID, unitID, moduleID string
}

type fakeStore struct {
	completed map[string]CompletedSet
	loadErr   error
	saveErr   error
	saves     []saveCall
}

func newFakeStore() *fakeStore {
	return &fakeStore{completed: make(map[string]CompletedSet)}
}

func (f *fakeStore) LoadCompleted(ctx context.Context, learnerID, pathID string) (CompletedSet, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	set, ok := f.completed[learnerID+"/"+pathID]
	if !ok {
		return NewCompletedSet(), nil
	}
	return set.clone(), nil
}

func (f *fakeStore) MarkComplete(ctx context.Context, learnerID, pathID, unitID, moduleID string) error {
	f.saves = append(f.saves, saveCall{learnerID, pathID, unitID, moduleID})
	if f.saveErr != nil {
		return f.saveErr
	}
	key := learnerID + "/" + pathID
	if f.completed[key] == nil {
		f.completed[key] = NewCompletedSet()
	}
	f.completed[key].Add(moduleID)
	return nil
}

var errBackend = errors.New("backend unavailable")
