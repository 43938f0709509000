package curriculum

import (
	"fmt"
	"sort"

	"learnpath_backend/internal/model"
)

// BuildTree turns fetched rows into an immutable Path. Units and modules are
// ordered ascending by OrderNumber (ties by id so the result is deterministic),
// and the tree is rejected when it contains a dead end the navigator cannot
// traverse or colliding sibling order numbers.
func BuildTree(raw *model.LearningPath) (*Path, error) {
	if raw == nil {
		return nil, &MalformedCurriculumError{Reason: "no path data"}
	}

	path := &Path{
		ID:            raw.ID,
		Title:         raw.Title,
		Description:   raw.Description,
		Level:         Level(raw.Level),
		DurationHours: raw.Duration,
		Counts: Counts{
			TotalUnits:   raw.TotalUnits,
			TotalModules: raw.TotalModules,
			TotalTests:   raw.TotalTests,
		},
		Units: make([]*Unit, 0, len(raw.Units)),
	}

	for i := range raw.Units {
		u, err := buildUnit(raw.ID, &raw.Units[i])
		if err != nil {
			return nil, err
		}
		path.Units = append(path.Units, u)
	}
	sortUnits(path.Units)
	for i := 1; i < len(path.Units); i++ {
		if path.Units[i].OrderNumber == path.Units[i-1].OrderNumber {
			return nil, &MalformedCurriculumError{
				PathID: raw.ID,
				UnitID: path.Units[i].ID,
				Reason: fmt.Sprintf("unit orderNumber %d collides with unit %s", path.Units[i].OrderNumber, path.Units[i-1].ID),
			}
		}
	}

	if raw.FinalTest != nil {
		ft := buildTest(raw.FinalTest)
		if ft.Type != TestTypeFinal {
			return nil, &MalformedCurriculumError{PathID: raw.ID, Reason: fmt.Sprintf("final test %s has type %q", ft.ID, ft.Type)}
		}
		path.FinalTest = ft
	}

	return path, nil
}

func buildUnit(pathID string, raw *model.Unit) (*Unit, error) {
	u := &Unit{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		OrderNumber: raw.OrderNumber,
		Modules:     make([]*Module, 0, len(raw.Modules)),
	}

	for _, m := range raw.Modules {
		u.Modules = append(u.Modules, &Module{
			ID:              m.ID,
			UnitID:          raw.ID,
			Title:           m.Title,
			ContentType:     ContentType(m.ContentType),
			Content:         m.Content,
			FileKey:         m.FileKey,
			DurationMinutes: m.Duration,
			OrderNumber:     m.OrderNumber,
		})
	}
	sortModules(u.Modules)
	for i := 1; i < len(u.Modules); i++ {
		if u.Modules[i].OrderNumber == u.Modules[i-1].OrderNumber {
			return nil, &MalformedCurriculumError{
				PathID: pathID,
				UnitID: raw.ID,
				Reason: fmt.Sprintf("module orderNumber %d shared by %s and %s", u.Modules[i].OrderNumber, u.Modules[i-1].ID, u.Modules[i].ID),
			}
		}
	}

	if raw.Test != nil {
		t := buildTest(raw.Test)
		if t.Type != TestTypeUnit {
			return nil, &MalformedCurriculumError{PathID: pathID, UnitID: raw.ID, Reason: fmt.Sprintf("unit test %s has type %q", t.ID, t.Type)}
		}
		t.UnitID = raw.ID
		u.Test = t
	}

	if len(u.Modules) == 0 && u.Test == nil {
		return nil, &MalformedCurriculumError{PathID: pathID, UnitID: raw.ID, Reason: "unit has no modules and no test"}
	}
	return u, nil
}

func buildTest(raw *model.Test) *Test {
	t := &Test{
		ID:             raw.ID,
		Name:           raw.Name,
		Type:           TestType(raw.TestType),
		PassPercentage: raw.PassPercentage,
		TotalMarks:     raw.TotalMarks,
		Questions:      make([]Question, 0, len(raw.Questions)),
	}
	if raw.UnitID != nil {
		t.UnitID = *raw.UnitID
	}
	for _, q := range raw.Questions {
		t.Questions = append(t.Questions, Question{ID: q.ID, OrderNumber: q.OrderNumber})
	}
	sort.SliceStable(t.Questions, func(i, j int) bool {
		if t.Questions[i].OrderNumber != t.Questions[j].OrderNumber {
			return t.Questions[i].OrderNumber < t.Questions[j].OrderNumber
		}
		return t.Questions[i].ID < t.Questions[j].ID
	})
	return t
}

func sortUnits(units []*Unit) {
	sort.SliceStable(units, func(i, j int) bool {
		if units[i].OrderNumber != units[j].OrderNumber {
			return units[i].OrderNumber < units[j].OrderNumber
		}
		return units[i].ID < units[j].ID
	})
}

func sortModules(modules []*Module) {
	sort.SliceStable(modules, func(i, j int) bool {
		if modules[i].OrderNumber != modules[j].OrderNumber {
			return modules[i].OrderNumber < modules[j].OrderNumber
		}
		return modules[i].ID < modules[j].ID
	})
}
