package progression

import "learnpath_backend/internal/curriculum"

type UnitSummary struct {
	UnitID           string `json:"unitId"`
	CompletedModules int    `json:"completedModules"`
	TotalModules     int    `json:"totalModules"`
	Done             bool   `json:"done"`
}

// Summary is the learner's completion of one path, counted over modules.
type Summary struct {
	PathID           string        `json:"pathId"`
	CompletedModules int           `json:"completedModules"`
	TotalModules     int           `json:"totalModules"`
	Percent          float64       `json:"percent"`
	Done             bool          `json:"done"`
	Units            []UnitSummary `json:"units"`
}

// Summarize counts completed modules per unit. Ids in completed that are not
// part of the path are ignored.
func Summarize(path *curriculum.Path, completed CompletedSet) Summary {
	s := Summary{PathID: path.ID, Units: make([]UnitSummary, 0, len(path.Units))}
	for _, u := range path.OrderedUnits() {
		us := UnitSummary{UnitID: u.ID, TotalModules: len(u.Modules)}
		for _, m := range u.Modules {
			if completed.Has(m.ID) {
				us.CompletedModules++
			}
		}
		us.Done = us.CompletedModules == us.TotalModules
		s.CompletedModules += us.CompletedModules
		s.TotalModules += us.TotalModules
		s.Units = append(s.Units, us)
	}
	if s.TotalModules > 0 {
		s.Percent = float64(s.CompletedModules) * 100 / float64(s.TotalModules)
	}
	s.Done = s.TotalModules > 0 && s.CompletedModules == s.TotalModules
	return s
}

func (n *Navigator) Progress() Summary {
	return Summarize(n.path, n.completed)
}
