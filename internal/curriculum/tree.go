// Package curriculum holds the immutable learning path tree the progression
// engine navigates: Path → Units → {Modules, optional Test} and an optional
// final test.
package curriculum

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

type ContentType string

const (
	ContentPDF        ContentType = "PDF"
	ContentVideo      ContentType = "Video"
	ContentText       ContentType = "Text"
	ContentQuiz       ContentType = "Quiz"
	ContentAssignment ContentType = "Assignment"
)

type TestType string

const (
	TestTypeUnit  TestType = "unit"
	TestTypeFinal TestType = "final"
)

// Counts are informational only; navigation never relies on them.
type Counts struct {
	TotalUnits   int `json:"totalUnits"`
	TotalModules int `json:"totalModules"`
	TotalTests   int `json:"totalTests"`
}

type Path struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Level         Level   `json:"level"`
	DurationHours int     `json:"duration"`
	Counts        Counts  `json:"counts"`
	Units         []*Unit `json:"units"`
	FinalTest     *Test   `json:"finalTest,omitempty"`
}

type Unit struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OrderNumber int       `json:"orderNumber"`
	Modules     []*Module `json:"modules"`
	Test        *Test     `json:"test,omitempty"`
}

type Module struct {
	ID              string      `json:"id"`
	UnitID          string      `json:"unitId"`
	Title           string      `json:"title"`
	ContentType     ContentType `json:"contentType"`
	Content         string      `json:"content,omitempty"`
	FileKey         string      `json:"fileKey,omitempty"`
	DurationMinutes int         `json:"duration"`
	OrderNumber     int         `json:"orderNumber"`
}

type Test struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Type           TestType   `json:"testType"`
	UnitID         string     `json:"unitId,omitempty"`
	Questions      []Question `json:"questions"`
	PassPercentage int        `json:"passPercentage"`
	TotalMarks     int        `json:"totalMarks"`
}

// Question is opaque to navigation: only identity and count matter.
type Question struct {
	ID          string `json:"id"`
	OrderNumber int    `json:"orderNumber"`
}

// Unit returns the unit with the given id, or nil.
func (p *Path) Unit(id string) *Unit {
	for _, u := range p.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// OrderedUnits returns the units ascending by OrderNumber, lower id first
// on ties. Trees from BuildTree are already in this order.
func (p *Path) OrderedUnits() []*Unit {
	units := make([]*Unit, len(p.Units))
	copy(units, p.Units)
	sortUnits(units)
	return units
}

// NextUnit returns the unit following u in path order, or nil when u is the
// last unit or not part of the path.
func (p *Path) NextUnit(u *Unit) *Unit {
	if u == nil {
		return nil
	}
	units := p.OrderedUnits()
	for i, candidate := range units {
		if candidate.ID == u.ID {
			if i+1 < len(units) {
				return units[i+1]
			}
			return nil
		}
	}
	return nil
}

// UnitOfModule returns the unit owning the module id, or nil.
func (p *Path) UnitOfModule(moduleID string) *Unit {
	for _, u := range p.Units {
		if u.ModuleIndex(moduleID) >= 0 {
			return u
		}
	}
	return nil
}

func (p *Path) ModuleCount() int {
	n := 0
	for _, u := range p.Units {
		n += len(u.Modules)
	}
	return n
}

// Position addresses one module inside the flattened sequence. Index is the
// module's position within its unit.
type Position struct {
	Unit   *Unit
	Index  int
	Module *Module
}

// Flatten concatenates every unit's modules in unit order, then module order.
// Unit tests are not part of the sequence.
func (p *Path) Flatten() []Position {
	seq := make([]Position, 0, p.ModuleCount())
	for _, u := range p.OrderedUnits() {
		for i, m := range u.OrderedModules() {
			seq = append(seq, Position{Unit: u, Index: i, Module: m})
		}
	}
	return seq
}

// OrderedModules returns the unit's modules ascending by OrderNumber, lower
// id first on ties.
func (u *Unit) OrderedModules() []*Module {
	modules := make([]*Module, len(u.Modules))
	copy(modules, u.Modules)
	sortModules(modules)
	return modules
}

// ModuleIndex returns the position of the module id within the unit's
// ordered modules, or -1.
func (u *Unit) ModuleIndex(moduleID string) int {
	for i, m := range u.OrderedModules() {
		if m.ID == moduleID {
			return i
		}
	}
	return -1
}

// Module returns the module with the given id, or nil when it is not part of
// this unit.
func (u *Unit) Module(moduleID string) *Module {
	for _, m := range u.Modules {
		if m.ID == moduleID {
			return m
		}
	}
	return nil
}

func (u *Unit) FirstModule() *Module {
	if len(u.Modules) == 0 {
		return nil
	}
	return u.OrderedModules()[0]
}
