package model

import "encoding/json"

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

const (
	ContentPDF        = "PDF"
	ContentVideo      = "Video"
	ContentText       = "Text"
	ContentQuiz       = "Quiz"
	ContentAssignment = "Assignment"
)

const (
	TestTypeUnit  = "unit"
	TestTypeFinal = "final"
)

// LearningPath is the row set fetched for one path. Units, modules, tests
// and questions are preloaded by the repository.
// swagger:model LearningPath
type LearningPath struct {
	UUIDBase
	Title        string `gorm:"size:255;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Level        string `gorm:"size:20;not null" json:"level"`
	Duration     int    `gorm:"default:0" json:"duration"` // hours
	TotalUnits   int    `gorm:"default:0" json:"totalUnits"`
	TotalModules int    `gorm:"default:0" json:"totalModules"`
	TotalTests   int    `gorm:"default:0" json:"totalTests"`
	Units        []Unit `gorm:"foreignKey:LearningPathID" json:"units"`
	FinalTest    *Test  `gorm:"foreignKey:LearningPathID" json:"finalTest,omitempty"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

// swagger:model Unit
type Unit struct {
	UUIDBase
	LearningPathID string   `gorm:"index;type:varchar(36)" json:"learningPathId"`
	Title          string   `gorm:"size:255;not null" json:"title"`
	Description    string   `gorm:"type:text" json:"description"`
	OrderNumber    int      `gorm:"not null" json:"orderNumber"`
	Modules        []Module `gorm:"foreignKey:UnitID" json:"modules"`
	Test           *Test    `gorm:"foreignKey:UnitID" json:"test,omitempty"`
}

func (Unit) TableName() string {
	return "units"
}

// swagger:model Module
type Module struct {
	UUIDBase
	UnitID      string `gorm:"index;type:varchar(36)" json:"unitId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	ContentType string `gorm:"size:20;not null" json:"contentType"`
	Content     string `gorm:"type:longtext" json:"content"`
	FileKey     string `gorm:"size:512" json:"fileKey"` // object storage key for PDF/Video
	Duration    int    `gorm:"default:0" json:"duration"` // minutes
	OrderNumber int    `gorm:"not null" json:"orderNumber"`
}

func (Module) TableName() string {
	return "modules"
}

// Test is either a unit test (UnitID set) or the path's final test.
// swagger:model Test
type Test struct {
	UUIDBase
	LearningPathID string     `gorm:"index;type:varchar(36)" json:"learningPathId"`
	UnitID         *string    `gorm:"index;type:varchar(36)" json:"unitId,omitempty"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	TestType       string     `gorm:"size:10;not null" json:"testType"`
	PassPercentage int        `gorm:"default:0" json:"passPercentage"`
	TotalMarks     int        `gorm:"default:0" json:"totalMarks"`
	Questions      []Question `gorm:"foreignKey:TestID" json:"questions"`
}

func (Test) TableName() string {
	return "tests"
}

// swagger:model Question
type Question struct {
	UUIDBase
	TestID       string          `gorm:"index;type:varchar(36)" json:"testId"`
	QuestionType string          `gorm:"size:50" json:"questionType"`
	Content      string          `gorm:"type:text" json:"content"`
	Options      json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	Marks        int             `gorm:"default:0" json:"marks"`
	OrderNumber  int             `gorm:"default:0" json:"orderNumber"`
}

func (Question) TableName() string {
	return "questions"
}
