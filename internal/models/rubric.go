package models

import "time"

// RubricDefinition is the active rubric bound to an assignment. A rubric is
// a set of criteria, each with discrete scoring levels; the rubric score is
// the sum of one selected level per criterion.
type RubricDefinition struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	AssignmentID uint              `gorm:"not null;uniqueIndex" json:"assignment_id"`
	Name         string            `gorm:"size:255;not null" json:"name"`
	Criteria     []RubricCriterion `gorm:"foreignKey:DefinitionID" json:"criteria"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// MaxScore returns the highest attainable rubric total: the sum over every
// criterion of its highest-scoring level. This is the definition's ceiling,
// independent of any submitted selection.
func (d RubricDefinition) MaxScore() float64 {
	var total float64
	for _, criterion := range d.Criteria {
		var best float64
		for _, level := range criterion.Levels {
			if level.Score > best {
				best = level.Score
			}
		}
		total += best
	}
	return total
}

// LevelScores indexes every level score in the definition by level id.
func (d RubricDefinition) LevelScores() map[uint]float64 {
	scores := make(map[uint]float64)
	for _, criterion := range d.Criteria {
		for _, level := range criterion.Levels {
			scores[level.ID] = level.Score
		}
	}
	return scores
}

// RubricCriterion is one scored dimension of a rubric.
type RubricCriterion struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	DefinitionID uint          `gorm:"not null;index" json:"definition_id"`
	Description  string        `gorm:"type:text" json:"description"`
	SortOrder    int           `gorm:"not null;default:0" json:"sort_order"`
	Levels       []RubricLevel `gorm:"foreignKey:CriterionID" json:"levels"`
}

// RubricLevel is one selectable score point within a criterion.
type RubricLevel struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	CriterionID uint    `gorm:"not null;index" json:"criterion_id"`
	Score       float64 `gorm:"not null" json:"score"`
	Definition  string  `gorm:"type:text" json:"definition"`
}

// GradingInstance records one rubric evaluation against a gradebook item.
// Exactly one instance exists per (definition, item); re-saving replaces
// its fillings instead of accumulating them.
type GradingInstance struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DefinitionID uint      `gorm:"not null;uniqueIndex:idx_instance_definition_item" json:"definition_id"`
	ItemID       uint      `gorm:"not null;uniqueIndex:idx_instance_definition_item" json:"item_id"`
	RaterID      uint      `gorm:"not null" json:"rater_id"`
	RawGrade     *float64  `json:"raw_grade"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RubricFilling is one per-criterion selection within a grading instance.
type RubricFilling struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	InstanceID  uint   `gorm:"not null;index" json:"instance_id"`
	CriterionID uint   `gorm:"not null" json:"criterion_id"`
	LevelID     uint   `gorm:"not null" json:"level_id"`
	Remark      string `gorm:"type:text" json:"remark"`
}
