package models

import "gorm.io/gorm"

// Difficulty levels for exercises.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Exercise represents an exercise in the catalogue, either public
// (shared, ownerless) or private to its creator.
//
// Invariant: IsPublic == true exactly when OwnerID is nil.
type Exercise struct {
	ID             string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string  `json:"name" gorm:"index;type:varchar(100)" validate:"required,min=2,max=100"`
	Description    string  `json:"description" validate:"omitempty,max=1000"`
	MuscleGroup    string  `json:"muscle_group" gorm:"index;type:varchar(50)" validate:"required,max=50"`
	Equipment      string  `json:"equipment" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	Difficulty     string  `json:"difficulty" gorm:"type:varchar(20)" validate:"required,oneof=beginner intermediate advanced"`
	CaloriesPerSet float64 `json:"calories_per_set" validate:"gte=0"`
	IsPublic       bool    `json:"is_public"`
	OwnerID        *string `json:"owner_id" gorm:"type:varchar(36);index"`
	gorm.Model             // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ResourceOwner implements authz.Resource. Public exercises have no owner.
func (e *Exercise) ResourceOwner() (string, bool) {
	if e.OwnerID == nil {
		return "", false
	}
	return *e.OwnerID, true
}
