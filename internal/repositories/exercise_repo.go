package repositories

import "gymlog/internal/models"

// ExerciseFilter narrows exercise listings. Zero values mean "no filter".
type ExerciseFilter struct {
	Search      string
	MuscleGroup string
	Difficulty  string
}

// ExerciseRepository defines the interface for exercise data access.
type ExerciseRepository interface {
	// ListVisible returns public exercises plus those owned by viewerID,
	// newest first, narrowed by the filter.
	ListVisible(viewerID string, filter ExerciseFilter) ([]models.Exercise, error)
	GetByID(id string) (*models.Exercise, error)
	Create(exercise *models.Exercise) error
	Update(exercise *models.Exercise) error
	Delete(id string) error
	// CountEntries reports how many workout entries reference the exercise.
	// Deletion is refused while the count is non-zero.
	CountEntries(exerciseID string) (int64, error)
}
