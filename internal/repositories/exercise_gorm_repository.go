package repositories

import (
	"fmt"

	"gymlog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMExerciseRepository is a GORM implementation of ExerciseRepository.
type GORMExerciseRepository struct {
	db *gorm.DB
}

// NewGORMExerciseRepository creates a new instance of GORMExerciseRepository.
func NewGORMExerciseRepository(db *gorm.DB) *GORMExerciseRepository {
	return &GORMExerciseRepository{
		db: db,
	}
}

// ListVisible retrieves public exercises plus the viewer's own ones.
func (r *GORMExerciseRepository) ListVisible(viewerID string, filter ExerciseFilter) ([]models.Exercise, error) {
	query := r.db.Where("is_public = ? OR owner_id = ?", true, viewerID)

	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.MuscleGroup != "" {
		query = query.Where("muscle_group = ?", filter.MuscleGroup)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	var exercises []models.Exercise
	if err := query.Order("created_at DESC").Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	return exercises, nil
}

// GetByID retrieves a single exercise by its ID from the database.
func (r *GORMExerciseRepository) GetByID(id string) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := r.db.First(&exercise, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("exercise with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get exercise by ID %s: %w", id, err)
	}
	return &exercise, nil
}

// Create creates a new exercise in the database.
func (r *GORMExerciseRepository) Create(exercise *models.Exercise) error {
	if exercise.ID == "" {
		exercise.ID = uuid.New().String()
	}
	if err := r.db.Create(exercise).Error; err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	return nil
}

// Update updates an existing exercise in the database.
func (r *GORMExerciseRepository) Update(exercise *models.Exercise) error {
	res := r.db.Save(exercise) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update exercise: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("exercise with ID %s not found for update: %w", exercise.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes an exercise by its ID from the database.
func (r *GORMExerciseRepository) Delete(id string) error {
	res := r.db.Delete(&models.Exercise{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete exercise: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("exercise with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// CountEntries counts workout entries referencing the exercise.
func (r *GORMExerciseRepository) CountEntries(exerciseID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.WorkoutEntry{}).Where("exercise_id = ?", exerciseID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count entries for exercise %s: %w", exerciseID, err)
	}
	return count, nil
}
