package repositories

import (
	"fmt"
	"time"

	"gymlog/internal/models"
	"gymlog/internal/reports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMWorkoutRepository is a GORM implementation of WorkoutRepository.
type GORMWorkoutRepository struct {
	db *gorm.DB
}

// NewGORMWorkoutRepository creates a new instance of GORMWorkoutRepository.
func NewGORMWorkoutRepository(db *gorm.DB) *GORMWorkoutRepository {
	return &GORMWorkoutRepository{
		db: db,
	}
}

// ListByOwner retrieves the owner's workouts, newest first.
func (r *GORMWorkoutRepository) ListByOwner(ownerID string, filter WorkoutFilter) ([]models.Workout, error) {
	query := r.db.Where("owner_id = ?", ownerID)

	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}
	if filter.WorkoutType != "" {
		query = query.Where("workout_type = ?", filter.WorkoutType)
	}

	var workouts []models.Workout
	if err := query.Preload("Entries").Order("date DESC, created_at DESC").Find(&workouts).Error; err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	return workouts, nil
}

// GetByID retrieves a single workout with its entries.
func (r *GORMWorkoutRepository) GetByID(id string) (*models.Workout, error) {
	var workout models.Workout
	if err := r.db.Preload("Entries").First(&workout, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("workout with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get workout by ID %s: %w", id, err)
	}
	return &workout, nil
}

// Create persists the workout and its entries in one transaction.
func (r *GORMWorkoutRepository) Create(workout *models.Workout) error {
	if workout.ID == "" {
		workout.ID = uuid.New().String()
	}
	for i := range workout.Entries {
		if workout.Entries[i].ID == "" {
			workout.Entries[i].ID = uuid.New().String()
		}
		workout.Entries[i].WorkoutID = workout.ID
	}
	if err := r.db.Create(workout).Error; err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}
	return nil
}

// Update replaces the workout's fields and its entry set.
func (r *GORMWorkoutRepository) Update(workout *models.Workout) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Omit("Entries").Save(workout)
		if res.Error != nil {
			return fmt.Errorf("failed to update workout: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("workout with ID %s not found for update: %w", workout.ID, ErrNotFound)
		}

		// Entries are replaced wholesale: the entry set is exclusively
		// owned by the workout.
		if err := tx.Where("workout_id = ?", workout.ID).Delete(&models.WorkoutEntry{}).Error; err != nil {
			return fmt.Errorf("failed to clear entries for workout %s: %w", workout.ID, err)
		}
		for i := range workout.Entries {
			if workout.Entries[i].ID == "" {
				workout.Entries[i].ID = uuid.New().String()
			}
			workout.Entries[i].WorkoutID = workout.ID
		}
		if len(workout.Entries) > 0 {
			if err := tx.Create(&workout.Entries).Error; err != nil {
				return fmt.Errorf("failed to recreate entries for workout %s: %w", workout.ID, err)
			}
		}
		return nil
	})
}

// Delete removes a workout and its entries.
func (r *GORMWorkoutRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", id).Delete(&models.WorkoutEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete entries for workout %s: %w", id, err)
		}
		res := tx.Delete(&models.Workout{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete workout: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("workout with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

// entryRow is the join projection ListEntries scans into.
type entryRow struct {
	WorkoutID       string
	WorkoutDate     time.Time
	WorkoutType     string
	DurationMinutes int
	ExerciseID      string
	ExerciseName    string
	Sets            int
	Reps            int
	Weight          *float64
	Calories        float64
	OrderInWorkout  int
	CreatedAt       time.Time
}

// ListEntries flattens workout entries with their workout's date, ordered
// by date ascending, ties in creation order.
func (r *GORMWorkoutRepository) ListEntries(ownerID string, dateFrom, dateTo *time.Time, exerciseID *string) ([]reports.Entry, error) {
	query := r.db.Table("workout_entries").
		Select(`workout_entries.workout_id,
			workouts.date AS workout_date,
			workouts.workout_type,
			workouts.duration_minutes,
			workout_entries.exercise_id,
			exercises.name AS exercise_name,
			workout_entries.sets,
			workout_entries.reps,
			workout_entries.weight,
			workout_entries.calories,
			workout_entries.order_in_workout,
			workout_entries.created_at`).
		Joins("JOIN workouts ON workouts.id = workout_entries.workout_id").
		Joins("LEFT JOIN exercises ON exercises.id = workout_entries.exercise_id").
		Where("workouts.owner_id = ?", ownerID)

	if dateFrom != nil {
		query = query.Where("workouts.date >= ?", *dateFrom)
	}
	if dateTo != nil {
		query = query.Where("workouts.date <= ?", *dateTo)
	}
	if exerciseID != nil {
		query = query.Where("workout_entries.exercise_id = ?", *exerciseID)
	}

	var rows []entryRow
	if err := query.Order("workouts.date ASC, workout_entries.created_at ASC, workout_entries.order_in_workout ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list entries for owner %s: %w", ownerID, err)
	}

	entries := make([]reports.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, reports.Entry{
			WorkoutID:       row.WorkoutID,
			WorkoutDate:     row.WorkoutDate,
			WorkoutType:     row.WorkoutType,
			DurationMinutes: row.DurationMinutes,
			ExerciseID:      row.ExerciseID,
			ExerciseName:    row.ExerciseName,
			Sets:            row.Sets,
			Reps:            row.Reps,
			Weight:          row.Weight,
			Calories:        row.Calories,
			OrderInWorkout:  row.OrderInWorkout,
			CreatedAt:       row.CreatedAt,
		})
	}
	return entries, nil
}
