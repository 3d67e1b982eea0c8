package models

import (
	"time"

	"gorm.io/gorm"
)

// Intensity levels for workouts.
const (
	IntensityLow      = "low"
	IntensityModerate = "moderate"
	IntensityHigh     = "high"
)

// Workout represents a single training session owned by exactly one user.
// The Total* fields are derived from the entries and are recomputed on
// every write; reports recompute them from raw entries rather than trust
// the stored values.
type Workout struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Date            time.Time `json:"date" gorm:"index" validate:"required"`
	WorkoutType     string    `json:"workout_type" gorm:"type:varchar(50)" validate:"required,max=50"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0"`
	Intensity       string    `json:"intensity" gorm:"type:varchar(20)" validate:"required,oneof=low moderate high"`
	Notes           string    `json:"notes" validate:"omitempty,max=1000"`
	OwnerID         string    `json:"owner_id" gorm:"type:varchar(36);index;not null" validate:"required"`

	TotalSets     int     `json:"total_sets"`
	TotalReps     int     `json:"total_reps"`
	TotalWeight   float64 `json:"total_weight"`
	TotalCalories float64 `json:"total_calories"`

	Entries    []WorkoutEntry `json:"entries,omitempty" gorm:"foreignKey:WorkoutID"`
	gorm.Model                // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ResourceOwner implements authz.Resource. A workout always has an owner.
func (w *Workout) ResourceOwner() (string, bool) {
	return w.OwnerID, true
}

// WorkoutEntry records one exercise performance inside a workout.
// It belongs exclusively to its workout and references the exercise
// read-only. Weight, DurationSeconds and DistanceKm are nullable because
// not every exercise is weighted, timed or measured in distance.
type WorkoutEntry struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	WorkoutID  string `json:"workout_id" gorm:"type:varchar(36);index;not null" validate:"required"`
	ExerciseID string `json:"exercise_id" gorm:"type:varchar(36);index;not null" validate:"required"`

	Sets            int      `json:"sets" validate:"required,gte=1"`
	Reps            int      `json:"reps" validate:"required,gte=1"`
	Weight          *float64 `json:"weight" validate:"omitempty,gte=0"`
	DurationSeconds *int     `json:"duration_seconds" validate:"omitempty,gte=0"`
	DistanceKm      *float64 `json:"distance_km" validate:"omitempty,gte=0"`
	Calories        float64  `json:"calories" validate:"gte=0"`
	Notes           string   `json:"notes" validate:"omitempty,max=500"`
	OrderInWorkout  int      `json:"order_in_workout" validate:"gte=0"`

	CreatedAt time.Time `json:"created_at"`
}
