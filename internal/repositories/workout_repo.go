package repositories

import (
	"time"

	"gymlog/internal/models"
	"gymlog/internal/reports"
)

// WorkoutFilter narrows workout listings. Zero values mean "no filter".
type WorkoutFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	WorkoutType string
}

// WorkoutRepository defines the interface for workout data access.
// It doubles as the reports.EntryLister the report engine reads from.
type WorkoutRepository interface {
	ListByOwner(ownerID string, filter WorkoutFilter) ([]models.Workout, error)
	GetByID(id string) (*models.Workout, error)
	// Create persists the workout together with its entries.
	Create(workout *models.Workout) error
	// Update replaces the workout's fields and its entry set.
	Update(workout *models.Workout) error
	Delete(id string) error
	// ListEntries flattens the owner's workout entries with the owning
	// workout's date, ordered by date ascending with ties in creation
	// order. Bounds are inclusive, nil means unbounded; a nil exerciseID
	// means no exercise filter.
	ListEntries(ownerID string, dateFrom, dateTo *time.Time, exerciseID *string) ([]reports.Entry, error)
}
