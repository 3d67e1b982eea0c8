package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gymlog/internal/models"
	"gymlog/internal/reports"

	"github.com/google/uuid"
)

// MockWorkoutRepository is an in-memory implementation of WorkoutRepository.
type MockWorkoutRepository struct {
	workouts      map[string]models.Workout
	order         map[string]int // workout ID -> insertion sequence, for stable ties
	exerciseNames map[string]string
	seq           int
	mu            sync.RWMutex
}

// NewMockWorkoutRepository creates a new instance of MockWorkoutRepository.
func NewMockWorkoutRepository() *MockWorkoutRepository {
	return &MockWorkoutRepository{
		workouts:      make(map[string]models.Workout),
		order:         make(map[string]int),
		exerciseNames: make(map[string]string),
	}
}

// SetExerciseName teaches the mock the name to embed in flattened entries.
func (r *MockWorkoutRepository) SetExerciseName(exerciseID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exerciseNames[exerciseID] = name
}

// ListByOwner returns the owner's workouts, newest first.
func (r *MockWorkoutRepository) ListByOwner(ownerID string, filter WorkoutFilter) ([]models.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Workout, 0)
	for _, w := range r.workouts {
		if w.OwnerID != ownerID {
			continue
		}
		if filter.DateFrom != nil && w.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && w.Date.After(*filter.DateTo) {
			continue
		}
		if filter.WorkoutType != "" && w.WorkoutType != filter.WorkoutType {
			continue
		}
		list = append(list, w)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return r.order[list[i].ID] > r.order[list[j].ID]
	})
	return list, nil
}

// GetByID returns a workout by its ID.
func (r *MockWorkoutRepository) GetByID(id string) (*models.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workout, ok := r.workouts[id]
	if !ok {
		return nil, fmt.Errorf("workout with ID %s: %w", id, ErrNotFound)
	}
	return &workout, nil
}

// Create adds a new workout with its entries.
func (r *MockWorkoutRepository) Create(workout *models.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if workout.ID == "" {
		workout.ID = uuid.New().String()
	}
	for i := range workout.Entries {
		if workout.Entries[i].ID == "" {
			workout.Entries[i].ID = uuid.New().String()
		}
		workout.Entries[i].WorkoutID = workout.ID
		if workout.Entries[i].CreatedAt.IsZero() {
			workout.Entries[i].CreatedAt = time.Now()
		}
	}
	r.seq++
	r.order[workout.ID] = r.seq
	r.workouts[workout.ID] = *workout
	return nil
}

// Update replaces an existing workout and its entry set.
func (r *MockWorkoutRepository) Update(workout *models.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.workouts[workout.ID]
	if !ok {
		return fmt.Errorf("workout with ID %s not found for update: %w", workout.ID, ErrNotFound)
	}
	for i := range workout.Entries {
		if workout.Entries[i].ID == "" {
			workout.Entries[i].ID = uuid.New().String()
		}
		workout.Entries[i].WorkoutID = workout.ID
	}
	r.workouts[workout.ID] = *workout
	return nil
}

// Delete removes a workout by its ID.
func (r *MockWorkoutRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.workouts[id]
	if !ok {
		return fmt.Errorf("workout with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.workouts, id)
	delete(r.order, id)
	return nil
}

// ListEntries flattens entries with their workout's date, ordered by date
// ascending with ties in insertion order.
func (r *MockWorkoutRepository) ListEntries(ownerID string, dateFrom, dateTo *time.Time, exerciseID *string) ([]reports.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type keyed struct {
		entry reports.Entry
		seq   int
		pos   int
	}
	flat := make([]keyed, 0)

	for _, w := range r.workouts {
		if w.OwnerID != ownerID {
			continue
		}
		if dateFrom != nil && w.Date.Before(*dateFrom) {
			continue
		}
		if dateTo != nil && w.Date.After(*dateTo) {
			continue
		}
		for i, e := range w.Entries {
			if exerciseID != nil && e.ExerciseID != *exerciseID {
				continue
			}
			flat = append(flat, keyed{
				entry: reports.Entry{
					WorkoutID:       w.ID,
					WorkoutDate:     w.Date,
					WorkoutType:     w.WorkoutType,
					DurationMinutes: w.DurationMinutes,
					ExerciseID:      e.ExerciseID,
					ExerciseName:    r.exerciseNames[e.ExerciseID],
					Sets:            e.Sets,
					Reps:            e.Reps,
					Weight:          e.Weight,
					Calories:        e.Calories,
					OrderInWorkout:  e.OrderInWorkout,
					CreatedAt:       e.CreatedAt,
				},
				seq: r.order[w.ID],
				pos: i,
			})
		}
	}

	sort.SliceStable(flat, func(i, j int) bool {
		if !flat[i].entry.WorkoutDate.Equal(flat[j].entry.WorkoutDate) {
			return flat[i].entry.WorkoutDate.Before(flat[j].entry.WorkoutDate)
		}
		if flat[i].seq != flat[j].seq {
			return flat[i].seq < flat[j].seq
		}
		return flat[i].pos < flat[j].pos
	})

	entries := make([]reports.Entry, 0, len(flat))
	for _, k := range flat {
		entries = append(entries, k.entry)
	}
	return entries, nil
}
