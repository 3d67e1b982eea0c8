package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"gymlog/internal/models"

	"github.com/google/uuid"
)

// MockExerciseRepository is an in-memory implementation of ExerciseRepository.
type MockExerciseRepository struct {
	exercises map[string]models.Exercise
	entryRefs map[string]int64 // exercise ID -> referencing entry count
	mu        sync.RWMutex
}

// NewMockExerciseRepository creates a new instance of MockExerciseRepository.
func NewMockExerciseRepository() *MockExerciseRepository {
	return &MockExerciseRepository{
		exercises: make(map[string]models.Exercise),
		entryRefs: make(map[string]int64),
	}
}

// ListVisible returns public exercises plus the viewer's own ones.
func (r *MockExerciseRepository) ListVisible(viewerID string, filter ExerciseFilter) ([]models.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Exercise, 0, len(r.exercises))
	for _, e := range r.exercises {
		if !e.IsPublic && (e.OwnerID == nil || *e.OwnerID != viewerID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.MuscleGroup != "" && e.MuscleGroup != filter.MuscleGroup {
			continue
		}
		if filter.Difficulty != "" && e.Difficulty != filter.Difficulty {
			continue
		}
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// GetByID returns an exercise by its ID.
func (r *MockExerciseRepository) GetByID(id string) (*models.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exercise, ok := r.exercises[id]
	if !ok {
		return nil, fmt.Errorf("exercise with ID %s: %w", id, ErrNotFound)
	}
	return &exercise, nil
}

// Create adds a new exercise.
func (r *MockExerciseRepository) Create(exercise *models.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if exercise.ID == "" {
		exercise.ID = uuid.New().String()
	}
	r.exercises[exercise.ID] = *exercise
	return nil
}

// Update modifies an existing exercise.
func (r *MockExerciseRepository) Update(exercise *models.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.exercises[exercise.ID]
	if !ok {
		return fmt.Errorf("exercise with ID %s not found for update: %w", exercise.ID, ErrNotFound)
	}
	r.exercises[exercise.ID] = *exercise
	return nil
}

// Delete removes an exercise by its ID.
func (r *MockExerciseRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.exercises[id]
	if !ok {
		return fmt.Errorf("exercise with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.exercises, id)
	return nil
}

// CountEntries reports the referencing entry count recorded via SetEntryCount.
func (r *MockExerciseRepository) CountEntries(exerciseID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entryRefs[exerciseID], nil
}

// SetEntryCount lets tests and seeding simulate workout entries referencing
// an exercise.
func (r *MockExerciseRepository) SetEntryCount(exerciseID string, count int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entryRefs[exerciseID] = count
}
