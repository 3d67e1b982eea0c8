package services

import (
	"encoding/json"
	"fmt"
	"log"

	"gymlog/internal/authz"
	"gymlog/internal/models"
	"gymlog/internal/repositories"
)

// WorkoutService handles business logic related to workouts and their
// entries. Derived totals are recomputed from the entries on every write
// so the stored values always match the entry set.
type WorkoutService struct {
	repo     repositories.WorkoutRepository
	guard    *authz.Guard
	mqClient EventPublisher
}

// NewWorkoutService creates a new WorkoutService.
func NewWorkoutService(repo repositories.WorkoutRepository, guard *authz.Guard, mqClient EventPublisher) *WorkoutService {
	return &WorkoutService{
		repo:     repo,
		guard:    guard,
		mqClient: mqClient,
	}
}

// List retrieves the actor's own workouts.
func (s *WorkoutService) List(actor *models.User, filter repositories.WorkoutFilter) ([]models.Workout, error) {
	return s.repo.ListByOwner(actor.ID, filter)
}

// Get retrieves a single workout, subject to read authorization.
func (s *WorkoutService) Get(actor *models.User, id string) (*models.Workout, error) {
	workout, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if decision := s.guard.Decide(actor, authz.ActionRead, workout); !decision.Allowed {
		return nil, &authz.DeniedError{Action: authz.ActionRead, Reason: decision.Reason}
	}
	return workout, nil
}

// Create creates a new workout owned by the actor.
func (s *WorkoutService) Create(actor *models.User, workout *models.Workout) error {
	workout.OwnerID = actor.ID
	if decision := s.guard.Decide(actor, authz.ActionCreate, workout); !decision.Allowed {
		return &authz.DeniedError{Action: authz.ActionCreate, Reason: decision.Reason}
	}

	recomputeTotals(workout)
	if err := s.repo.Create(workout); err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}

	s.publish(EventWorkoutCreated, workout)
	return nil
}

// Update applies changes to an existing workout after an edit check
// against the stored resource. The entry set is replaced wholesale.
func (s *WorkoutService) Update(actor *models.User, workout *models.Workout) error {
	existing, err := s.repo.GetByID(workout.ID)
	if err != nil {
		return err
	}
	if decision := s.guard.Decide(actor, authz.ActionEdit, existing); !decision.Allowed {
		return &authz.DeniedError{Action: authz.ActionEdit, Reason: decision.Reason}
	}

	// Ownership never transfers on edit.
	workout.OwnerID = existing.OwnerID
	recomputeTotals(workout)
	if err := s.repo.Update(workout); err != nil {
		return fmt.Errorf("failed to update workout: %w", err)
	}
	return nil
}

// Delete removes a workout and its entries.
func (s *WorkoutService) Delete(actor *models.User, id string) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if decision := s.guard.Decide(actor, authz.ActionDelete, existing); !decision.Allowed {
		return &authz.DeniedError{Action: authz.ActionDelete, Reason: decision.Reason}
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}

	s.publish(EventWorkoutDeleted, existing)
	return nil
}

// recomputeTotals derives the workout's totals from its entries:
// TotalSets = Σsets, TotalReps = Σreps,
// TotalWeight = Σ(sets×reps×weight) with nil weight as 0,
// TotalCalories = Σcalories.
func recomputeTotals(workout *models.Workout) {
	workout.TotalSets = 0
	workout.TotalReps = 0
	workout.TotalWeight = 0
	workout.TotalCalories = 0

	for _, entry := range workout.Entries {
		workout.TotalSets += entry.Sets
		workout.TotalReps += entry.Reps
		if entry.Weight != nil {
			workout.TotalWeight += float64(entry.Sets) * float64(entry.Reps) * *entry.Weight
		}
		workout.TotalCalories += entry.Calories
	}
}

// publish emits a domain event; failures are logged, never surfaced.
func (s *WorkoutService) publish(routingKey string, workout *models.Workout) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"workout_id":   workout.ID,
		"owner_id":     workout.OwnerID,
		"date":         workout.Date,
		"workout_type": workout.WorkoutType,
		"total_sets":   workout.TotalSets,
	})
	if err != nil {
		log.Printf("Failed to marshal workout event: %v", err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for workout %s: %v", routingKey, workout.ID, err)
	}
}
