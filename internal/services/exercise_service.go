package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gymlog/internal/authz"
	"gymlog/internal/models"
	"gymlog/internal/repositories"
)

// ErrExerciseInUse is returned when deleting an exercise that workout
// entries still reference.
var ErrExerciseInUse = errors.New("exercise is referenced by workout entries")

// ExerciseService handles business logic related to exercises. Every
// mutation is gated by the authorization guard before the repository is
// touched.
type ExerciseService struct {
	repo     repositories.ExerciseRepository
	guard    *authz.Guard
	mqClient EventPublisher
}

// NewExerciseService creates a new ExerciseService.
func NewExerciseService(repo repositories.ExerciseRepository, guard *authz.Guard, mqClient EventPublisher) *ExerciseService {
	return &ExerciseService{
		repo:     repo,
		guard:    guard,
		mqClient: mqClient,
	}
}

// List retrieves the exercises visible to the actor: public ones plus
// their own.
func (s *ExerciseService) List(actor *models.User, filter repositories.ExerciseFilter) ([]models.Exercise, error) {
	return s.repo.ListVisible(actor.ID, filter)
}

// Get retrieves a single exercise, subject to read authorization.
func (s *ExerciseService) Get(actor *models.User, id string) (*models.Exercise, error) {
	exercise, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if decision := s.guard.Decide(actor, authz.ActionRead, exercise); !decision.Allowed {
		return nil, &authz.DeniedError{Action: authz.ActionRead, Reason: decision.Reason}
	}
	return exercise, nil
}

// Create creates a new exercise owned by the actor. Public exercises are
// stored ownerless to keep the is_public/owner_id invariant intact.
func (s *ExerciseService) Create(actor *models.User, exercise *models.Exercise) error {
	if decision := s.guard.Decide(actor, authz.ActionCreate, exercise); !decision.Allowed {
		return &authz.DeniedError{Action: authz.ActionCreate, Reason: decision.Reason}
	}

	if exercise.IsPublic {
		exercise.OwnerID = nil
	} else {
		ownerID := actor.ID
		exercise.OwnerID = &ownerID
	}

	if err := s.repo.Create(exercise); err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}

	s.publish(EventExerciseCreated, exercise)
	return nil
}

// Update applies changes to an existing exercise after an edit check
// against the stored resource.
func (s *ExerciseService) Update(actor *models.User, exercise *models.Exercise) error {
	existing, err := s.repo.GetByID(exercise.ID)
	if err != nil {
		return err
	}
	if decision := s.guard.Decide(actor, authz.ActionEdit, existing); !decision.Allowed {
		return &authz.DeniedError{Action: authz.ActionEdit, Reason: decision.Reason}
	}

	// Publishing a private exercise releases ownership; privatizing a
	// public one assigns it to the actor.
	if exercise.IsPublic {
		exercise.OwnerID = nil
	} else if exercise.OwnerID == nil {
		ownerID := actor.ID
		exercise.OwnerID = &ownerID
	}

	if err := s.repo.Update(exercise); err != nil {
		return fmt.Errorf("failed to update exercise: %w", err)
	}

	s.publish(EventExerciseUpdated, exercise)
	return nil
}

// Delete removes an exercise unless workout entries still reference it.
func (s *ExerciseService) Delete(actor *models.User, id string) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if decision := s.guard.Decide(actor, authz.ActionDelete, existing); !decision.Allowed {
		return &authz.DeniedError{Action: authz.ActionDelete, Reason: decision.Reason}
	}

	count, err := s.repo.CountEntries(id)
	if err != nil {
		return fmt.Errorf("failed to check exercise usage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("exercise %s: %w", id, ErrExerciseInUse)
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}

	s.publish(EventExerciseDeleted, existing)
	return nil
}

// publish emits a domain event; failures are logged, never surfaced, so
// messaging outages cannot fail a completed write.
func (s *ExerciseService) publish(routingKey string, exercise *models.Exercise) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"exercise_id":  exercise.ID,
		"name":         exercise.Name,
		"muscle_group": exercise.MuscleGroup,
		"is_public":    exercise.IsPublic,
	})
	if err != nil {
		log.Printf("Failed to marshal exercise event: %v", err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for exercise %s: %v", routingKey, exercise.ID, err)
	}
}
