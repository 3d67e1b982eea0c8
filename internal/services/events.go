package services

// EventPublisher is the messaging seam services emit domain events
// through after successful writes. pkg/rabbitmq implements it; tests
// substitute a mock.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// Routing keys for domain events.
const (
	EventExerciseCreated = "exercise.created"
	EventExerciseUpdated = "exercise.updated"
	EventExerciseDeleted = "exercise.deleted"
	EventWorkoutCreated  = "workout.created"
	EventWorkoutDeleted  = "workout.deleted"
)
