package handlers

import (
	"fmt"
	"log"
	"time"

	"gymlog/internal/middleware"
	"gymlog/internal/models"
	"gymlog/internal/repositories"
	"gymlog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WorkoutHandler handles HTTP requests for workouts.
type WorkoutHandler struct {
	service  *services.WorkoutService
	validate *validator.Validate
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(service *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the workout routes with the Fiber app.
func (h *WorkoutHandler) RegisterRoutes(router fiber.Router) {
	workoutRoutes := router.Group("/workouts")
	workoutRoutes.Get("/", h.HandleList)
	workoutRoutes.Get("/:id", h.HandleGet)
	workoutRoutes.Post("/", h.HandleCreate)
	workoutRoutes.Put("/:id", h.HandleUpdate)
	workoutRoutes.Delete("/:id", h.HandleDelete)
}

// workoutRequest is the request body for creating or updating a workout.
type workoutRequest struct {
	Date            string                `json:"date" validate:"required"`
	WorkoutType     string                `json:"workout_type" validate:"required,max=50"`
	DurationMinutes int                   `json:"duration_minutes" validate:"gte=0"`
	Intensity       string                `json:"intensity" validate:"required,oneof=low moderate high"`
	Notes           string                `json:"notes" validate:"omitempty,max=1000"`
	Entries         []workoutEntryRequest `json:"entries" validate:"dive"`
}

type workoutEntryRequest struct {
	ExerciseID      string   `json:"exercise_id" validate:"required"`
	Sets            int      `json:"sets" validate:"required,gte=1"`
	Reps            int      `json:"reps" validate:"required,gte=1"`
	Weight          *float64 `json:"weight" validate:"omitempty,gte=0"`
	DurationSeconds *int     `json:"duration_seconds" validate:"omitempty,gte=0"`
	DistanceKm      *float64 `json:"distance_km" validate:"omitempty,gte=0"`
	Calories        float64  `json:"calories" validate:"gte=0"`
	Notes           string   `json:"notes" validate:"omitempty,max=500"`
	OrderInWorkout  int      `json:"order_in_workout" validate:"gte=0"`
}

// toModel converts the request to a workout owned by nobody yet; the
// service assigns ownership.
func (r *workoutRequest) toModel() (*models.Workout, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return nil, fmt.Errorf("date must be in YYYY-MM-DD format")
	}

	workout := &models.Workout{
		Date:            date,
		WorkoutType:     r.WorkoutType,
		DurationMinutes: r.DurationMinutes,
		Intensity:       r.Intensity,
		Notes:           r.Notes,
	}
	for _, e := range r.Entries {
		workout.Entries = append(workout.Entries, models.WorkoutEntry{
			ExerciseID:      e.ExerciseID,
			Sets:            e.Sets,
			Reps:            e.Reps,
			Weight:          e.Weight,
			DurationSeconds: e.DurationSeconds,
			DistanceKm:      e.DistanceKm,
			Calories:        e.Calories,
			Notes:           e.Notes,
			OrderInWorkout:  e.OrderInWorkout,
			CreatedAt:       time.Now(),
		})
	}
	return workout, nil
}

// HandleList lists the caller's workouts, narrowed by date_from, date_to
// and workout_type query parameters.
func (h *WorkoutHandler) HandleList(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	filter := repositories.WorkoutFilter{WorkoutType: c.Query("workout_type")}
	if from := c.Query("date_from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return badDate(c, "date_from")
		}
		filter.DateFrom = &parsed
	}
	if to := c.Query("date_to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return badDate(c, "date_to")
		}
		filter.DateTo = &parsed
	}

	workouts, err := h.service.List(actor, filter)
	if err != nil {
		log.Printf("Error listing workouts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve workouts",
			"error":   err.Error(),
		})
	}
	return c.JSON(workouts)
}

// HandleGet retrieves a single workout with its entries.
func (h *WorkoutHandler) HandleGet(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	workout, err := h.service.Get(actor, c.Params("id"))
	if err != nil {
		return exerciseError(c, err, "Could not retrieve workout")
	}
	return c.JSON(workout)
}

// HandleCreate creates a new workout with its entries.
func (h *WorkoutHandler) HandleCreate(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req workoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing workout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	workout, err := req.toModel()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	if err := h.service.Create(actor, workout); err != nil {
		return exerciseError(c, err, "Could not create workout")
	}
	return c.Status(fiber.StatusCreated).JSON(workout)
}

// HandleUpdate updates an existing workout, replacing its entry set.
func (h *WorkoutHandler) HandleUpdate(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req workoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing workout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	workout, err := req.toModel()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
	workout.ID = c.Params("id")

	if err := h.service.Update(actor, workout); err != nil {
		return exerciseError(c, err, "Could not update workout")
	}
	return c.JSON(workout)
}

// HandleDelete deletes a workout and its entries.
func (h *WorkoutHandler) HandleDelete(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id := c.Params("id")

	if err := h.service.Delete(actor, id); err != nil {
		return exerciseError(c, err, "Could not delete workout")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Workout %s deleted successfully", id),
	})
}

func badDate(c *fiber.Ctx, field string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": fmt.Sprintf("%s must be in YYYY-MM-DD format", field),
	})
}
