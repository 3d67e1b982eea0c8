package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gymlog/internal/authz"
	"gymlog/internal/export"
	"gymlog/internal/middleware"
	"gymlog/internal/models"
	"gymlog/internal/repositories"
	"gymlog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ExerciseHandler handles HTTP requests for exercises.
type ExerciseHandler struct {
	service  *services.ExerciseService
	exporter *export.ExportService
	validate *validator.Validate
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(service *services.ExerciseService, exporter *export.ExportService) *ExerciseHandler {
	return &ExerciseHandler{
		service:  service,
		exporter: exporter,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the exercise routes with the Fiber app.
func (h *ExerciseHandler) RegisterRoutes(router fiber.Router) {
	exerciseRoutes := router.Group("/exercises")
	exerciseRoutes.Get("/", h.HandleList)
	exerciseRoutes.Get("/:id", h.HandleGet)
	exerciseRoutes.Post("/", h.HandleCreate)
	exerciseRoutes.Put("/:id", h.HandleUpdate)
	exerciseRoutes.Delete("/:id", h.HandleDelete)
	exerciseRoutes.Get("/:id/export", h.HandleExport)
}

// HandleList lists the exercises visible to the caller, narrowed by the
// search, muscle_group and difficulty query parameters.
func (h *ExerciseHandler) HandleList(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	filter := repositories.ExerciseFilter{
		Search:      c.Query("search"),
		MuscleGroup: c.Query("muscle_group"),
		Difficulty:  c.Query("difficulty"),
	}

	exercises, err := h.service.List(actor, filter)
	if err != nil {
		log.Printf("Error listing exercises: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve exercises",
			"error":   err.Error(),
		})
	}
	return c.JSON(exercises)
}

// HandleGet retrieves a single exercise.
func (h *ExerciseHandler) HandleGet(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	exercise, err := h.service.Get(actor, c.Params("id"))
	if err != nil {
		return exerciseError(c, err, "Could not retrieve exercise")
	}
	return c.JSON(exercise)
}

// HandleCreate creates a new exercise.
func (h *ExerciseHandler) HandleCreate(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var exercise models.Exercise
	if err := c.BodyParser(&exercise); err != nil {
		log.Printf("Error parsing exercise request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(exercise); err != nil {
		return validationFailed(c, err)
	}

	if err := h.service.Create(actor, &exercise); err != nil {
		return exerciseError(c, err, "Could not create exercise")
	}
	return c.Status(fiber.StatusCreated).JSON(exercise)
}

// HandleUpdate updates an existing exercise.
func (h *ExerciseHandler) HandleUpdate(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var exercise models.Exercise
	if err := c.BodyParser(&exercise); err != nil {
		log.Printf("Error parsing exercise request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	exercise.ID = c.Params("id")

	if err := h.validate.Struct(exercise); err != nil {
		return validationFailed(c, err)
	}

	if err := h.service.Update(actor, &exercise); err != nil {
		return exerciseError(c, err, "Could not update exercise")
	}
	return c.JSON(exercise)
}

// HandleDelete deletes an exercise.
func (h *ExerciseHandler) HandleDelete(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id := c.Params("id")

	if err := h.service.Delete(actor, id); err != nil {
		return exerciseError(c, err, "Could not delete exercise")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Exercise %s deleted successfully", id),
	})
}

// HandleExport streams the exercise's ZIP bundle (manifest + attachments).
func (h *ExerciseHandler) HandleExport(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	exercise, err := h.service.Get(actor, c.Params("id"))
	if err != nil {
		return exerciseError(c, err, "Could not export exercise")
	}

	bundle, err := h.exporter.ExerciseBundle(exercise)
	if err != nil {
		log.Printf("Error building bundle for exercise %s: %v", exercise.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not export exercise",
			"error":   err.Error(),
		})
	}

	filename := fmt.Sprintf("exercise_%s_%s.zip", exercise.ID, time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, export.ContentTypeZIP)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(bundle)
}

// exerciseError maps service errors to HTTP responses.
func exerciseError(c *fiber.Ctx, err error, message string) error {
	log.Printf("%s: %v", message, err)

	var denied *authz.DeniedError
	if errors.As(err, &denied) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": message,
			"reason":  string(denied.Reason),
		})
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
	if errors.Is(err, services.ErrExerciseInUse) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Exercise is used by workouts and cannot be deleted",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// validationFailed renders validator errors the way the auth handler does.
func validationFailed(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
