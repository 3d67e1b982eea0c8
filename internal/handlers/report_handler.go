package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gymlog/internal/export"
	"gymlog/internal/middleware"
	"gymlog/internal/reports"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles HTTP requests for the volume and records reports.
type ReportHandler struct {
	reportService *reports.ReportService
	exporter      *export.ExportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *reports.ReportService, exporter *export.ExportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exporter:      exporter,
	}
}

// RegisterRoutes registers the report routes with the Fiber app.
func (h *ReportHandler) RegisterRoutes(router fiber.Router) {
	reportRoutes := router.Group("/reports")
	reportRoutes.Get("/volume", h.HandleVolume)
	reportRoutes.Get("/records", h.HandleRecords)
}

// HandleVolume computes the volume report for the caller. Query
// parameters: date_from, date_to (inclusive, YYYY-MM-DD), exercise_id,
// and export=csv for the CSV artifact instead of JSON.
func (h *ReportHandler) HandleVolume(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var filter reports.VolumeFilter
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
	if exerciseID := c.Query("exercise_id"); exerciseID != "" {
		filter.ExerciseID = &exerciseID
	}

	rows, err := h.reportService.Volume(actor.ID, filter)
	if err != nil {
		return reportError(c, err, "Could not compute volume report")
	}

	if c.Query("export") == "csv" {
		content, err := h.exporter.VolumeCSV(rows)
		if err != nil {
			return reportError(c, err, "Could not export volume report")
		}
		c.Set(fiber.HeaderContentType, export.ContentTypeCSV)
		c.Set(fiber.HeaderContentDisposition, volumeFilename(filter))
		return c.Send(content)
	}

	return c.JSON(fiber.Map{
		"rows":  rows,
		"count": len(rows),
	})
}

// HandleRecords computes the personal records report for the caller.
// Query parameters: exercise_id, and export=csv.
func (h *ReportHandler) HandleRecords(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var exerciseID *string
	if id := c.Query("exercise_id"); id != "" {
		exerciseID = &id
	}

	rows, err := h.reportService.Records(actor.ID, exerciseID)
	if err != nil {
		return reportError(c, err, "Could not compute records report")
	}

	if c.Query("export") == "csv" {
		content, err := h.exporter.RecordsCSV(rows)
		if err != nil {
			return reportError(c, err, "Could not export records report")
		}
		c.Set(fiber.HeaderContentType, export.ContentTypeCSV)
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=personal_records_%s.csv", time.Now().Format("20060102")))
		return c.Send(content)
	}

	return c.JSON(fiber.Map{
		"rows":  rows,
		"count": len(rows),
	})
}

// reportError maps report errors to HTTP responses. Validation failures
// are the caller's fault; everything else is a server error.
func reportError(c *fiber.Ctx, err error, message string) error {
	log.Printf("%s: %v", message, err)

	var validation *reports.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"field":   validation.Field,
			"error":   validation.Reason,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func volumeFilename(filter reports.VolumeFilter) string {
	from, to := "start", "now"
	if filter.DateFrom != nil {
		from = filter.DateFrom.Format("2006-01-02")
	}
	if filter.DateTo != nil {
		to = filter.DateTo.Format("2006-01-02")
	}
	return fmt.Sprintf("attachment; filename=workout_volume_%s_%s.csv", from, to)
}
