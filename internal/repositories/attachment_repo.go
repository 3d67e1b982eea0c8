package repositories

import (
	"gymlog/internal/export"
	"gymlog/internal/models"
)

// AttachmentRepository defines the interface for attachment metadata and
// file content access. It satisfies export.FileStore so the bundle
// exporter can pull attachment bytes without knowing where they live.
type AttachmentRepository interface {
	ListByExercise(exerciseID string) ([]models.Attachment, error)
	Create(attachment *models.Attachment) error
	Delete(id string) error
	// ListAttachments implements export.FileStore: filenames paired with
	// their content bytes, in stable (creation) order.
	ListAttachments(exerciseID string) ([]export.AttachmentFile, error)
}
