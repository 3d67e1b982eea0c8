package repositories

import (
	"fmt"
	"os"

	"gymlog/internal/export"
	"gymlog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAttachmentRepository stores attachment metadata in the database and
// the file bytes on local disk under the path recorded per row.
type GORMAttachmentRepository struct {
	db *gorm.DB
}

// NewGORMAttachmentRepository creates a new instance of GORMAttachmentRepository.
func NewGORMAttachmentRepository(db *gorm.DB) *GORMAttachmentRepository {
	return &GORMAttachmentRepository{
		db: db,
	}
}

// ListByExercise retrieves attachment metadata rows for an exercise in
// creation order.
func (r *GORMAttachmentRepository) ListByExercise(exerciseID string) ([]models.Attachment, error) {
	var attachments []models.Attachment
	if err := r.db.Where("exercise_id = ?", exerciseID).Order("created_at ASC").Find(&attachments).Error; err != nil {
		return nil, fmt.Errorf("failed to list attachments for exercise %s: %w", exerciseID, err)
	}
	return attachments, nil
}

// Create creates a new attachment metadata row.
func (r *GORMAttachmentRepository) Create(attachment *models.Attachment) error {
	if attachment.ID == "" {
		attachment.ID = uuid.New().String()
	}
	if err := r.db.Create(attachment).Error; err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return nil
}

// Delete removes an attachment metadata row by its ID.
func (r *GORMAttachmentRepository) Delete(id string) error {
	res := r.db.Delete(&models.Attachment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete attachment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("attachment with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// ListAttachments implements export.FileStore by pairing each metadata
// row with its on-disk content. Rows whose file has gone missing are
// skipped rather than failing the whole export.
func (r *GORMAttachmentRepository) ListAttachments(exerciseID string) ([]export.AttachmentFile, error) {
	rows, err := r.ListByExercise(exerciseID)
	if err != nil {
		return nil, err
	}

	files := make([]export.AttachmentFile, 0, len(rows))
	for _, row := range rows {
		content, err := os.ReadFile(row.FilePath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read attachment %s: %w", row.ID, err)
		}
		files = append(files, export.AttachmentFile{
			Filename: row.OriginalFilename,
			Content:  content,
		})
	}
	return files, nil
}
