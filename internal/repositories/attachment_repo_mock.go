package repositories

import (
	"fmt"
	"sort"
	"sync"

	"gymlog/internal/export"
	"gymlog/internal/models"

	"github.com/google/uuid"
)

// MockAttachmentRepository is an in-memory implementation of
// AttachmentRepository holding file bytes alongside the metadata.
type MockAttachmentRepository struct {
	attachments map[string]models.Attachment
	content     map[string][]byte // attachment ID -> bytes
	order       map[string]int
	seq         int
	mu          sync.RWMutex
}

// NewMockAttachmentRepository creates a new instance of MockAttachmentRepository.
func NewMockAttachmentRepository() *MockAttachmentRepository {
	return &MockAttachmentRepository{
		attachments: make(map[string]models.Attachment),
		content:     make(map[string][]byte),
		order:       make(map[string]int),
	}
}

// AddFile stores an attachment with its content in one step.
func (r *MockAttachmentRepository) AddFile(attachment models.Attachment, content []byte) error {
	if err := r.Create(&attachment); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content[attachment.ID] = content
	return nil
}

// ListByExercise returns attachment metadata rows in creation order.
func (r *MockAttachmentRepository) ListByExercise(exerciseID string) ([]models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Attachment, 0)
	for _, a := range r.attachments {
		if a.ExerciseID == exerciseID {
			list = append(list, a)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return r.order[list[i].ID] < r.order[list[j].ID]
	})
	return list, nil
}

// Create adds a new attachment metadata row.
func (r *MockAttachmentRepository) Create(attachment *models.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if attachment.ID == "" {
		attachment.ID = uuid.New().String()
	}
	r.seq++
	r.order[attachment.ID] = r.seq
	r.attachments[attachment.ID] = *attachment
	return nil
}

// Delete removes an attachment by its ID.
func (r *MockAttachmentRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.attachments[id]
	if !ok {
		return fmt.Errorf("attachment with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.attachments, id)
	delete(r.content, id)
	delete(r.order, id)
	return nil
}

// ListAttachments implements export.FileStore.
func (r *MockAttachmentRepository) ListAttachments(exerciseID string) ([]export.AttachmentFile, error) {
	rows, err := r.ListByExercise(exerciseID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	files := make([]export.AttachmentFile, 0, len(rows))
	for _, row := range rows {
		files = append(files, export.AttachmentFile{
			Filename: row.OriginalFilename,
			Content:  r.content[row.ID],
		})
	}
	return files, nil
}
