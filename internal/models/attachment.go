package models

import "gorm.io/gorm"

// Attachment is the metadata row for a file attached to an exercise.
// The bytes themselves live in the file store; FilePath locates them.
type Attachment struct {
	ID               string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ExerciseID       string `json:"exercise_id" gorm:"type:varchar(36);index;not null" validate:"required"`
	OwnerID          string `json:"owner_id" gorm:"type:varchar(36);index;not null" validate:"required"`
	Filename         string `json:"filename" gorm:"type:varchar(255)" validate:"required,max=255"`
	OriginalFilename string `json:"original_filename" gorm:"type:varchar(255)" validate:"required,max=255"`
	FilePath         string `json:"-" gorm:"type:varchar(500)"`
	FileSize         int64  `json:"file_size" validate:"gte=0"`
	MimeType         string `json:"mime_type" gorm:"type:varchar(100)"`
	gorm.Model              // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ResourceOwner implements authz.Resource.
func (a *Attachment) ResourceOwner() (string, bool) {
	return a.OwnerID, true
}
