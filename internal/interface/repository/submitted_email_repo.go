package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"inboxpert-service/internal/domain/entity"
	"inboxpert-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormSubmittedEmailRepository implements the SubmittedEmailRepository interface
type GormSubmittedEmailRepository struct {
	db *gorm.DB
}

// NewGormSubmittedEmailRepository creates a new GORM submitted email repository
func NewGormSubmittedEmailRepository(db *gorm.DB) repository.SubmittedEmailRepository {
	return &GormSubmittedEmailRepository{
		db: db,
	}
}

// SubmittedEmails GORM model for database mapping
type SubmittedEmails struct {
	gorm.Model
	RunID      string `gorm:"column:run_id;index"`
	EmailID    string `gorm:"column:email_id;index"`
	Subject    string `gorm:"column:subject"`
	Sender     string `gorm:"column:sender"`
	Body       string `gorm:"column:content"`
	Recipients string `gorm:"column:recipients"` // JSON array
	Headers    string `gorm:"column:headers"`    // JSON object
}

// TableName overrides the default table name
func (SubmittedEmails) TableName() string {
	return "submitted_emails"
}

// Migrate creates or updates the submitted_emails table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&SubmittedEmails{})
}

// SaveBatch stores every email of a run in one insert
func (r *GormSubmittedEmailRepository) SaveBatch(ctx context.Context, runID string, emails []entity.SimplifiedEmail) error {
	if len(emails) == 0 {
		return nil
	}

	models := make([]SubmittedEmails, 0, len(emails))
	for _, email := range emails {
		model, err := toSubmittedEmail(runID, email)
		if err != nil {
			return err
		}
		models = append(models, model)
	}

	result := r.db.WithContext(ctx).Create(&models)
	if result.Error != nil {
		return fmt.Errorf("failed to save submitted emails for run %s: %w", runID, result.Error)
	}

	return nil
}

// toSubmittedEmail converts a simplified email into its GORM row
func toSubmittedEmail(runID string, email entity.SimplifiedEmail) (SubmittedEmails, error) {
	recipients, err := json.Marshal(email.Recipients)
	if err != nil {
		return SubmittedEmails{}, fmt.Errorf("failed to encode recipients of %s: %w", email.ID, err)
	}
	headers, err := json.Marshal(email.Headers)
	if err != nil {
		return SubmittedEmails{}, fmt.Errorf("failed to encode headers of %s: %w", email.ID, err)
	}

	return SubmittedEmails{
		RunID:      runID,
		EmailID:    email.ID,
		Subject:    email.Subject,
		Sender:     email.Sender,
		Body:       email.Body,
		Recipients: string(recipients),
		Headers:    string(headers),
	}, nil
}
