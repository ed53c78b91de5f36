package repository

import (
	"context"

	"inboxpert-service/internal/domain/entity"
)

// RunRepository stores categorization run audit records
type RunRepository interface {
	Save(ctx context.Context, run *entity.CategorizationRun) error
	FindRecent(ctx context.Context, limit int) ([]*entity.CategorizationRun, error)
}

// SubmittedEmailRepository archives the emails sent for categorization
type SubmittedEmailRepository interface {
	SaveBatch(ctx context.Context, runID string, emails []entity.SimplifiedEmail) error
}
