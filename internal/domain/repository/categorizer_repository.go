package repository

import (
	"context"
	"fmt"

	"inboxpert-service/internal/domain/entity"
)

// CategorizerRepository submits simplified emails to the categorization service
type CategorizerRepository interface {
	Categorize(ctx context.Context, emails []entity.SimplifiedEmail) (entity.CategorizationResult, error)
}

// StatusError is returned when a downstream service answers with a non-success status
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}
