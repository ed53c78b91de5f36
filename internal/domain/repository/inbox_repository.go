package repository

import (
	"context"

	"inboxpert-service/internal/domain/entity"
)

// InboxRepository reads a page of normalized messages from the mail provider
type InboxRepository interface {
	FetchInbox(ctx context.Context) ([]*entity.Email, error)
}
