package usecase

import (
	"context"

	"inboxpert-service/internal/domain/entity"
)

// ActionHandler defines the interface for triggerable actions
type ActionHandler interface {
	// CanHandle determines if this handler serves the given action name
	CanHandle(action string) bool

	// Handle runs the action and returns its result
	Handle(ctx context.Context, trigger string) (entity.CategorizationResult, error)
}

// ActionRouter routes action names to the appropriate handler
type ActionRouter interface {
	// Register registers a handler
	Register(handler ActionHandler)

	// GetHandler returns the handler for an action, or nil
	GetHandler(action string) ActionHandler
}
