package router

import (
	"fmt"

	"inboxpert-service/internal/usecase"
	"inboxpert-service/pkg/logger"
)

// ActionRouter routes actions to handlers in registration order
type ActionRouter struct {
	handlers []usecase.ActionHandler
	logger   logger.Logger
}

// NewActionRouter creates a new action router
func NewActionRouter(logger logger.Logger) *ActionRouter {
	return &ActionRouter{
		handlers: make([]usecase.ActionHandler, 0),
		logger:   logger,
	}
}

// Register registers a handler
func (r *ActionRouter) Register(handler usecase.ActionHandler) {
	r.handlers = append(r.handlers, handler)
	r.logger.Info("Registered action handler", "handler", fmt.Sprintf("%T", handler))
}

// GetHandler returns the first handler that accepts the action
func (r *ActionRouter) GetHandler(action string) usecase.ActionHandler {
	for _, handler := range r.handlers {
		if handler.CanHandle(action) {
			return handler
		}
	}
	return nil
}
