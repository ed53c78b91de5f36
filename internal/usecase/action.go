package usecase

import (
	"context"
	"errors"
	"fmt"

	"inboxpert-service/internal/domain/entity"
	"inboxpert-service/pkg/logger"
)

// ErrUnknownAction is returned for an action with no registered handler
var ErrUnknownAction = errors.New("unknown action")

// ActionDispatcher turns action requests into success/failure responses
type ActionDispatcher struct {
	router ActionRouter
	logger logger.Logger
}

// NewActionDispatcher creates a new action dispatcher
func NewActionDispatcher(router ActionRouter, logger logger.Logger) *ActionDispatcher {
	return &ActionDispatcher{
		router: router,
		logger: logger,
	}
}

// Dispatch runs the handler for req.Action. The response is always filled;
// the returned error is the cause of a failed response.
func (d *ActionDispatcher) Dispatch(ctx context.Context, req entity.ActionRequest, trigger string) (entity.ActionResponse, error) {
	handler := d.router.GetHandler(req.Action)
	if handler == nil {
		err := fmt.Errorf("%w: %s", ErrUnknownAction, req.Action)
		d.logger.Warn("No handler for action", "action", req.Action)
		return entity.ActionResponse{Success: false, Error: err.Error()}, err
	}

	result, err := handler.Handle(ctx, trigger)
	if err != nil {
		return entity.ActionResponse{Success: false, Error: err.Error()}, err
	}

	return entity.ActionResponse{Success: true, Categorization: result}, nil
}
