package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"inboxpert-service/internal/domain/entity"
	"inboxpert-service/internal/domain/repository"
	"inboxpert-service/pkg/logger"
)

const (
	categorizePath    = "/categorize"
	maxErrorBodyBytes = 4096
)

// CategorizerRepository posts email batches to the categorization service
type CategorizerRepository struct {
	logger  logger.Logger
	baseURL string
	client  *http.Client
}

// NewCategorizerRepository creates a categorization client for baseURL.
// A nil client uses http.DefaultClient.
func NewCategorizerRepository(baseURL string, client *http.Client, logger logger.Logger) repository.CategorizerRepository {
	if client == nil {
		client = http.DefaultClient
	}

	return &CategorizerRepository{
		logger:  logger,
		baseURL: baseURL,
		client:  client,
	}
}

// Categorize sends one POST with every email and returns the response body unparsed
func (r *CategorizerRepository) Categorize(ctx context.Context, emails []entity.SimplifiedEmail) (entity.CategorizationResult, error) {
	jsonData, err := json.Marshal(entity.CategorizationRequest{Emails: emails})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal categorization request: %w", err)
	}

	url := r.baseURL + categorizePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	r.logger.Debug("Sending emails for categorization", "url", url, "emails", len(emails), "bytes", len(jsonData))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send categorization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &repository.StatusError{
			Service:    "categorization service",
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(body)),
		}
	}

	var result json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode categorization response: %w", err)
	}

	r.logger.Info("Categorization response received", "emails", len(emails), "status", resp.StatusCode)
	return result, nil
}
