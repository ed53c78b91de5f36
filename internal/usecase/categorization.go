package usecase

import (
	"context"
	"fmt"
	"time"

	"inboxpert-service/internal/domain/entity"
	"inboxpert-service/internal/domain/repository"
	"inboxpert-service/pkg/logger"
	"inboxpert-service/pkg/metrics"

	"github.com/google/uuid"
)

// CategorizationUsecase fetches the inbox page and submits it for categorization
type CategorizationUsecase struct {
	inboxRepo       repository.InboxRepository
	categorizerRepo repository.CategorizerRepository
	runRepo         repository.RunRepository            // optional
	archiveRepo     repository.SubmittedEmailRepository // optional
	metrics         *metrics.Metrics
	logger          logger.Logger
	now             func() time.Time
}

// NewCategorizationUsecase creates a new categorization usecase.
// runRepo and archiveRepo may be nil.
func NewCategorizationUsecase(
	inboxRepo repository.InboxRepository,
	categorizerRepo repository.CategorizerRepository,
	runRepo repository.RunRepository,
	archiveRepo repository.SubmittedEmailRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *CategorizationUsecase {
	return &CategorizationUsecase{
		inboxRepo:       inboxRepo,
		categorizerRepo: categorizerRepo,
		runRepo:         runRepo,
		archiveRepo:     archiveRepo,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// CanHandle reports whether action is categorizeEmails
func (u *CategorizationUsecase) CanHandle(action string) bool {
	return action == entity.ActionCategorizeEmails
}

// Handle runs CategorizeInbox
func (u *CategorizationUsecase) Handle(ctx context.Context, trigger string) (entity.CategorizationResult, error) {
	return u.CategorizeInbox(ctx, trigger)
}

// FetchInbox returns the normalized emails of the current inbox page
func (u *CategorizationUsecase) FetchInbox(ctx context.Context) ([]*entity.Email, error) {
	emails, err := u.inboxRepo.FetchInbox(ctx)
	if err != nil {
		u.metrics.ErrorsCount.WithLabelValues("fetch_inbox").Inc()
		return nil, fmt.Errorf("failed to fetch inbox: %w", err)
	}
	u.metrics.EmailsFetched.Add(float64(len(emails)))
	return emails, nil
}

// SubmitForCategorization simplifies emails and sends them in one request
func (u *CategorizationUsecase) SubmitForCategorization(ctx context.Context, emails []*entity.Email) (entity.CategorizationResult, error) {
	return u.submit(ctx, entity.SimplifyAll(emails))
}

func (u *CategorizationUsecase) submit(ctx context.Context, simplified []entity.SimplifiedEmail) (entity.CategorizationResult, error) {
	result, err := u.categorizerRepo.Categorize(ctx, simplified)
	if err != nil {
		u.metrics.ErrorsCount.WithLabelValues("categorize").Inc()
		return nil, fmt.Errorf("failed to categorize emails: %w", err)
	}
	u.metrics.EmailsSubmitted.Add(float64(len(simplified)))
	return result, nil
}

// CategorizeInbox fetches the inbox page, submits it and records the run.
// Recording failures are logged and do not affect the result.
func (u *CategorizationUsecase) CategorizeInbox(ctx context.Context, trigger string) (entity.CategorizationResult, error) {
	run := &entity.CategorizationRun{
		RunID:     uuid.New().String(),
		Trigger:   trigger,
		StartedAt: u.now().UTC(),
	}
	log := u.logger.With("runID", run.RunID, "trigger", trigger)
	log.Info("Starting categorization run")

	result, simplified, err := u.categorizeInbox(ctx, run)

	run.FinishedAt = u.now().UTC()
	u.metrics.RunDuration.Observe(run.Duration().Seconds())

	if err != nil {
		run.Status = entity.RunStatusFailed
		run.ErrorDetail = err.Error()
		u.metrics.Runs.WithLabelValues(metrics.StatusFailed).Inc()
		log.Error("Categorization run failed", "emails", run.EmailCount, "error", err)
	} else {
		run.Status = entity.RunStatusSucceeded
		run.Categorization = string(result)
		u.metrics.Runs.WithLabelValues(metrics.StatusSucceeded).Inc()
		log.Info("Categorization run completed", "emails", run.EmailCount, "duration", run.Duration().String())
		u.archive(ctx, log, run.RunID, simplified)
	}

	u.recordRun(ctx, log, run)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (u *CategorizationUsecase) categorizeInbox(ctx context.Context, run *entity.CategorizationRun) (entity.CategorizationResult, []entity.SimplifiedEmail, error) {
	emails, err := u.FetchInbox(ctx)
	if err != nil {
		return nil, nil, err
	}

	run.EmailCount = len(emails)
	run.EmailIDs = make([]string, 0, len(emails))
	for _, email := range emails {
		run.EmailIDs = append(run.EmailIDs, email.ID)
	}

	simplified := entity.SimplifyAll(emails)
	result, err := u.submit(ctx, simplified)
	if err != nil {
		return nil, nil, err
	}
	return result, simplified, nil
}

func (u *CategorizationUsecase) archive(ctx context.Context, log logger.Logger, runID string, simplified []entity.SimplifiedEmail) {
	if u.archiveRepo == nil {
		return
	}
	if err := u.archiveRepo.SaveBatch(ctx, runID, simplified); err != nil {
		u.metrics.ErrorsCount.WithLabelValues("archive_emails").Inc()
		log.Warn("Failed to archive submitted emails", "error", err)
	}
}

func (u *CategorizationUsecase) recordRun(ctx context.Context, log logger.Logger, run *entity.CategorizationRun) {
	if u.runRepo == nil {
		return
	}
	// The request context may already be cancelled; the record is still written.
	if err := u.runRepo.Save(context.WithoutCancel(ctx), run); err != nil {
		u.metrics.ErrorsCount.WithLabelValues("record_run").Inc()
		log.Warn("Failed to record categorization run", "error", err)
	}
}

// RecentRuns lists the latest run records, newest first
func (u *CategorizationUsecase) RecentRuns(ctx context.Context, limit int) ([]*entity.CategorizationRun, error) {
	if u.runRepo == nil {
		return nil, fmt.Errorf("run log is not configured")
	}
	return u.runRepo.FindRecent(ctx, limit)
}

// StartPolling runs CategorizeInbox on every tick until ctx is cancelled
func (u *CategorizationUsecase) StartPolling(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			u.logger.Info("Categorization polling stopped")
			return
		case <-ticker.C:
			u.logger.Debug("Polling inbox for categorization")
			if _, err := u.CategorizeInbox(ctx, entity.TriggerPoll); err != nil {
				u.logger.Error("Error during polled categorization", "error", err)
			}
		}
	}
}
