package gmail

import (
	"context"
	"errors"
	"fmt"

	"inboxpert-service/internal/domain/entity"
	"inboxpert-service/internal/domain/repository"
	"inboxpert-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const formatFull = "full"

var (
	// ErrAuthentication means no access token could be obtained
	ErrAuthentication = errors.New("gmail authentication failed")

	// ErrNoMessages means the list response carried no messages array
	ErrNoMessages = errors.New("no messages found")
)

// FetchOptions controls which page of messages FetchInbox reads
type FetchOptions struct {
	UserID   string
	PageSize int
	Query    string

	// Concurrency caps in-flight detail fetches; 0 means unbounded
	Concurrency int
}

// GmailService reads inbox pages through the Gmail API
type GmailService struct {
	gmailService *gmail.Service
	tokenSource  oauth2.TokenSource
	opts         FetchOptions
	logger       logger.Logger
}

var _ repository.InboxRepository = (*GmailService)(nil)

// NewGmailService creates a new Gmail service.
// clientOpts are passed to gmail.NewService; production callers pass
// option.WithTokenSource(tokenSource).
func NewGmailService(ctx context.Context, tokenSource oauth2.TokenSource, opts FetchOptions, logger logger.Logger, clientOpts ...option.ClientOption) (*GmailService, error) {
	service, err := gmail.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	if opts.UserID == "" {
		opts.UserID = "me"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}

	return &GmailService{
		gmailService: service,
		tokenSource:  tokenSource,
		opts:         opts,
		logger:       logger,
	}, nil
}

// FetchInbox lists one page of message IDs and fetches every message
// concurrently. Any failed fetch fails the whole call with no partial result.
func (s *GmailService) FetchInbox(ctx context.Context) ([]*entity.Email, error) {
	if _, err := s.tokenSource.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	call := s.gmailService.Users.Messages.List(s.opts.UserID).MaxResults(int64(s.opts.PageSize))
	if s.opts.Query != "" {
		call = call.Q(s.opts.Query)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if resp.Messages == nil {
		return nil, ErrNoMessages
	}

	s.logger.Debug("Listed messages", "count", len(resp.Messages), "resultSizeEstimate", resp.ResultSizeEstimate)

	refs := make([]*gmail.Message, 0, len(resp.Messages))
	for _, ref := range resp.Messages {
		if ref == nil {
			continue
		}
		refs = append(refs, ref)
	}
	if skipped := len(resp.Messages) - len(refs); skipped > 0 {
		s.logger.Warn("Skipped null message references", "skipped", skipped)
	}

	emails := make([]*entity.Email, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	if s.opts.Concurrency > 0 {
		g.SetLimit(s.opts.Concurrency)
	}

	for i, ref := range refs {
		g.Go(func() error {
			msg, err := s.gmailService.Users.Messages.Get(s.opts.UserID, ref.Id).
				Format(formatFull).Context(gctx).Do()
			if err != nil {
				return fmt.Errorf("failed to get message %s: %w", ref.Id, err)
			}

			emails[i] = ConvertToEmail(msg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to fetch inbox", "messages", len(refs), "error", err)
		return nil, err
	}

	s.logger.Info("Inbox fetched", "emails", len(emails))
	return emails, nil
}
