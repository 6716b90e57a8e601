package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/mentor-match/internal/apperror"
	"github.com/sakif/mentor-match/internal/model"
	"github.com/sakif/mentor-match/internal/repository"
)

// MaxRequestMessageLength bounds the message a mentee attaches to a
// request.
const MaxRequestMessageLength = 1000

// MatchService orchestrates the match-request lifecycle.
//
// The hard invariants (one pending per mentee, atomic accept cascade,
// ownership-opaque lookups) are enforced by the repository; this layer adds
// the creation-time role check and input validation, and logs the
// transitions.
type MatchService struct {
	requests repository.MatchRequestRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewMatchService creates a MatchService.
func NewMatchService(
	requests repository.MatchRequestRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *MatchService {
	return &MatchService{
		requests: requests,
		users:    users,
		logger:   logger,
	}
}

// Create files a new pending request from the mentee to the mentor.
//
// The target must exist and actually be a mentor — checked here, once, at
// creation time. A mentee with any pending request (to any mentor) gets
// ErrAlreadyPending; the atomicity of that check against concurrent
// creates lives in the repository.
func (s *MatchService) Create(ctx context.Context, mentorID, menteeID, message string) (*model.MatchRequest, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperror.ValidationFailed("message", "message is required")
	}
	if len(message) > MaxRequestMessageLength {
		return nil, apperror.ValidationFailed("message",
			fmt.Sprintf("message must be %d characters or fewer", MaxRequestMessageLength))
	}

	mentor, err := s.users.GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("mentorId", "mentor not found")
		}
		return nil, fmt.Errorf("service/match: fetching mentor %s: %w", mentorID, err)
	}
	if mentor.Role != model.RoleMentor {
		return nil, apperror.ValidationFailed("mentorId", "mentor not found")
	}

	req := &model.MatchRequest{
		MentorID: mentorID,
		MenteeID: menteeID,
		Message:  message,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("service/match: creating request: %w", err)
	}

	s.logger.Info("match request created",
		slog.String("requestID", req.ID),
		slog.String("mentorID", mentorID),
		slog.String("menteeID", menteeID),
	)

	return req, nil
}

// ListIncoming returns all requests addressed to the mentor, newest first.
func (s *MatchService) ListIncoming(ctx context.Context, mentorID string) ([]model.MatchRequest, error) {
	requests, err := s.requests.ListIncoming(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("service/match: listing incoming for %s: %w", mentorID, err)
	}
	return requests, nil
}

// ListOutgoing returns all requests the mentee has sent, newest first.
func (s *MatchService) ListOutgoing(ctx context.Context, menteeID string) ([]model.MatchRequest, error) {
	requests, err := s.requests.ListOutgoing(ctx, menteeID)
	if err != nil {
		return nil, fmt.Errorf("service/match: listing outgoing for %s: %w", menteeID, err)
	}
	return requests, nil
}

// Accept accepts a pending request owned by the mentor. Every other
// pending request addressed to the same mentor is rejected in the same
// atomic operation.
func (s *MatchService) Accept(ctx context.Context, requestID, mentorID string) (*model.MatchRequest, error) {
	req, err := s.requests.Accept(ctx, requestID, mentorID)
	if err != nil {
		return nil, fmt.Errorf("service/match: accepting request %s: %w", requestID, err)
	}

	s.logger.Info("match request accepted",
		slog.String("requestID", req.ID),
		slog.String("mentorID", mentorID),
	)

	return req, nil
}

// Reject rejects a pending request owned by the mentor.
func (s *MatchService) Reject(ctx context.Context, requestID, mentorID string) (*model.MatchRequest, error) {
	req, err := s.requests.Reject(ctx, requestID, mentorID)
	if err != nil {
		return nil, fmt.Errorf("service/match: rejecting request %s: %w", requestID, err)
	}

	s.logger.Info("match request rejected",
		slog.String("requestID", req.ID),
		slog.String("mentorID", mentorID),
	)

	return req, nil
}

// Cancel withdraws a pending request owned by the mentee. The row stays in
// the ledger with status cancelled.
func (s *MatchService) Cancel(ctx context.Context, requestID, menteeID string) (*model.MatchRequest, error) {
	req, err := s.requests.Cancel(ctx, requestID, menteeID)
	if err != nil {
		return nil, fmt.Errorf("service/match: cancelling request %s: %w", requestID, err)
	}

	s.logger.Info("match request cancelled",
		slog.String("requestID", req.ID),
		slog.String("menteeID", menteeID),
	)

	return req, nil
}
