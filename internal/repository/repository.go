// Package repository defines the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite);
// services only ever see these interfaces.
package repository

import (
	"context"

	"github.com/sakif/mentor-match/internal/model"
)

// MentorFilter narrows and orders ListMentors results.
type MentorFilter struct {
	Skill   string // substring match against the skills column; empty = all
	OrderBy string // "name", "skill", or "" for registration order
}

// UserRepository is the credential/profile store.
//
// Create fails with apperror.ErrConflict when the email is already taken.
// GetByEmail and GetByID fail with apperror.ErrNotFound when no such user
// exists. Email comparison is exact — stored case-sensitively, no folding.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	ListMentors(ctx context.Context, filter MentorFilter) ([]model.User, error)
}

// MatchRequestRepository is the match-request ledger. It owns the status
// state machine's storage-level invariants:
//
//   - Create is an atomic check-then-insert: at most one pending request
//     per mentee, concurrent creates included. Violations return
//     apperror.ErrAlreadyPending.
//   - Accept updates the target row and auto-rejects the mentor's other
//     pending rows inside a single transaction — no observer ever sees the
//     target accepted while a sibling is still pending.
//   - Accept/Reject require the row to be owned by mentorID and pending;
//     Cancel requires it owned by menteeID and pending. Anything else is
//     apperror.ErrNotFound — foreign, missing, and already-terminal rows
//     are indistinguishable to the caller.
//   - Listings are newest-created first, ties broken by ascending id.
type MatchRequestRepository interface {
	Create(ctx context.Context, req *model.MatchRequest) error
	ListIncoming(ctx context.Context, mentorID string) ([]model.MatchRequest, error)
	ListOutgoing(ctx context.Context, menteeID string) ([]model.MatchRequest, error)
	Accept(ctx context.Context, requestID, mentorID string) (*model.MatchRequest, error)
	Reject(ctx context.Context, requestID, mentorID string) (*model.MatchRequest, error)
	Cancel(ctx context.Context, requestID, menteeID string) (*model.MatchRequest, error)
}
