package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/rs/xid"

	"github.com/sakif/mentor-match/internal/apperror"
	"github.com/sakif/mentor-match/internal/model"
	"github.com/sakif/mentor-match/internal/repository"
)

// discardLogger silences service logging in tests.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo is an in-memory UserRepository keyed by ID. It reproduces
// the contract the services rely on (ErrConflict on taken email,
// ErrNotFound on misses) without a database.
type fakeUserRepo struct {
	users map[string]*model.User

	createErr error // forced error for the next Create, if set
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) add(user *model.User) *model.User {
	if user.ID == "" {
		user.ID = xid.New().String()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperror.Conflict("user", user.Email)
		}
	}
	r.add(user)
	return nil
}

// Gets return copies so callers can't mutate stored state without going
// through UpdateProfile, matching the real repository's behavior.
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) ListMentors(ctx context.Context, filter repository.MentorFilter) ([]model.User, error) {
	mentors := []model.User{}
	for _, user := range r.users {
		if user.Role == model.RoleMentor {
			mentors = append(mentors, *user)
		}
	}
	return mentors, nil
}

// fakeRequestRepo records calls and returns canned results. The real
// state-machine semantics are covered by the sqlite tests; here we only
// need the service's orchestration around the repository.
type fakeRequestRepo struct {
	requests []model.MatchRequest

	createErr     error
	transitionErr error
	lastAction    string // "accept", "reject", or "cancel"
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *model.MatchRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	req.ID = xid.New().String()
	req.Status = model.StatusPending
	r.requests = append(r.requests, *req)
	return nil
}

func (r *fakeRequestRepo) ListIncoming(ctx context.Context, mentorID string) ([]model.MatchRequest, error) {
	out := []model.MatchRequest{}
	for _, req := range r.requests {
		if req.MentorID == mentorID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListOutgoing(ctx context.Context, menteeID string) ([]model.MatchRequest, error) {
	out := []model.MatchRequest{}
	for _, req := range r.requests {
		if req.MenteeID == menteeID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) transition(requestID, ownerID string, owner func(model.MatchRequest) string, to model.RequestStatus) (*model.MatchRequest, error) {
	if r.transitionErr != nil {
		return nil, r.transitionErr
	}
	for i, req := range r.requests {
		if req.ID == requestID && owner(req) == ownerID && req.Status == model.StatusPending {
			r.requests[i].Status = to
			result := r.requests[i]
			return &result, nil
		}
	}
	return nil, apperror.NotFound("match request", requestID)
}

func (r *fakeRequestRepo) Accept(ctx context.Context, requestID, mentorID string) (*model.MatchRequest, error) {
	r.lastAction = "accept"
	return r.transition(requestID, mentorID,
		func(req model.MatchRequest) string { return req.MentorID }, model.StatusAccepted)
}

func (r *fakeRequestRepo) Reject(ctx context.Context, requestID, mentorID string) (*model.MatchRequest, error) {
	r.lastAction = "reject"
	return r.transition(requestID, mentorID,
		func(req model.MatchRequest) string { return req.MentorID }, model.StatusRejected)
}

func (r *fakeRequestRepo) Cancel(ctx context.Context, requestID, menteeID string) (*model.MatchRequest, error) {
	r.lastAction = "cancel"
	return r.transition(requestID, menteeID,
		func(req model.MatchRequest) string { return req.MenteeID }, model.StatusCancelled)
}

// Compile-time checks: the fakes must keep satisfying the interfaces.
var (
	_ repository.UserRepository         = (*fakeUserRepo)(nil)
	_ repository.MatchRequestRepository = (*fakeRequestRepo)(nil)
)

// addTestUser seeds the fake repo with a user of the given role.
func addTestUser(t *testing.T, repo *fakeUserRepo, role model.Role) *model.User {
	t.Helper()
	id := xid.New().String()
	return repo.add(&model.User{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		PasswordHash: "digest",
		Name:         "Test User",
		Role:         role,
	})
}
