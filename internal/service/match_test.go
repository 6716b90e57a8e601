package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/mentor-match/internal/apperror"
	"github.com/sakif/mentor-match/internal/model"
)

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestMatchCreate_TargetMustBeMentor(t *testing.T) {
	users := newFakeUserRepo()
	mentee := addTestUser(t, users, model.RoleMentee)
	otherMentee := addTestUser(t, users, model.RoleMentee)
	requests := &fakeRequestRepo{}
	svc := NewMatchService(requests, users, discardLogger())

	// A mentee is not a valid target, and neither is a ghost ID. Both fail
	// validation the same way so the field error doesn't leak which IDs
	// exist with which role.
	_, err := svc.Create(context.Background(), otherMentee.ID, mentee.ID, "hi")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() targeting a mentee = %v, want ErrValidation", err)
	}

	_, err = svc.Create(context.Background(), "no-such-user", mentee.ID, "hi")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() targeting a ghost = %v, want ErrValidation", err)
	}

	if len(requests.requests) != 0 {
		t.Error("Create() must not reach the repository for an invalid target")
	}
}

func TestMatchCreate_MessageValidation(t *testing.T) {
	users := newFakeUserRepo()
	mentor := addTestUser(t, users, model.RoleMentor)
	mentee := addTestUser(t, users, model.RoleMentee)
	svc := NewMatchService(&fakeRequestRepo{}, users, discardLogger())

	if _, err := svc.Create(context.Background(), mentor.ID, mentee.ID, "   "); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() with blank message = %v, want ErrValidation", err)
	}

	long := strings.Repeat("x", MaxRequestMessageLength+1)
	if _, err := svc.Create(context.Background(), mentor.ID, mentee.ID, long); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() with overlong message = %v, want ErrValidation", err)
	}
}

func TestMatchCreate_PropagatesAlreadyPending(t *testing.T) {
	users := newFakeUserRepo()
	mentor := addTestUser(t, users, model.RoleMentor)
	mentee := addTestUser(t, users, model.RoleMentee)
	requests := &fakeRequestRepo{createErr: apperror.AlreadyPending(mentee.ID)}
	svc := NewMatchService(requests, users, discardLogger())

	_, err := svc.Create(context.Background(), mentor.ID, mentee.ID, "please")
	if !errors.Is(err, apperror.ErrAlreadyPending) {
		t.Fatalf("Create() = %v, want ErrAlreadyPending", err)
	}
}

func TestMatchCreate(t *testing.T) {
	users := newFakeUserRepo()
	mentor := addTestUser(t, users, model.RoleMentor)
	mentee := addTestUser(t, users, model.RoleMentee)
	requests := &fakeRequestRepo{}
	svc := NewMatchService(requests, users, discardLogger())

	req, err := svc.Create(context.Background(), mentor.ID, mentee.ID, "  please mentor me  ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if req.Status != model.StatusPending {
		t.Errorf("Create() status = %q, want pending", req.Status)
	}
	if req.Message != "please mentor me" {
		t.Errorf("Create() message = %q, want it trimmed", req.Message)
	}
}

// =========================================================================
// TRANSITION TESTS
// =========================================================================

func TestMatchTransitions_DelegateWithActor(t *testing.T) {
	users := newFakeUserRepo()
	mentor := addTestUser(t, users, model.RoleMentor)
	mentee := addTestUser(t, users, model.RoleMentee)

	newPending := func(t *testing.T) (*fakeRequestRepo, *MatchService, string) {
		t.Helper()
		requests := &fakeRequestRepo{}
		svc := NewMatchService(requests, users, discardLogger())
		req, err := svc.Create(context.Background(), mentor.ID, mentee.ID, "hello")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return requests, svc, req.ID
	}

	t.Run("accept", func(t *testing.T) {
		requests, svc, id := newPending(t)
		req, err := svc.Accept(context.Background(), id, mentor.ID)
		if err != nil {
			t.Fatalf("Accept() error = %v", err)
		}
		if req.Status != model.StatusAccepted || requests.lastAction != "accept" {
			t.Errorf("Accept() status = %q, lastAction = %q", req.Status, requests.lastAction)
		}
	})

	t.Run("reject", func(t *testing.T) {
		requests, svc, id := newPending(t)
		req, err := svc.Reject(context.Background(), id, mentor.ID)
		if err != nil {
			t.Fatalf("Reject() error = %v", err)
		}
		if req.Status != model.StatusRejected || requests.lastAction != "reject" {
			t.Errorf("Reject() status = %q, lastAction = %q", req.Status, requests.lastAction)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		requests, svc, id := newPending(t)
		req, err := svc.Cancel(context.Background(), id, mentee.ID)
		if err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
		if req.Status != model.StatusCancelled || requests.lastAction != "cancel" {
			t.Errorf("Cancel() status = %q, lastAction = %q", req.Status, requests.lastAction)
		}
	})

	t.Run("wrong actor is not found", func(t *testing.T) {
		_, svc, id := newPending(t)
		if _, err := svc.Accept(context.Background(), id, mentee.ID); !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("Accept() by non-owner = %v, want ErrNotFound", err)
		}
	})
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestMatchLists_ScopedToCaller(t *testing.T) {
	users := newFakeUserRepo()
	mentor := addTestUser(t, users, model.RoleMentor)
	otherMentor := addTestUser(t, users, model.RoleMentor)
	mentee := addTestUser(t, users, model.RoleMentee)

	requests := &fakeRequestRepo{}
	svc := NewMatchService(requests, users, discardLogger())

	if _, err := svc.Create(context.Background(), mentor.ID, mentee.ID, "to mentor"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	incoming, err := svc.ListIncoming(context.Background(), mentor.ID)
	if err != nil {
		t.Fatalf("ListIncoming() error = %v", err)
	}
	if len(incoming) != 1 {
		t.Errorf("ListIncoming(mentor) = %d requests, want 1", len(incoming))
	}

	otherIncoming, err := svc.ListIncoming(context.Background(), otherMentor.ID)
	if err != nil {
		t.Fatalf("ListIncoming() error = %v", err)
	}
	if len(otherIncoming) != 0 {
		t.Errorf("ListIncoming(other mentor) = %d requests, want 0", len(otherIncoming))
	}

	outgoing, err := svc.ListOutgoing(context.Background(), mentee.ID)
	if err != nil {
		t.Fatalf("ListOutgoing() error = %v", err)
	}
	if len(outgoing) != 1 {
		t.Errorf("ListOutgoing(mentee) = %d requests, want 1", len(outgoing))
	}
}
