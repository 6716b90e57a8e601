package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/mentor-match/internal/apperror"
	"github.com/sakif/mentor-match/internal/model"
	"github.com/sakif/mentor-match/internal/repository"
)

// MatchRequestRepo is the SQLite-backed match-request ledger.
type MatchRequestRepo struct {
	db *DB
}

// Compile-time check that *MatchRequestRepo implements
// repository.MatchRequestRepository.
var _ repository.MatchRequestRepository = (*MatchRequestRepo)(nil)

const requestColumns = `id, mentor_id, mentee_id, message, status, created_at, updated_at`

// Create inserts a new pending match request.
//
// The one-pending-per-mentee check is NOT a SELECT followed by an INSERT —
// that would race between two concurrent creates for the same mentee.
// Instead the INSERT itself hits the partial unique index
// (mentee_id WHERE status='pending'), so at most one of two concurrent
// creates can succeed and the loser gets ErrAlreadyPending.
func (r *MatchRequestRepo) Create(ctx context.Context, req *model.MatchRequest) error {
	now := time.Now().UTC()
	req.ID = xid.New().String()
	req.Status = model.StatusPending
	req.CreatedAt = now
	req.UpdatedAt = now

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO match_requests (id, mentor_id, mentee_id, message, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID,
		req.MentorID,
		req.MenteeID,
		req.Message,
		string(req.Status),
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		// The violated constraint is reported either by column or by
		// index name depending on the SQLite version.
		if isUniqueViolation(err, "match_requests.mentee_id") ||
			isUniqueViolation(err, "idx_match_requests_one_pending") {
			return apperror.AlreadyPending(req.MenteeID)
		}
		return fmt.Errorf("sqlite: inserting match request: %w", err)
	}

	return nil
}

// ListIncoming returns all requests addressed to the mentor, every status
// included, newest-created first. Ties on created_at break by ascending id
// so the order is deterministic.
func (r *MatchRequestRepo) ListIncoming(ctx context.Context, mentorID string) ([]model.MatchRequest, error) {
	return r.listRequests(ctx, `mentor_id = ?`, mentorID)
}

// ListOutgoing returns all requests sent by the mentee, newest-created
// first with the same ascending-id tie-break.
func (r *MatchRequestRepo) ListOutgoing(ctx context.Context, menteeID string) ([]model.MatchRequest, error) {
	return r.listRequests(ctx, `mentee_id = ?`, menteeID)
}

func (r *MatchRequestRepo) listRequests(ctx context.Context, where string, arg any) ([]model.MatchRequest, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+requestColumns+`
		 FROM match_requests
		 WHERE `+where+`
		 ORDER BY created_at DESC, id ASC`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing match requests: %w", err)
	}
	defer rows.Close()

	requests := []model.MatchRequest{}
	for rows.Next() {
		var req model.MatchRequest
		if err := rows.Scan(
			&req.ID, &req.MentorID, &req.MenteeID, &req.Message,
			&req.Status, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning match request row: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating match requests: %w", err)
	}

	return requests, nil
}

// Accept transitions the request to accepted and auto-rejects every other
// pending request addressed to the same mentor, in one transaction.
//
// The target UPDATE's WHERE clause folds three checks into one atomic
// statement: the row exists, it belongs to this mentor, and it is still
// pending. Zero rows affected means one of the three failed, and the caller
// gets the same NotFound for all of them — a mentor cannot probe for
// requests owned by someone else, and terminal rows admit no transitions.
//
// The cascade rides in the same transaction as the target update. Either
// both commit or neither does: a crash in between cannot leave an accepted
// request alongside still-pending siblings.
func (r *MatchRequestRepo) Accept(ctx context.Context, requestID, mentorID string) (*model.MatchRequest, error) {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning accept transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	result, err := tx.ExecContext(ctx,
		`UPDATE match_requests
		 SET status = 'accepted', updated_at = ?
		 WHERE id = ? AND mentor_id = ? AND status = 'pending'`,
		now, requestID, mentorID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: accepting match request %s: %w", requestID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("match request", requestID)
	}

	// Cascade: every other pending request for this mentor is rejected.
	// Requests addressed to other mentors are untouched.
	_, err = tx.ExecContext(ctx,
		`UPDATE match_requests
		 SET status = 'rejected', updated_at = ?
		 WHERE mentor_id = ? AND status = 'pending' AND id != ?`,
		now, mentorID, requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: cascading rejection for mentor %s: %w", mentorID, err)
	}

	req, err := scanRequest(tx.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM match_requests WHERE id = ?`, requestID,
	))
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading back accepted request %s: %w", requestID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing accept transaction: %w", err)
	}

	return req, nil
}

// Reject transitions the request to rejected. Same ownership + pending
// guard as Accept, no cascade.
func (r *MatchRequestRepo) Reject(ctx context.Context, requestID, mentorID string) (*model.MatchRequest, error) {
	return r.updateStatus(ctx, requestID, "mentor_id", mentorID, model.StatusRejected)
}

// Cancel transitions the request to cancelled. Only the owning mentee may
// cancel, and only while the request is still pending — a cancelled row
// stays in the ledger, it is never deleted.
func (r *MatchRequestRepo) Cancel(ctx context.Context, requestID, menteeID string) (*model.MatchRequest, error) {
	return r.updateStatus(ctx, requestID, "mentee_id", menteeID, model.StatusCancelled)
}

// updateStatus performs a single guarded pending → terminal transition.
// ownerColumn is "mentor_id" or "mentee_id" depending on which party the
// operation belongs to; it is always one of those two literals, never user
// input.
func (r *MatchRequestRepo) updateStatus(ctx context.Context, requestID, ownerColumn, ownerID string, to model.RequestStatus) (*model.MatchRequest, error) {
	now := time.Now().UTC()

	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE match_requests
		 SET status = ?, updated_at = ?
		 WHERE id = ? AND `+ownerColumn+` = ? AND status = 'pending'`,
		string(to), now, requestID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating match request %s to %s: %w", requestID, to, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("match request", requestID)
	}

	req, err := scanRequest(r.db.conn.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM match_requests WHERE id = ?`, requestID,
	))
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading back match request %s: %w", requestID, err)
	}

	return req, nil
}

func scanRequest(row *sql.Row) (*model.MatchRequest, error) {
	var r model.MatchRequest
	err := row.Scan(
		&r.ID, &r.MentorID, &r.MenteeID, &r.Message,
		&r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
