package model

import "time"

// RequestStatus is the lifecycle state of a match request.
//
// A request is born pending and makes exactly one transition:
//
//	pending → accepted   (mentor accepts)
//	pending → rejected   (mentor rejects, or a sibling was accepted)
//	pending → cancelled  (mentee withdraws)
//
// accepted, rejected, and cancelled are terminal — no edge leaves them.
// Cancellation is a status, not a deletion: rows are never removed.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusCancelled
}

// MatchRequest is a mentee's one-to-one request to a mentor.
//
// MentorID and MenteeID reference users whose roles matched at creation
// time (checked once, never re-checked). A mentee may hold at most one
// pending request at a time across all mentors — the repository enforces
// this with a partial unique index.
type MatchRequest struct {
	ID        string        `json:"id"        db:"id"`
	MentorID  string        `json:"mentorId"  db:"mentor_id"`
	MenteeID  string        `json:"menteeId"  db:"mentee_id"`
	Message   string        `json:"message"   db:"message"`
	Status    RequestStatus `json:"status"    db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}
