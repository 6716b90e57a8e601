package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/mentor-match/internal/auth"
	"github.com/sakif/mentor-match/internal/model"
	"github.com/sakif/mentor-match/internal/service"
)

// MatchHandler serves the match-request lifecycle endpoints.
//
// Role gating (mentee creates/cancels, mentor accepts/rejects) is mounted
// as RequireRole middleware in the router, so by the time a handler runs
// the caller's role is already correct. The handlers only bind the acting
// user's ID into the service call — ownership itself is checked inside the
// ledger, folded into the lookup.
type MatchHandler struct {
	matches *service.MatchService
	logger  *slog.Logger
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(matches *service.MatchService, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		matches: matches,
		logger:  logger,
	}
}

type matchRequestCreate struct {
	MentorID string `json:"mentorId"`
	Message  string `json:"message"`
}

// matchRequestResponse is the wire shape for a match request.
type matchRequestResponse struct {
	ID       string              `json:"id"`
	MentorID string              `json:"mentorId"`
	MenteeID string              `json:"menteeId"`
	Message  string              `json:"message"`
	Status   model.RequestStatus `json:"status"`
}

func toMatchResponse(req *model.MatchRequest) matchRequestResponse {
	return matchRequestResponse{
		ID:       req.ID,
		MentorID: req.MentorID,
		MenteeID: req.MenteeID,
		Message:  req.Message,
		Status:   req.Status,
	}
}

// HandleCreate files a new match request from the calling mentee.
//
// HTTP: POST /api/match-requests (mentee only)
// 409 already_pending when the mentee still has an open request anywhere.
func (h *MatchHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return
	}

	var req matchRequestCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	created, err := h.matches.Create(r.Context(), req.MentorID, ident.UserID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMatchResponse(created))
}

// HandleListIncoming lists requests addressed to the calling mentor.
//
// HTTP: GET /api/match-requests/incoming (mentor only)
func (h *MatchHandler) HandleListIncoming(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return
	}

	requests, err := h.matches.ListIncoming(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponses(requests))
}

// HandleListOutgoing lists requests sent by the calling mentee.
//
// HTTP: GET /api/match-requests/outgoing (mentee only)
func (h *MatchHandler) HandleListOutgoing(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return
	}

	requests, err := h.matches.ListOutgoing(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponses(requests))
}

// HandleAccept accepts a pending request. All of the mentor's other
// pending requests are rejected in the same operation.
//
// HTTP: PUT /api/match-requests/{id}/accept (mentor only)
// 404 for missing, foreign, and already-terminal requests alike.
func (h *MatchHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.matches.Accept)
}

// HandleReject rejects a pending request.
//
// HTTP: PUT /api/match-requests/{id}/reject (mentor only)
func (h *MatchHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.matches.Reject)
}

// HandleCancel withdraws a pending request the calling mentee sent.
//
// HTTP: DELETE /api/match-requests/{id} (mentee only)
// The request is marked cancelled, not removed; the response carries the
// final record.
func (h *MatchHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.matches.Cancel)
}

// handleTransition is the shared shape of accept/reject/cancel: bind the
// path id and the acting user's ID, run the transition, return the updated
// record.
func (h *MatchHandler) handleTransition(
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, requestID, actorID string) (*model.MatchRequest, error),
) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return
	}

	requestID := chi.URLParam(r, "id")

	updated, err := transition(r.Context(), requestID, ident.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponse(updated))
}

func toMatchResponses(requests []model.MatchRequest) []matchRequestResponse {
	responses := make([]matchRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, toMatchResponse(&requests[i]))
	}
	return responses
}
