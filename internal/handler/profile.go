package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/mentor-match/internal/auth"
	"github.com/sakif/mentor-match/internal/service"
)

// ProfileHandler serves profile updates, the profile image endpoint, and
// the mentor directory.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

type profileUpdateRequest struct {
	Name   string   `json:"name"`
	Bio    *string  `json:"bio"`
	Skills []string `json:"skills"`
	Image  string   `json:"image"` // base64-encoded JPEG or PNG
}

// HandleUpdateProfile updates the caller's own profile.
//
// HTTP: PUT /api/profile (RequireAuth)
// A malformed or oversized image fails the whole update with 400
// image_processing_error — nothing is partially applied.
func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	user, err := h.profiles.UpdateProfile(r.Context(), ident.UserID, service.ProfileUpdate{
		Name:        req.Name,
		Bio:         req.Bio,
		Skills:      req.Skills,
		ImageBase64: req.Image,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleGetImage streams a user's stored profile image, or redirects to a
// role-labelled placeholder when none has been uploaded.
//
// HTTP: GET /api/images/{role}/{id} (RequireAuth)
// The role path segment exists for URL aesthetics (it mirrors the imageUrl
// the API hands out); lookup is by id alone.
func (h *ProfileHandler) HandleGetImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.profiles.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(user.ProfileImage) == 0 {
		placeholder := fmt.Sprintf("https://placehold.co/500x500.jpg?text=%s",
			url.QueryEscape(strings.ToUpper(string(user.Role))))
		http.Redirect(w, r, placeholder, http.StatusTemporaryRedirect)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(user.ProfileImage); err != nil {
		h.logger.Error("failed to write image response",
			slog.String("userID", id),
			slog.String("error", err.Error()),
		)
	}
}

// HandleListMentors returns the mentor directory.
//
// HTTP: GET /api/mentors?skill=react&order_by=name (RequireAuth + mentee role)
func (h *ProfileHandler) HandleListMentors(w http.ResponseWriter, r *http.Request) {
	skill := r.URL.Query().Get("skill")
	orderBy := r.URL.Query().Get("order_by")

	mentors, err := h.profiles.ListMentors(r.Context(), skill, orderBy)
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]UserResponse, 0, len(mentors))
	for i := range mentors {
		responses = append(responses, toUserResponse(&mentors[i]))
	}

	writeJSON(w, http.StatusOK, responses)
}
