package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/mentor-match/internal/auth"
	"github.com/sakif/mentor-match/internal/model"
	"github.com/sakif/mentor-match/internal/repository/sqlite"
	"github.com/sakif/mentor-match/internal/service"
)

// testEnv is a fully wired HTTP stack on an in-memory database: real
// router, real services, real SQLite. Handler tests go through the same
// route tree the server mounts, middleware included, so status codes and
// role gates are exercised exactly as in production.
type testEnv struct {
	router *chi.Mux
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", "mentor-match-api", "mentor-match-users")
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(4)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authService := service.NewAuthService(db.Users, tokens, passwords, logger)
	profileService := service.NewProfileService(db.Users, logger)
	matchService := service.NewMatchService(db.MatchRequests, db.Users, logger)

	authHandler := NewAuthHandler(authService, logger)
	profileHandler := NewProfileHandler(profileService, logger)
	matchHandler := NewMatchHandler(matchService, logger)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)
			r.Put("/profile", profileHandler.HandleUpdateProfile)
			r.Get("/images/{role}/{id}", profileHandler.HandleGetImage)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(model.RoleMentee))

				r.Get("/mentors", profileHandler.HandleListMentors)
				r.Post("/match-requests", matchHandler.HandleCreate)
				r.Get("/match-requests/outgoing", matchHandler.HandleListOutgoing)
				r.Delete("/match-requests/{id}", matchHandler.HandleCancel)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(model.RoleMentor))

				r.Get("/match-requests/incoming", matchHandler.HandleListIncoming)
				r.Put("/match-requests/{id}/accept", matchHandler.HandleAccept)
				r.Put("/match-requests/{id}/reject", matchHandler.HandleReject)
			})
		})
	})

	return &testEnv{router: router, tokens: tokens}
}

// do executes a request against the router. A non-nil body is JSON-encoded;
// a non-empty token goes into the Authorization header.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a user and returns their wire representation.
func (e *testEnv) signup(t *testing.T, email, password, name string, role model.Role) UserResponse {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/signup", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
		"role":     string(role),
	})
	require.Equal(t, http.StatusCreated, rec.Code, "signup failed: %s", rec.Body.String())

	var user UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user
}

// login returns a bearer token for the given credentials.
func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

// signupAndLogin is the common two-step: register, then get a token.
func (e *testEnv) signupAndLogin(t *testing.T, email string, role model.Role) (UserResponse, string) {
	t.Helper()
	user := e.signup(t, email, "test-password", "Test "+email, role)
	return user, e.login(t, email, "test-password")
}

// decodeError pulls the standard error body out of a response.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
