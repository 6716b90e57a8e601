package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/mentor-match/internal/apperror"
	"github.com/sakif/mentor-match/internal/model"
	"github.com/sakif/mentor-match/internal/repository"
)

// UserRepo is the SQLite-backed credential and profile store.
type UserRepo struct {
	db *DB
}

// Compile-time check that *UserRepo implements repository.UserRepository.
var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, password_hash, name, role, bio, skills, profile_image, created_at, updated_at`

// Create inserts a new user. The ID and timestamps are generated here and
// written back into the caller's struct. A duplicate email trips the UNIQUE
// constraint and is translated to apperror.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	if !user.Role.Valid() {
		return apperror.ValidationFailed("role", fmt.Sprintf("invalid role %q", user.Role))
	}

	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, bio, skills, profile_image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		string(user.Role),
		user.Bio,
		user.Skills,
		user.ProfileImage,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByEmail retrieves a user by exact email. No case folding — the email
// is compared exactly as stored.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `email = ?`, email)
}

// GetByID retrieves a user by internal ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, `id = ?`, id)
}

func (r *UserRepo) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Role,
		&u.Bio,
		&u.Skills,
		&u.ProfileImage,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprintf("%v", arg))
		}
		return nil, fmt.Errorf("sqlite: getting user (%v): %w", arg, err)
	}

	return &u, nil
}

// UpdateProfile writes the mutable profile fields: name, bio, skills, and
// the profile image. Email, role, and password hash never change here.
func (r *UserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE users
		 SET name = ?, bio = ?, skills = ?, profile_image = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name,
		user.Bio,
		user.Skills,
		user.ProfileImage,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// ListMentors returns all mentor accounts, optionally filtered by a skill
// substring and ordered by name, skills, or registration order (the id —
// xids are time-prefixed, so id order is creation order).
func (r *UserRepo) ListMentors(ctx context.Context, filter repository.MentorFilter) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = 'mentor'`
	args := []any{}

	if filter.Skill != "" {
		query += ` AND skills LIKE ?`
		args = append(args, "%"+filter.Skill+"%")
	}

	switch filter.OrderBy {
	case "name":
		query += ` ORDER BY name`
	case "skill":
		query += ` ORDER BY skills`
	default:
		query += ` ORDER BY id`
	}

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing mentors: %w", err)
	}
	defer rows.Close()

	var mentors []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
			&u.Bio, &u.Skills, &u.ProfileImage, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning mentor row: %w", err)
		}
		mentors = append(mentors, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating mentors: %w", err)
	}

	return mentors, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure on the given constraint target (a "table.column" pair or an
// index name). database/sql exposes driver errors as opaque values, so the
// check is textual; the message format is stable across SQLite versions.
func isUniqueViolation(err error, target string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, target)
}
