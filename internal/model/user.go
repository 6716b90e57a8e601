// Package model defines the data structures used throughout the application.
package model

import (
	"strings"
	"time"
)

// Role is the closed set of account roles. It is chosen at signup and never
// changes afterwards — a mentor cannot become a mentee or vice versa.
//
// We use a named type instead of a bare string so that every boundary that
// accepts a role can call Valid() and reject anything outside the two known
// variants.
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleMentor || r == RoleMentee
}

// User represents a registered account, either a mentor or a mentee.
//
// The internal ID is an xid string (20 chars, URL-safe, time-prefixed).
// Email is unique and stored exactly as given — no case folding.
//
// PasswordHash is an opaque bcrypt digest. It is never serialized to JSON
// (the `json:"-"` tag); only the auth package knows how to produce or
// check one.
//
// ProfileImage holds the transcoded 500x500 JPEG bytes, or nil when the
// user has never uploaded an image. Skills is a comma-separated list and
// only meaningful for mentors.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Name         string    `json:"name"      db:"name"`
	Role         Role      `json:"role"      db:"role"`
	Bio          string    `json:"bio"       db:"bio"`
	Skills       string    `json:"skills"    db:"skills"` // comma-separated, mentors only
	ProfileImage []byte    `json:"-"         db:"profile_image"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// SkillList splits the stored comma-separated skills into a slice.
// Returns an empty slice (not nil) for users with no skills so the JSON
// encoding renders [] instead of null.
func (u *User) SkillList() []string {
	if u.Skills == "" {
		return []string{}
	}
	raw := strings.Split(u.Skills, ",")
	skills := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
