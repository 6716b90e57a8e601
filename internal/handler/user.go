package handler

import (
	"fmt"

	"github.com/sakif/mentor-match/internal/model"
)

// ProfileData is the nested profile object inside every user response.
// ImageURL points at the image endpoint rather than inlining the bytes.
type ProfileData struct {
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	ImageURL string   `json:"imageUrl"`
	Skills   []string `json:"skills"`
}

// UserResponse is the wire shape for a user, shared by /api/me,
// /api/profile, and /api/mentors.
type UserResponse struct {
	ID      string      `json:"id"`
	Email   string      `json:"email"`
	Role    model.Role  `json:"role"`
	Profile ProfileData `json:"profile"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
		Profile: ProfileData{
			Name:     u.Name,
			Bio:      u.Bio,
			ImageURL: fmt.Sprintf("/api/images/%s/%s", u.Role, u.ID),
			Skills:   u.SkillList(),
		},
	}
}
