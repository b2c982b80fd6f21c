package handler

import "github.com/99minutos/inventory-system/internal/core/domain"

// Presence is checked by the service so that any missing field yields the
// same message; tags here only constrain the format of provided values.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin manager staff"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token,omitempty"`
}

func toUserResponse(u *domain.User, withToken bool) userResponse {
	resp := userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}
	if withToken {
		resp.Token = u.Token
	}
	return resp
}
