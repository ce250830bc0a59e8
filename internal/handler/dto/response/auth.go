package response

import (
	"confbook/internal/usecase/commands"
	"confbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

func FromAuthResult(result *commands.AuthResult) *AuthResponse {
	return &AuthResponse{
		AccessToken: result.AccessToken,
		User: &UserResponse{
			ID:    result.UserID,
			Email: result.Email,
			Name:  result.Name,
			Role:  result.Role.String(),
		},
	}
}

func FromUserView(rm *queries.UserView) *UserResponse {
	return &UserResponse{
		ID:    rm.ID,
		Email: rm.Email,
		Name:  rm.Name,
		Role:  rm.Role,
	}
}
