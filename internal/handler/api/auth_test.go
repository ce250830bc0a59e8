//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"

	"confbook/internal/domain/user"
	"confbook/internal/handler/api"
	"confbook/internal/pkg/errs"
	"confbook/internal/usecase/commands"
	"confbook/internal/usecase/queries"
	"confbook/tests/common/helper"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubAuthCommands struct {
	result    *commands.AuthResult
	err       error
	deleteErr error
	deleted   []uuid.UUID
}

func (s *stubAuthCommands) Register(_ context.Context, _ commands.RegisterInput) (*commands.AuthResult, error) {
	return s.result, s.err
}

func (s *stubAuthCommands) Login(_ context.Context, _ commands.LoginInput) (*commands.AuthResult, error) {
	return s.result, s.err
}

func (s *stubAuthCommands) DeleteAccount(_ context.Context, userID uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, userID)
	return nil
}

type AuthHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	authCmds *stubAuthCommands
	userID   uuid.UUID
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.userID = uuid.New()

	s.authCmds = &stubAuthCommands{}
	userQrys := &stubUserQueries{view: &queries.UserView{
		ID:    s.userID,
		Email: "member@example.com",
		Name:  "Alex Member",
		Role:  "member",
	}}

	handler := api.NewAuthHandler(s.authCmds, userQrys)

	authStub := func(c *gin.Context) {
		c.Set("user_id", s.userID)
		c.Set("user_email", "member@example.com")
		c.Set("user_role", user.RoleMember)
	}

	s.router.POST("/api/auth/register", handler.Register)
	s.router.POST("/api/auth/login", handler.Login)
	s.router.GET("/api/auth/me", authStub, handler.Me)
	s.router.DELETE("/api/auth/me", authStub, handler.DeleteAccount)
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func validAuthResult(userID uuid.UUID) *commands.AuthResult {
	return &commands.AuthResult{
		UserID:      userID,
		Email:       "member@example.com",
		Name:        "Alex Member",
		Role:        user.RoleMember,
		AccessToken: "test-jwt-token",
	}
}

func (s *AuthHandlerTestSuite) TestRegister() {
	reqBody := map[string]any{
		"email":    "member@example.com",
		"name":     "Alex Member",
		"password": "password123",
	}

	s.Run("success: returns 201 with a token", func() {
		s.authCmds.result = validAuthResult(s.userID)
		s.authCmds.err = nil

		rec := helper.PerformRequest(s.T(), s.router, http.MethodPost, "/api/auth/register", reqBody, "")

		s.Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), "test-jwt-token")
	})

	s.Run("error: 400 on binding failures", func() {
		for _, body := range []map[string]any{
			{"email": "not-an-email", "name": "A", "password": "password123"},
			{"email": "a@example.com", "name": "A", "password": "short"},
			{"email": "a@example.com", "password": "password123"},
		} {
			rec := helper.PerformRequest(s.T(), s.router, http.MethodPost, "/api/auth/register", body, "")
			s.Equal(http.StatusBadRequest, rec.Code)
		}
	})

	s.Run("error: 409 when the email is taken", func() {
		s.authCmds.result = nil
		s.authCmds.err = errs.ErrEmailAlreadyTaken

		rec := helper.PerformRequest(s.T(), s.router, http.MethodPost, "/api/auth/register", reqBody, "")
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestLogin() {
	reqBody := map[string]any{
		"email":    "member@example.com",
		"password": "password123",
	}

	s.Run("success: returns 200 with a token", func() {
		s.authCmds.result = validAuthResult(s.userID)
		s.authCmds.err = nil

		rec := helper.PerformRequest(s.T(), s.router, http.MethodPost, "/api/auth/login", reqBody, "")

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "test-jwt-token")
	})

	s.Run("error: 401 on bad credentials", func() {
		s.authCmds.result = nil
		s.authCmds.err = errs.ErrInvalidCredentials

		rec := helper.PerformRequest(s.T(), s.router, http.MethodPost, "/api/auth/login", reqBody, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	rec := helper.PerformRequest(s.T(), s.router, http.MethodGet, "/api/auth/me", nil, "")

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "member@example.com")
}

func (s *AuthHandlerTestSuite) TestDeleteAccount() {
	s.Run("success: returns 204 and deletes the caller", func() {
		rec := helper.PerformRequest(s.T(), s.router, http.MethodDelete, "/api/auth/me", nil, "")

		s.Equal(http.StatusNoContent, rec.Code)
		s.Require().Len(s.authCmds.deleted, 1)
		s.Equal(s.userID, s.authCmds.deleted[0])
	})

	s.Run("error: 404 when the user is gone", func() {
		s.authCmds.deleteErr = errs.ErrUserNotFound

		rec := helper.PerformRequest(s.T(), s.router, http.MethodDelete, "/api/auth/me", nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
