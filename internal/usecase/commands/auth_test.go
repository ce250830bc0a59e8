//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"confbook/internal/domain/user"
	"confbook/internal/infra"
	"confbook/internal/pkg/errs"
	"confbook/internal/pkg/jwt"
	"confbook/internal/pkg/password"
	"confbook/internal/usecase/commands"
	"confbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	created   *user.User
	createErr error
	byEmail   *user.User
	byEmailEr error
	byID      *user.User
	byIDErr   error
	deleted   []uuid.UUID
	deleteErr error
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = u
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, _ string) (*user.User, error) {
	return f.byEmail, f.byEmailEr
}

func (f *fakeUserRepo) FindByID(_ context.Context, _ uuid.UUID) (*user.User, error) {
	return f.byID, f.byIDErr
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestUser(t *testing.T, plaintext string) *user.User {
	t.Helper()
	email, err := user.NewEmail("member@example.com")
	require.NoError(t, err)
	hash, err := password.HashPassword(plaintext)
	require.NoError(t, err)
	return user.NewUser(email, "Alex Member", hash, user.RoleMember)
}

func newAuthFixture(userRepo *fakeUserRepo, bookingRepo *fakeBookingRepo, dispatcher *fakeDispatcher) commands.AuthCommands {
	return commands.NewAuthCommands(
		userRepo, bookingRepo, dispatcher,
		jwt.NewService("test-secret-key", time.Hour),
	)
}

func TestRegister(t *testing.T) {
	validInput := commands.RegisterInput{
		Email:    "new@example.com",
		Name:     "New Member",
		Password: "password123",
	}

	t.Run("success issues a token and notifies", func(t *testing.T) {
		userRepo := &fakeUserRepo{}
		dispatcher := &fakeDispatcher{}
		auth := newAuthFixture(userRepo, &fakeBookingRepo{}, dispatcher)

		result, err := auth.Register(context.Background(), validInput)
		require.NoError(t, err)

		assert.Equal(t, "new@example.com", result.Email)
		assert.Equal(t, user.RoleMember, result.Role)
		assert.NotEmpty(t, result.AccessToken)
		require.NotNil(t, userRepo.created)
		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, shared.EventUserRegistered, dispatcher.events[0].EventType)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*commands.RegisterInput)
		}{
			{name: "bad email", mutate: func(in *commands.RegisterInput) { in.Email = "not-an-email" }},
			{name: "empty name", mutate: func(in *commands.RegisterInput) { in.Name = "   " }},
			{name: "short password", mutate: func(in *commands.RegisterInput) { in.Password = "short" }},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				in := validInput
				c.mutate(&in)
				auth := newAuthFixture(&fakeUserRepo{}, &fakeBookingRepo{}, &fakeDispatcher{})

				_, err := auth.Register(context.Background(), in)
				require.ErrorIs(t, err, errs.ErrDomainValidation)
			})
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		userRepo := &fakeUserRepo{
			createErr: infra.WrapRepoErr("email taken", errors.New("23505"), infra.KindConflict),
		}
		auth := newAuthFixture(userRepo, &fakeBookingRepo{}, &fakeDispatcher{})

		_, err := auth.Register(context.Background(), validInput)
		require.ErrorIs(t, err, errs.ErrEmailAlreadyTaken)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success with correct credentials", func(t *testing.T) {
		existing := newTestUser(t, "password123")
		auth := newAuthFixture(&fakeUserRepo{byEmail: existing}, &fakeBookingRepo{}, &fakeDispatcher{})

		result, err := auth.Login(context.Background(), commands.LoginInput{
			Email:    "member@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, existing.ID(), result.UserID)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		existing := newTestUser(t, "password123")
		auth := newAuthFixture(&fakeUserRepo{byEmail: existing}, &fakeBookingRepo{}, &fakeDispatcher{})

		_, err := auth.Login(context.Background(), commands.LoginInput{
			Email:    "member@example.com",
			Password: "wrong-password",
		})
		require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := &fakeUserRepo{
			byEmailEr: infra.WrapRepoErr("not found", errors.New("no rows"), infra.KindNotFound),
		}
		auth := newAuthFixture(userRepo, &fakeBookingRepo{}, &fakeDispatcher{})

		_, err := auth.Login(context.Background(), commands.LoginInput{
			Email:    "ghost@example.com",
			Password: "password123",
		})
		require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("removes user and their bookings", func(t *testing.T) {
		existing := newTestUser(t, "password123")
		userRepo := &fakeUserRepo{byID: existing}
		bookingRepo := &fakeBookingRepo{deletedCount: 3}
		dispatcher := &fakeDispatcher{}
		auth := newAuthFixture(userRepo, bookingRepo, dispatcher)

		err := auth.DeleteAccount(context.Background(), existing.ID())
		require.NoError(t, err)

		require.Len(t, userRepo.deleted, 1)
		assert.Equal(t, existing.ID(), userRepo.deleted[0])
		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, shared.EventAccountDeleted, dispatcher.events[0].EventType)
		assert.Equal(t, existing.Email().Value(), dispatcher.events[0].UserEmail)
	})

	t.Run("unknown user", func(t *testing.T) {
		userRepo := &fakeUserRepo{
			byIDErr: infra.WrapRepoErr("not found", errors.New("no rows"), infra.KindNotFound),
		}
		auth := newAuthFixture(userRepo, &fakeBookingRepo{}, &fakeDispatcher{})

		err := auth.DeleteAccount(context.Background(), uuid.New())
		require.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}
