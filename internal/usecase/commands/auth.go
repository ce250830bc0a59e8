package commands

import (
	"context"
	"log/slog"

	"confbook/internal/domain/user"
	"confbook/internal/infra"
	"confbook/internal/pkg/errs"
	"confbook/internal/pkg/jwt"
	"confbook/internal/pkg/password"
	"confbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	UserID      uuid.UUID
	Email       string
	Name        string
	Role        user.Role
	AccessToken string
}

type AuthCommands interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type authCommandsImpl struct {
	userRepo    UserRepository
	bookingRepo BookingRepository
	dispatcher  shared.NotificationDispatcher
	jwtService  *jwt.Service
}

func NewAuthCommands(
	userRepo UserRepository,
	bookingRepo BookingRepository,
	dispatcher shared.NotificationDispatcher,
	jwtService *jwt.Service,
) AuthCommands {
	return &authCommandsImpl{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		dispatcher:  dispatcher,
		jwtService:  jwtService,
	}
}

func (a *authCommandsImpl) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email, err := user.NewEmail(in.Email)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	name, err := user.NewName(in.Name)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	pw, err := user.NewPassword(in.Password)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	hash, err := password.HashPassword(pw.Value())
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	entity := user.NewUser(email, name, hash, user.RoleMember)
	if err := a.userRepo.Create(ctx, entity); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrEmailAlreadyTaken)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	a.dispatcher.Dispatch(shared.NotificationEvent{
		UserEmail: email.Value(),
		UserName:  name,
		EventType: shared.EventUserRegistered,
	})

	return a.issueToken(entity)
}

func (a *authCommandsImpl) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	entity, err := a.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrInvalidCredentials)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := password.ComparePassword(entity.PasswordHash(), in.Password); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}

	return a.issueToken(entity)
}

// DeleteAccount removes the user and every booking they own. Bookings are
// hard-deleted here — account deletion is the one path that does not keep
// history.
func (a *authCommandsImpl) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	entity, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrUserNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	removed, err := a.bookingRepo.DeleteAllForUser(ctx, userID)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if removed > 0 {
		slog.Info("removed bookings for deleted account", "user_id", userID, "count", removed)
	}

	if err := a.userRepo.Delete(ctx, userID); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	a.dispatcher.Dispatch(shared.NotificationEvent{
		UserEmail: entity.Email().Value(),
		UserName:  entity.Name(),
		EventType: shared.EventAccountDeleted,
	})

	return nil
}

func (a *authCommandsImpl) issueToken(entity *user.User) (*AuthResult, error) {
	token, err := a.jwtService.GenerateToken(entity.ID(), entity.Email().Value(), entity.Role())
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}

	return &AuthResult{
		UserID:      entity.ID(),
		Email:       entity.Email().Value(),
		Name:        entity.Name(),
		Role:        entity.Role(),
		AccessToken: token,
	}, nil
}
