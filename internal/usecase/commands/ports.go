package commands

import (
	"context"

	"confbook/internal/domain/booking"
	"confbook/internal/domain/user"

	"github.com/google/uuid"
)

// BookingRepository is the write side of the booking ledger.
//
// Create must be atomic against concurrent creators of the same
// (room, date) slot: the store enforces uniqueness over active bookings and
// reports a violation as a CONFLICT repository error. Application-level
// pre-checks are advisory only.
type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindActive(ctx context.Context, roomID string, date booking.Date) (*booking.Booking, error)
	SaveStatus(ctx context.Context, b *booking.Booking) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
