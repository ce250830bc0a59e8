package repository

import (
	"context"
	"errors"
	"time"

	"confbook/internal/domain/booking"
	"confbook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

// BookingRepository is the write side of the booking ledger. Uniqueness of
// the (room_id, booking_date) slot over active rows is enforced by a
// partial unique index, so concurrent creators are serialized by the
// database rather than by application code.
type BookingRepository struct {
	db infra.DBTX
}

func NewBookingRepository(db infra.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

const createBookingSQL = `
INSERT INTO bookings (
	id, user_id, user_email, room_id, room_name, location_id, location_name,
	booking_date, base_price, weather_adjustment, final_price,
	forecasted_temp, weather_condition, status, note, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	pricing := b.Pricing()

	var note *string
	if !b.Note().IsEmpty() {
		v := b.Note().String()
		note = &v
	}

	_, err := r.db.Exec(ctx, createBookingSQL,
		b.ID(),
		b.UserID(),
		b.UserEmail(),
		b.Room().ID.Value(),
		b.Room().Name,
		b.Location().ID,
		b.Location().Name,
		b.Date().Time(),
		pricing.BasePrice,
		pricing.WeatherAdjustment,
		pricing.FinalPrice,
		pricing.ForecastedTemp,
		pricing.Condition,
		b.Status().String(),
		note,
		b.CreatedAt(),
		b.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("booking slot already taken", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

const findBookingSQL = `
SELECT id, user_id, user_email, room_id, room_name, location_id, location_name,
	booking_date, base_price, weather_adjustment, final_price,
	forecasted_temp, weather_condition, status, note, created_at, updated_at
FROM bookings
`

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, findBookingSQL+"WHERE id = $1", id)
	entity, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}
	return entity, nil
}

func (r *BookingRepository) FindActive(ctx context.Context, roomID string, date booking.Date) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx,
		findBookingSQL+"WHERE room_id = $1 AND booking_date = $2 AND status <> 'cancelled'",
		roomID, date.Time())
	entity, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("no active booking for slot", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find active booking", err)
	}
	return entity, nil
}

// SaveStatus persists a status transition. The status <> guard makes a lost
// race with a concurrent transition visible as a CONFLICT.
func (r *BookingRepository) SaveStatus(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1 AND status <> $2",
		b.ID(), b.Status().String(), b.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking status already changed", nil, infra.KindConflict)
	}
	return nil
}

func (r *BookingRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM bookings WHERE user_id = $1", userID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete user bookings", err)
	}
	return tag.RowsAffected(), nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, userID                   uuid.UUID
		userEmail                    string
		roomID, roomName             string
		locationID, locationName     string
		bookingDate                  time.Time
		basePrice, adjustment, final float64
		forecastedTemp               *float64
		condition, note              *string
		status                       string
		createdAt, updatedAt         time.Time
	)

	err := row.Scan(&id, &userID, &userEmail, &roomID, &roomName, &locationID, &locationName,
		&bookingDate, &basePrice, &adjustment, &final,
		&forecastedTemp, &condition, &status, &note, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rid, err := booking.NewRoomID(roomID)
	if err != nil {
		return nil, err
	}

	noteVO, err := booking.NewNote(derefOrEmpty(note))
	if err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(
		id, userID, userEmail,
		booking.RoomRef{ID: rid, Name: roomName},
		booking.LocationRef{ID: locationID, Name: locationName},
		booking.NewDate(bookingDate),
		booking.PriceQuote{
			BasePrice:         basePrice,
			WeatherAdjustment: adjustment,
			FinalPrice:        final,
			ForecastedTemp:    forecastedTemp,
			Condition:         condition,
			UsedFallback:      forecastedTemp == nil,
		},
		booking.Status(status),
		noteVO,
		createdAt, updatedAt,
	), nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
