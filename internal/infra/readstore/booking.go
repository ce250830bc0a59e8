package readstore

import (
	"context"
	"errors"
	"time"

	"confbook/internal/domain/booking"
	"confbook/internal/infra"
	"confbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	db infra.DBTX
}

func NewBookingReadStore(db infra.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

const bookingViewSQL = `
SELECT id, user_id, user_email, room_id, room_name, location_id, location_name,
	booking_date, base_price, weather_adjustment, final_price,
	forecasted_temp, weather_condition, status, note, created_at, updated_at
FROM bookings
`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, bookingViewSQL+"WHERE id = $1", id)
	view, err := scanBookingView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}
	return view, nil
}

// ListForUser returns newest booking dates first, applying the optional
// status and date-range filters in SQL.
func (r *BookingReadStore) ListForUser(ctx context.Context, userID uuid.UUID, filters queries.ListFilters, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx,
		bookingViewSQL+`
		WHERE user_id = $1
		  AND ($2::text IS NULL OR status = $2)
		  AND ($3::date IS NULL OR booking_date >= $3)
		  AND ($4::date IS NULL OR booking_date <= $4)
		ORDER BY booking_date DESC
		LIMIT $5`,
		userID, filters.Status, filters.From, filters.To, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list user bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		items = append(items, &queries.BookingListItem{
			ID:          view.ID,
			RoomID:      view.RoomID,
			RoomName:    view.RoomName,
			BookingDate: view.BookingDate,
			FinalPrice:  view.FinalPrice,
			Status:      view.Status,
			CreatedAt:   view.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return items, nil
}

func (r *BookingReadStore) ListBookedDates(ctx context.Context, roomID string, from, to time.Time) ([]time.Time, error) {
	rows, err := r.db.Query(ctx,
		`SELECT booking_date FROM bookings
		 WHERE room_id = $1 AND booking_date BETWEEN $2 AND $3 AND status <> 'cancelled'
		 ORDER BY booking_date`,
		roomID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booked dates", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booked date", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booked dates", err)
	}
	return dates, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var (
		view        queries.BookingView
		bookingDate time.Time
	)

	err := row.Scan(&view.ID, &view.UserID, &view.UserEmail,
		&view.RoomID, &view.RoomName, &view.LocationID, &view.LocationName,
		&bookingDate, &view.BasePrice, &view.WeatherAdjustment, &view.FinalPrice,
		&view.ForecastedTemp, &view.WeatherCondition, &view.Status, &view.Note,
		&view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		return nil, err
	}

	view.BookingDate = bookingDate.Format(booking.DateLayout)
	view.UsedFallback = view.ForecastedTemp == nil
	return &view, nil
}
