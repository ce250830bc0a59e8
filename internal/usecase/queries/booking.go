package queries

import (
	"context"
	"time"

	"confbook/internal/domain/booking"
	"confbook/internal/domain/user"
	"confbook/internal/infra"
	"confbook/internal/pkg/errs"
	"confbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// MaxListLimit caps user booking listings.
const MaxListLimit = 50

// BookingView is the read model returned to callers, including the pricing
// breakdown snapshotted at creation.
type BookingView struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	UserEmail         string    `json:"user_email"`
	RoomID            string    `json:"room_id"`
	RoomName          string    `json:"room_name"`
	LocationID        string    `json:"location_id"`
	LocationName      string    `json:"location_name"`
	BookingDate       string    `json:"booking_date"`
	BasePrice         float64   `json:"base_price"`
	WeatherAdjustment float64   `json:"weather_adjustment"`
	FinalPrice        float64   `json:"final_price"`
	ForecastedTemp    *float64  `json:"forecasted_temp,omitempty"`
	WeatherCondition  *string   `json:"weather_condition,omitempty"`
	UsedFallback      bool      `json:"used_fallback"`
	Status            string    `json:"status"`
	Note              *string   `json:"note,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID          uuid.UUID `json:"id"`
	RoomID      string    `json:"room_id"`
	RoomName    string    `json:"room_name"`
	BookingDate string    `json:"booking_date"`
	FinalPrice  float64   `json:"final_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListFilters struct {
	Status *string
	From   *time.Time
	To     *time.Time
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filters ListFilters, limit int32) ([]*BookingListItem, error)
	ListBookedDates(ctx context.Context, roomID string, from, to time.Time) ([]time.Time, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filters ListFilters) ([]*BookingListItem, error)
	CheckAvailability(ctx context.Context, roomID string, year int, month time.Month) ([]string, error)
}

type bookingQueriesImpl struct {
	store   BookingReadStore
	roomDir shared.RoomDirectory
}

func NewBookingQueries(store BookingReadStore, roomDir shared.RoomDirectory) BookingQueries {
	return &bookingQueriesImpl{store: store, roomDir: roomDir}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Wrap(err, "failed to find booking")
	}

	if view.UserID != actorID && actorRole != user.RoleAdmin {
		return nil, errs.ErrForbidden
	}

	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, filters ListFilters) ([]*BookingListItem, error) {
	if filters.Status != nil && !booking.Status(*filters.Status).IsValid() {
		return nil, errs.ErrDomainValidation
	}

	items, err := q.store.ListForUser(ctx, userID, filters, MaxListLimit)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list user bookings")
	}
	return items, nil
}

// CheckAvailability returns the booked dates for a room over a calendar
// month, so callers can render the free slots.
func (q *bookingQueriesImpl) CheckAvailability(ctx context.Context, roomID string, year int, month time.Month) ([]string, error) {
	if _, err := booking.NewRoomID(roomID); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidRoomID)
	}
	if month < time.January || month > time.December || year < 1 {
		return nil, errs.ErrDomainValidation
	}

	if _, err := q.roomDir.FindRoom(ctx, roomID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRoomNotFound)
		}
		return nil, errs.Mark(err, errs.ErrUpstreamUnavailable)
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	dates, err := q.store.ListBookedDates(ctx, roomID, from, to)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list booked dates")
	}

	booked := make([]string, len(dates))
	for i, d := range dates {
		booked[i] = d.Format(booking.DateLayout)
	}
	return booked, nil
}

// FromDomain projects a booking entity into its read model.
func FromDomain(b *booking.Booking) *BookingView {
	pricing := b.Pricing()

	var note *string
	if !b.Note().IsEmpty() {
		v := b.Note().String()
		note = &v
	}

	return &BookingView{
		ID:                b.ID(),
		UserID:            b.UserID(),
		UserEmail:         b.UserEmail(),
		RoomID:            b.Room().ID.Value(),
		RoomName:          b.Room().Name,
		LocationID:        b.Location().ID,
		LocationName:      b.Location().Name,
		BookingDate:       b.Date().String(),
		BasePrice:         pricing.BasePrice,
		WeatherAdjustment: pricing.WeatherAdjustment,
		FinalPrice:        pricing.FinalPrice,
		ForecastedTemp:    pricing.ForecastedTemp,
		WeatherCondition:  pricing.Condition,
		UsedFallback:      pricing.UsedFallback,
		Status:            b.Status().String(),
		Note:              note,
		CreatedAt:         b.CreatedAt(),
		UpdatedAt:         b.UpdatedAt(),
	}
}
