package commands

import (
	"context"
	"log/slog"

	"confbook/internal/domain/booking"
	"confbook/internal/domain/user"
	"confbook/internal/infra"
	"confbook/internal/infra/metrics"
	"confbook/internal/pkg/errs"
	"confbook/internal/usecase/queries"
	"confbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingInput struct {
	UserID    uuid.UUID
	UserEmail string
	UserName  string
	RoomID    string
	Date      string
	Note      *string
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*queries.BookingView, error)
	CancelBooking(ctx context.Context, actorID uuid.UUID, actorRole user.Role, bookingID uuid.UUID) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	bookingRepo BookingRepository
	roomDir     shared.RoomDirectory
	weather     shared.WeatherProvider
	dispatcher  shared.NotificationDispatcher
	factory     *booking.Factory
}

func NewBookingCommands(
	bookingRepo BookingRepository,
	roomDir shared.RoomDirectory,
	weather shared.WeatherProvider,
	dispatcher shared.NotificationDispatcher,
	factory *booking.Factory,
) BookingCommands {
	return &bookingCommandsImpl{
		bookingRepo: bookingRepo,
		roomDir:     roomDir,
		weather:     weather,
		dispatcher:  dispatcher,
		factory:     factory,
	}
}

// CreateBooking runs the booking workflow: validate, resolve the room,
// check the slot, look up the forecast, price, persist, then notify.
//
// The room directory is mandatory — its failure fails the request. The
// weather lookup and the notification are best-effort and can never fail
// a booking.
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, in CreateBookingInput) (*queries.BookingView, error) {
	roomID, err := booking.NewRoomID(in.RoomID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidRoomID)
	}

	date, err := booking.ParseDate(in.Date)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidBookingDate)
	}
	// A past date is rejected before any lookup so the caller always sees a
	// validation error, never a conflict or a missing room.
	if date.Before(c.factory.Clock.Now()) {
		return nil, errs.Mark(booking.ErrDateInPast, errs.ErrInvalidBookingDate)
	}

	note, err := booking.NewNote(derefOrEmpty(in.Note))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidNote)
	}

	rm, err := c.roomDir.FindRoom(ctx, roomID.Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrRoomNotFound)
		}
		return nil, errs.Mark(err, errs.ErrUpstreamUnavailable)
	}

	// Advisory pre-check for a friendly error; the insert below is what
	// actually guarantees the slot under concurrency.
	existing, err := c.bookingRepo.FindActive(ctx, roomID.Value(), date)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if existing != nil {
		return nil, errs.ErrBookingConflict
	}

	sample := c.lookupWeather(ctx, rm.LocationID(), date)

	entity, err := c.factory.CreateBooking(in.UserID, in.UserEmail, rm, date, sample, note)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidBookingDate)
	}

	if err := c.bookingRepo.Create(ctx, entity); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrBookingConflict)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	metrics.IncBookingCreated(entity.Status().String())

	bookingID := entity.ID()
	c.dispatcher.Dispatch(shared.NotificationEvent{
		BookingID:    &bookingID,
		UserEmail:    in.UserEmail,
		UserName:     in.UserName,
		RoomName:     rm.Name(),
		LocationName: rm.LocationName(),
		Date:         date.String(),
		EventType:    shared.EventBookingCreated,
	})

	return queries.FromDomain(entity), nil
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, actorID uuid.UUID, actorRole user.Role, bookingID uuid.UUID) (*queries.BookingView, error) {
	entity, err := c.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if !entity.IsOwnedBy(actorID) && actorRole != user.RoleAdmin {
		return nil, errs.ErrForbidden
	}

	if err := entity.Cancel(c.factory.Clock.Now()); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidBookingState)
	}

	if err := c.bookingRepo.SaveStatus(ctx, entity); err != nil {
		// A concurrent cancel got there first.
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrInvalidBookingState)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	metrics.IncBookingCancelled()

	id := entity.ID()
	c.dispatcher.Dispatch(shared.NotificationEvent{
		BookingID:    &id,
		UserEmail:    entity.UserEmail(),
		RoomName:     entity.Room().Name,
		LocationName: entity.Location().Name,
		Date:         entity.Date().String(),
		EventType:    shared.EventBookingCancelled,
	})

	return queries.FromDomain(entity), nil
}

// lookupWeather degrades to nil on any failure; the pricing engine then
// applies the fallback surcharge instead.
func (c *bookingCommandsImpl) lookupWeather(ctx context.Context, locationID string, date booking.Date) *booking.WeatherSample {
	sample, err := c.weather.Forecast(ctx, locationID, date.Time())
	if err != nil {
		slog.Warn("weather lookup failed, falling back to surcharge pricing",
			"location_id", locationID, "date", date.String(), "error", err.Error())
		metrics.IncWeatherFallback()
		return nil
	}
	return sample
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
