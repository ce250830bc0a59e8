package booking

import (
	"confbook/internal/domain/room"
	"confbook/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock clock.Clock
}

func NewFactory(c clock.Clock) *Factory {
	return &Factory{Clock: c}
}

// CreateBooking builds a confirmed booking from the room directory snapshot
// and an optional weather sample. The pricing breakdown is fixed here and
// never recomputed.
func (f *Factory) CreateBooking(
	userID uuid.UUID,
	userEmail string,
	rm *room.Room,
	date Date,
	sample *WeatherSample,
	note Note,
) (*Booking, error) {
	now := f.Clock.Now()
	if date.Before(now) {
		return nil, ErrDateInPast
	}

	// The directory's id is recorded as issued; only request-supplied ids
	// go through NewRoomID.
	return &Booking{
		id:        uuid.New(),
		userID:    userID,
		userEmail: userEmail,
		room:      RoomRef{ID: RoomID{value: rm.ID()}, Name: rm.Name()},
		location:  LocationRef{ID: rm.LocationID(), Name: rm.LocationName()},
		date:      date,
		pricing:   Quote(rm.BasePrice(), sample),
		status:    StatusConfirmed,
		note:      note,
		createdAt: now,
		updatedAt: now,
	}, nil
}
