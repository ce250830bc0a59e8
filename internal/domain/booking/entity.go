package booking

import (
	"time"

	"github.com/google/uuid"
)

// RoomRef and LocationRef are snapshots of room directory data taken at
// creation time, not live foreign keys into another service.
type RoomRef struct {
	ID   RoomID
	Name string
}

type LocationRef struct {
	ID   string
	Name string
}

type Booking struct {
	id        uuid.UUID
	userID    uuid.UUID
	userEmail string
	room      RoomRef
	location  LocationRef
	date      Date
	pricing   PriceQuote
	status    Status
	note      Note
	createdAt time.Time
	updatedAt time.Time
}

func ReconstructBooking(
	id, userID uuid.UUID,
	userEmail string,
	room RoomRef,
	location LocationRef,
	date Date,
	pricing PriceQuote,
	status Status,
	note Note,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		userID:    userID,
		userEmail: userEmail,
		room:      room,
		location:  location,
		date:      date,
		pricing:   pricing,
		status:    status,
		note:      note,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) UserID() uuid.UUID     { return b.userID }
func (b *Booking) UserEmail() string     { return b.userEmail }
func (b *Booking) Room() RoomRef         { return b.room }
func (b *Booking) Location() LocationRef { return b.location }
func (b *Booking) Date() Date            { return b.date }
func (b *Booking) Pricing() PriceQuote   { return b.pricing }
func (b *Booking) Status() Status        { return b.status }
func (b *Booking) Note() Note            { return b.note }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }

func (b *Booking) IsActive() bool {
	return b.status.IsActive()
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

// Cancel transitions the booking to cancelled. Cancelled is terminal and a
// booking whose date has passed can no longer be cancelled.
func (b *Booking) Cancel(now time.Time) error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if b.date.Before(now) {
		return ErrBookingDatePast
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}
