package shared

import (
	"context"
	"time"

	"confbook/internal/domain/booking"
	"confbook/internal/domain/room"

	"github.com/google/uuid"
)

// RoomDirectory is the mandatory upstream that owns room and location data.
// Implementations report misses as NOT_FOUND repository errors and transport
// failures as UPSTREAM_FAILURE.
type RoomDirectory interface {
	FindRoom(ctx context.Context, roomID string) (*room.Room, error)
}

// WeatherProvider is the best-effort upstream for forecast-based pricing.
// Callers must treat any error as "no weather data".
type WeatherProvider interface {
	Forecast(ctx context.Context, locationID string, date time.Time) (*booking.WeatherSample, error)
}

type EventType string

const (
	EventBookingCreated   EventType = "BOOKING_CREATED"
	EventBookingCancelled EventType = "BOOKING_CANCELLED"
	EventUserRegistered   EventType = "USER_REGISTERED"
	EventAccountDeleted   EventType = "ACCOUNT_DELETED"
)

// NotificationEvent mirrors the payload the email worker consumes.
type NotificationEvent struct {
	BookingID    *uuid.UUID `json:"bookingId,omitempty"`
	UserEmail    string     `json:"userEmail"`
	UserName     string     `json:"userName,omitempty"`
	RoomName     string     `json:"roomName,omitempty"`
	LocationName string     `json:"locationName,omitempty"`
	Date         string     `json:"date,omitempty"`
	EventType    EventType  `json:"eventType"`
}

// NotificationDispatcher hands an event off for asynchronous delivery.
// Dispatch never blocks the caller and never reports an error: a booking
// that fails to notify is still a valid booking.
type NotificationDispatcher interface {
	Dispatch(event NotificationEvent)
}
