//go:build unit

package builder

import (
	"time"

	dombooking "confbook/internal/domain/booking"
	"confbook/internal/domain/room"
	reqdto "confbook/internal/handler/dto/request"
	"confbook/internal/pkg/clock"
	"confbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	UserID       uuid.UUID
	UserEmail    string
	RoomID       string
	RoomName     string
	Capacity     int
	BasePrice    float64
	LocationID   string
	LocationName string
	Date         string
	Temperature  *float64
	Condition    string
	Note         string
	Now          time.Time
}

func NewBookingBuilder() *BookingBuilder {
	temp := 26.0
	return &BookingBuilder{
		UserID:       uuid.New(),
		UserEmail:    "member@example.com",
		RoomID:       "room_1a2b",
		RoomName:     "Boardroom A",
		Capacity:     12,
		BasePrice:    100.0,
		LocationID:   "loc_london",
		LocationName: "London",
		Date:         "2030-06-15",
		Temperature:  &temp,
		Condition:    "sunny",
		Note:         "",
		Now:          time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildRoom() *room.Room {
	rm, err := room.NewRoom(b.RoomID, b.RoomName, b.Capacity, b.BasePrice, b.LocationID, b.LocationName)
	if err != nil {
		panic(err)
	}
	return rm
}

func (b *BookingBuilder) BuildSample() *dombooking.WeatherSample {
	if b.Temperature == nil {
		return nil
	}
	return &dombooking.WeatherSample{Temperature: *b.Temperature, Condition: b.Condition}
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	factory := dombooking.NewFactory(clock.NewMockClock(b.Now))

	date, err := dombooking.ParseDate(b.Date)
	if err != nil {
		return nil, err
	}
	note, err := dombooking.NewNote(b.Note)
	if err != nil {
		return nil, err
	}

	return factory.CreateBooking(b.UserID, b.UserEmail, b.BuildRoom(), date, b.BuildSample(), note)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	var note *string
	if b.Note != "" {
		note = &b.Note
	}
	return reqdto.CreateBookingRequest{
		RoomID:      b.RoomID,
		BookingDate: b.Date,
		Note:        note,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	entity, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return queries.FromDomain(entity)
}
