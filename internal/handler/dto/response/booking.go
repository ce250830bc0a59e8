package response

import (
	"time"

	"confbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
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

type BookingListResponse struct {
	ID          uuid.UUID `json:"id"`
	RoomID      string    `json:"room_id"`
	RoomName    string    `json:"room_name"`
	BookingDate string    `json:"booking_date"`
	FinalPrice  float64   `json:"final_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type AvailabilityResponse struct {
	RoomID      string   `json:"room_id"`
	Year        int      `json:"year"`
	Month       int      `json:"month"`
	BookedDates []string `json:"booked_dates"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	var resp BookingListResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}
