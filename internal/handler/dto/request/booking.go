package request

import "strings"

type CreateBookingRequest struct {
	RoomID      string  `json:"room_id" binding:"required"`
	BookingDate string  `json:"booking_date" binding:"required"`
	Note        *string `json:"note,omitempty"`
}

func (r CreateBookingRequest) GetNote() *string {
	if r.Note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.Note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type ListBookingsQuery struct {
	Status *string `form:"status"`
	From   *string `form:"from"`
	To     *string `form:"to"`
}

type AvailabilityQuery struct {
	Year  int `form:"year" binding:"required"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}
