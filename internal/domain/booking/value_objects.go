package booking

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidRoomID    = errors.New("invalid room id")
	ErrInvalidDate      = errors.New("invalid booking date")
	ErrDateInPast       = errors.New("booking date is in the past")
	ErrNoteTooLong      = errors.New("note exceeds maximum length")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrBookingDatePast  = errors.New("booking date has already passed")
)

const (
	DateLayout    = "2006-01-02"
	MaxNoteLength = 500
)

// Room and location identifiers are issued by the room directory service
// (e.g. "room_1a2b", "loc_london"), not by this service.
var roomIDRegex = regexp.MustCompile(`^[a-z0-9_\-]{1,64}$`)

type RoomID struct {
	value string
}

func NewRoomID(s string) (RoomID, error) {
	s = strings.TrimSpace(s)
	if !roomIDRegex.MatchString(s) {
		return RoomID{}, ErrInvalidRoomID
	}
	return RoomID{value: s}, nil
}

func (r RoomID) Value() string {
	return r.value
}

// Date is a calendar day; the unit of allocation is a whole day, so any
// time-of-day component is normalized away.
type Date struct {
	value time.Time
}

func NewDate(t time.Time) Date {
	return Date{value: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return NewDate(t), nil
}

func (d Date) Time() time.Time {
	return d.value
}

func (d Date) String() string {
	return d.value.Format(DateLayout)
}

// Before compares against an arbitrary instant by normalizing it to its day.
func (d Date) Before(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return d.value.Before(day)
}

func (d Date) Equal(other Date) bool {
	return d.value.Equal(other.value)
}

type Note struct {
	value string
}

func NewNote(s string) (Note, error) {
	s = strings.TrimSpace(s)
	if len(s) > MaxNoteLength {
		return Note{}, ErrNoteTooLong
	}
	return Note{value: s}, nil
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
