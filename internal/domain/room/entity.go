package room

import "errors"

var ErrInvalidRoom = errors.New("invalid room data")

// Room is a read-only projection of the room directory service's record.
// This service never creates or mutates rooms.
type Room struct {
	id           string
	name         string
	capacity     int
	basePrice    float64
	locationID   string
	locationName string
}

func NewRoom(id, name string, capacity int, basePrice float64, locationID, locationName string) (*Room, error) {
	if id == "" || name == "" || basePrice < 0 {
		return nil, ErrInvalidRoom
	}
	return &Room{
		id:           id,
		name:         name,
		capacity:     capacity,
		basePrice:    basePrice,
		locationID:   locationID,
		locationName: locationName,
	}, nil
}

func (r *Room) ID() string           { return r.id }
func (r *Room) Name() string         { return r.name }
func (r *Room) Capacity() int        { return r.capacity }
func (r *Room) BasePrice() float64   { return r.basePrice }
func (r *Room) LocationID() string   { return r.locationID }
func (r *Room) LocationName() string { return r.locationName }
