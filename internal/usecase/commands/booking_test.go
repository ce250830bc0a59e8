//go:build unit

package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"confbook/internal/domain/booking"
	"confbook/internal/domain/room"
	"confbook/internal/domain/user"
	"confbook/internal/infra"
	"confbook/internal/pkg/clock"
	"confbook/internal/pkg/errs"
	"confbook/internal/usecase/commands"
	"confbook/internal/usecase/shared"
	"confbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	created      *booking.Booking
	createErr    error
	active       *booking.Booking
	activeErr    error
	found        *booking.Booking
	findErr      error
	saveErr      error
	savedStatus  *booking.Booking
	deletedCount int64
}

func (f *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = b
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, _ uuid.UUID) (*booking.Booking, error) {
	return f.found, f.findErr
}

func (f *fakeBookingRepo) FindActive(_ context.Context, _ string, _ booking.Date) (*booking.Booking, error) {
	return f.active, f.activeErr
}

func (f *fakeBookingRepo) SaveStatus(_ context.Context, b *booking.Booking) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedStatus = b
	return nil
}

func (f *fakeBookingRepo) DeleteAllForUser(_ context.Context, _ uuid.UUID) (int64, error) {
	return f.deletedCount, nil
}

type fakeRoomDir struct {
	room *room.Room
	err  error
	hits int
}

func (f *fakeRoomDir) FindRoom(_ context.Context, _ string) (*room.Room, error) {
	f.hits++
	return f.room, f.err
}

type fakeWeather struct {
	sample *booking.WeatherSample
	err    error
}

func (f *fakeWeather) Forecast(_ context.Context, _ string, _ time.Time) (*booking.WeatherSample, error) {
	return f.sample, f.err
}

type fakeDispatcher struct {
	events []shared.NotificationEvent
}

func (f *fakeDispatcher) Dispatch(event shared.NotificationEvent) {
	f.events = append(f.events, event)
}

type fixture struct {
	repo       *fakeBookingRepo
	roomDir    *fakeRoomDir
	weather    *fakeWeather
	dispatcher *fakeDispatcher
	commands   commands.BookingCommands
}

func newFixture(mutate func(*fixture)) *fixture {
	b := builder.NewBookingBuilder()
	f := &fixture{
		repo:       &fakeBookingRepo{},
		roomDir:    &fakeRoomDir{room: b.BuildRoom()},
		weather:    &fakeWeather{sample: b.BuildSample()},
		dispatcher: &fakeDispatcher{},
	}
	if mutate != nil {
		mutate(f)
	}
	f.commands = commands.NewBookingCommands(
		f.repo, f.roomDir, f.weather, f.dispatcher,
		booking.NewFactory(clock.NewMockClock(testNow)),
	)
	return f
}

func validInput() commands.CreateBookingInput {
	return commands.CreateBookingInput{
		UserID:    uuid.New(),
		UserEmail: "member@example.com",
		UserName:  "Alex Member",
		RoomID:    "room_1a2b",
		Date:      "2030-06-15",
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("success with weather pricing", func(t *testing.T) {
		f := newFixture(nil)
		in := validInput()

		view, err := f.commands.CreateBooking(context.Background(), in)
		require.NoError(t, err)
		require.NotNil(t, view)

		assert.Equal(t, "confirmed", view.Status)
		assert.Equal(t, 100.0, view.BasePrice)
		assert.Equal(t, 2.50, view.WeatherAdjustment)
		assert.Equal(t, 102.50, view.FinalPrice)
		assert.False(t, view.UsedFallback)
		assert.Equal(t, "Boardroom A", view.RoomName)
		assert.Equal(t, "London", view.LocationName)

		require.NotNil(t, f.repo.created)
		require.Len(t, f.dispatcher.events, 1)
		event := f.dispatcher.events[0]
		assert.Equal(t, shared.EventBookingCreated, event.EventType)
		assert.Equal(t, in.UserEmail, event.UserEmail)
		assert.Equal(t, "2030-06-15", event.Date)
		require.NotNil(t, event.BookingID)
		assert.Equal(t, view.ID, *event.BookingID)
	})

	t.Run("invalid room id", func(t *testing.T) {
		f := newFixture(nil)
		in := validInput()
		in.RoomID = "NOT VALID"

		_, err := f.commands.CreateBooking(context.Background(), in)
		require.ErrorIs(t, err, errs.ErrInvalidRoomID)
		assert.Zero(t, f.roomDir.hits)
	})

	t.Run("malformed date", func(t *testing.T) {
		f := newFixture(nil)
		in := validInput()
		in.Date = "15/06/2030"

		_, err := f.commands.CreateBooking(context.Background(), in)
		require.ErrorIs(t, err, errs.ErrInvalidBookingDate)
	})

	t.Run("past date", func(t *testing.T) {
		f := newFixture(nil)
		in := validInput()
		in.Date = "2030-05-20"

		_, err := f.commands.CreateBooking(context.Background(), in)
		require.ErrorIs(t, err, errs.ErrInvalidBookingDate)
		assert.Nil(t, f.repo.created)
		assert.Zero(t, f.roomDir.hits)
	})

	t.Run("past date rejected even when the slot is occupied", func(t *testing.T) {
		existing, buildErr := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, buildErr)
		f := newFixture(func(f *fixture) {
			f.repo.active = existing
		})
		in := validInput()
		in.Date = "2030-05-20"

		_, err := f.commands.CreateBooking(context.Background(), in)
		require.ErrorIs(t, err, errs.ErrInvalidBookingDate)
		assert.NotErrorIs(t, err, errs.ErrBookingConflict)
	})

	t.Run("past date rejected even when the room is unknown", func(t *testing.T) {
		f := newFixture(func(f *fixture) {
			f.roomDir.room = nil
			f.roomDir.err = infra.WrapRepoErr("room not found", errors.New("404"), infra.KindNotFound)
		})
		in := validInput()
		in.Date = "2030-05-20"

		_, err := f.commands.CreateBooking(context.Background(), in)
		require.ErrorIs(t, err, errs.ErrInvalidBookingDate)
		assert.NotErrorIs(t, err, errs.ErrRoomNotFound)
		assert.Zero(t, f.roomDir.hits)
	})

	t.Run("note too long", func(t *testing.T) {
		f := newFixture(nil)
		in := validInput()
		long := strings.Repeat("a", booking.MaxNoteLength+1)
		in.Note = &long

		_, err := f.commands.CreateBooking(context.Background(), in)
		require.ErrorIs(t, err, errs.ErrInvalidNote)
	})

	t.Run("room not found fails the request", func(t *testing.T) {
		f := newFixture(func(f *fixture) {
			f.roomDir.room = nil
			f.roomDir.err = infra.WrapRepoErr("room not found", errors.New("404"), infra.KindNotFound)
		})

		_, err := f.commands.CreateBooking(context.Background(), validInput())
		require.ErrorIs(t, err, errs.ErrRoomNotFound)
		assert.Nil(t, f.repo.created)
		assert.Empty(t, f.dispatcher.events)
	})

	t.Run("room directory outage fails the request", func(t *testing.T) {
		f := newFixture(func(f *fixture) {
			f.roomDir.room = nil
			f.roomDir.err = infra.WrapRepoErr("connection refused", errors.New("dial tcp"), infra.KindUpstream)
		})

		_, err := f.commands.CreateBooking(context.Background(), validInput())
		require.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
	})

	t.Run("directory-issued room id is recorded verbatim", func(t *testing.T) {
		legacy, buildErr := room.NewRoom("Legacy_Room-01", "Boardroom A", 12, 100.0, "loc_london", "London")
		require.NoError(t, buildErr)
		f := newFixture(func(f *fixture) {
			f.roomDir.room = legacy
		})

		view, err := f.commands.CreateBooking(context.Background(), validInput())
		require.NoError(t, err)
		assert.Equal(t, "Legacy_Room-01", view.RoomID)
	})

	t.Run("slot already taken", func(t *testing.T) {
		existing, buildErr := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, buildErr)
		f := newFixture(func(f *fixture) {
			f.repo.active = existing
		})

		_, err := f.commands.CreateBooking(context.Background(), validInput())
		require.ErrorIs(t, err, errs.ErrBookingConflict)
		assert.Nil(t, f.repo.created)
	})

	t.Run("concurrent insert loses to the storage constraint", func(t *testing.T) {
		f := newFixture(func(f *fixture) {
			f.repo.createErr = infra.WrapRepoErr("duplicate slot", errors.New("23505"), infra.KindConflict)
		})

		_, err := f.commands.CreateBooking(context.Background(), validInput())
		require.ErrorIs(t, err, errs.ErrBookingConflict)
		assert.Empty(t, f.dispatcher.events)
	})

	t.Run("weather outage degrades to fallback pricing", func(t *testing.T) {
		f := newFixture(func(f *fixture) {
			f.weather.sample = nil
			f.weather.err = errors.New("weather service timeout")
		})

		view, err := f.commands.CreateBooking(context.Background(), validInput())
		require.NoError(t, err)

		assert.True(t, view.UsedFallback)
		assert.Equal(t, 10.00, view.WeatherAdjustment)
		assert.Equal(t, 110.00, view.FinalPrice)
		assert.Nil(t, view.ForecastedTemp)
		require.Len(t, f.dispatcher.events, 1)
	})
}

func TestCancelBooking(t *testing.T) {
	newExisting := func(t *testing.T) *booking.Booking {
		t.Helper()
		entity, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		return entity
	}

	t.Run("owner cancels own booking", func(t *testing.T) {
		existing := newExisting(t)
		f := newFixture(func(f *fixture) { f.repo.found = existing })

		view, err := f.commands.CancelBooking(context.Background(), existing.UserID(), user.RoleMember, existing.ID())
		require.NoError(t, err)

		assert.Equal(t, "cancelled", view.Status)
		require.NotNil(t, f.repo.savedStatus)
		require.Len(t, f.dispatcher.events, 1)
		assert.Equal(t, shared.EventBookingCancelled, f.dispatcher.events[0].EventType)
	})

	t.Run("admin cancels another user's booking", func(t *testing.T) {
		existing := newExisting(t)
		f := newFixture(func(f *fixture) { f.repo.found = existing })

		view, err := f.commands.CancelBooking(context.Background(), uuid.New(), user.RoleAdmin, existing.ID())
		require.NoError(t, err)
		assert.Equal(t, "cancelled", view.Status)
	})

	t.Run("member cannot cancel another user's booking", func(t *testing.T) {
		existing := newExisting(t)
		f := newFixture(func(f *fixture) { f.repo.found = existing })

		_, err := f.commands.CancelBooking(context.Background(), uuid.New(), user.RoleMember, existing.ID())
		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Nil(t, f.repo.savedStatus)
		assert.Empty(t, f.dispatcher.events)
	})

	t.Run("booking not found", func(t *testing.T) {
		f := newFixture(func(f *fixture) {
			f.repo.findErr = infra.WrapRepoErr("not found", errors.New("no rows"), infra.KindNotFound)
		})

		_, err := f.commands.CancelBooking(context.Background(), uuid.New(), user.RoleMember, uuid.New())
		require.ErrorIs(t, err, errs.ErrBookingNotFound)
	})

	t.Run("already cancelled", func(t *testing.T) {
		existing := newExisting(t)
		require.NoError(t, existing.Cancel(testNow))
		f := newFixture(func(f *fixture) { f.repo.found = existing })

		_, err := f.commands.CancelBooking(context.Background(), existing.UserID(), user.RoleMember, existing.ID())
		require.ErrorIs(t, err, errs.ErrInvalidBookingState)
	})

	t.Run("concurrent cancel loses the status guard", func(t *testing.T) {
		existing := newExisting(t)
		f := newFixture(func(f *fixture) {
			f.repo.found = existing
			f.repo.saveErr = infra.WrapRepoErr("no rows updated", errors.New("stale status"), infra.KindConflict)
		})

		_, err := f.commands.CancelBooking(context.Background(), existing.UserID(), user.RoleMember, existing.ID())
		require.ErrorIs(t, err, errs.ErrInvalidBookingState)
		assert.Empty(t, f.dispatcher.events)
	})
}
