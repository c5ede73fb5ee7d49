package booking

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"gymbook/internal/catalog"
	"gymbook/internal/config"
	"gymbook/internal/events"
	"gymbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway simulates the remote API with scriptable catalog data and a
// mutable booking list. When confirmOnSubmit is set, accepted submissions
// show up in the booking list, as the real remote does.
type fakeGateway struct {
	calls map[string]int

	groups    models.GroupCatalog
	locations map[string][]models.Location
	schedules map[string][]models.ScheduleDay
	stubs     map[string][]models.Product
	details   map[string]models.Product
	slots     map[string][]models.Slot

	bookings        []models.Booking
	nextBookingID   int64
	confirmOnSubmit bool

	addBookingIDs   []string
	addReservations []models.Slot
}

func (f *fakeGateway) count(op string) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

func (f *fakeGateway) CheckVersion(ctx context.Context) error {
	f.count("checkVersion")
	return nil
}

func (f *fakeGateway) LogIn(ctx context.Context) (*models.User, error) {
	f.count("logIn")
	return &models.User{ID: "u1"}, nil
}

func (f *fakeGateway) OnlineGroups(ctx context.Context) (*models.GroupCatalog, error) {
	f.count("onlineGroups")
	cat := f.groups
	return &cat, nil
}

func (f *fakeGateway) UniqueLocations(ctx context.Context, group string) ([]models.Location, error) {
	f.count("uniqueLocations")
	return f.locations[group], nil
}

func (f *fakeGateway) Schedule(ctx context.Context, group, siteID string) ([]models.ScheduleDay, error) {
	f.count("schedule")
	return f.schedules[group+"|"+siteID], nil
}

func (f *fakeGateway) ProductsByGroup(ctx context.Context, group string, siteID int) ([]models.Product, error) {
	f.count("getProductsByOnlineGroup")
	return f.stubs[group], nil
}

func (f *fakeGateway) ProductByID(ctx context.Context, productID string) (*models.Product, error) {
	f.count("getProductById")
	p, ok := f.details[productID]
	if !ok {
		return nil, errors.New("no such product")
	}
	return &p, nil
}

func (f *fakeGateway) AvailableSlots(ctx context.Context, productID string, date time.Time) ([]models.Slot, error) {
	f.count("getAvailableSlots")
	return f.slots[productID], nil
}

func (f *fakeGateway) AddReservationBooking(ctx context.Context, slot models.Slot, product models.Product) (int64, error) {
	f.count("addReservationBooking")
	f.addReservations = append(f.addReservations, slot)
	id := f.nextBookingID
	if f.confirmOnSubmit {
		f.bookings = append(f.bookings, models.Booking{
			ID:          strconv.FormatInt(id, 10),
			Description: product.Description,
			StartDate:   slot.StartDate,
		})
	}
	return id, nil
}

func (f *fakeGateway) AddBooking(ctx context.Context, bookingID string) error {
	f.count("addBooking")
	f.addBookingIDs = append(f.addBookingIDs, bookingID)
	if f.confirmOnSubmit {
		f.bookings = append(f.bookings, models.Booking{ID: bookingID, StartTime: "10:00"})
	}
	return nil
}

func (f *fakeGateway) MyBookings(ctx context.Context) ([]models.Booking, error) {
	f.count("myBookings")
	return append([]models.Booking(nil), f.bookings...), nil
}

func (f *fakeGateway) CancelBooking(ctx context.Context, bookingID string) error {
	f.count("cancelReservationBooking")
	kept := f.bookings[:0]
	for _, b := range f.bookings {
		if b.ID != bookingID {
			kept = append(kept, b)
		}
	}
	f.bookings = kept
	return nil
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		groups: models.GroupCatalog{
			Scheduled: []models.Group{{OnlineGroup: "Fitness Time-Slots"}},
			Open:      []models.Group{{OnlineGroup: "Sports Halls"}},
		},
		locations: map[string][]models.Location{
			"Fitness Time-Slots": {{SiteID: "2", Description: "X TU Delft"}},
		},
		schedules: map[string][]models.ScheduleDay{
			"Fitness Time-Slots|2": {
				{
					Day: "19-11-2021",
					Slots: []models.ScheduledSlot{
						{BookingID: "555", StartDate: "2021-11-19 10:00:00", Description: "Fitness"},
						{BookingID: "556", StartDate: "2021-11-19 18:00:00", Description: "Fitness"},
					},
				},
				{
					Day: "19-12-2021",
					Slots: []models.ScheduledSlot{
						{BookingID: "777", StartDate: "2021-12-19 10:00:00", Description: "Fitness"},
					},
				},
			},
		},
		stubs: map[string][]models.Product{
			"Sports Halls": {{ID: "p1", Description: "X2 A - Time-Slots"}},
		},
		details: map[string]models.Product{
			"p1": {ID: "p1", Description: "X2 A - Time-Slots", Price: "12.50"},
		},
		slots: map[string][]models.Slot{
			"p1": {{StartDate: "2021-12-05 08:00", EndDate: "2021-12-05 09:00"}},
		},
		nextBookingID:   4242,
		confirmOnSubmit: true,
	}
}

func newTestClient(gw *fakeGateway, bus *events.EventBus) *Client {
	cat := catalog.New(gw, nil)
	return New(gw, cat, bus, config.BookingConfig{DefaultSite: "X TU Delft", ScheduleDays: 365}, nil)
}

func TestReserveUnknownGroup(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	_, err := c.Reserve(context.Background(), Request{
		Group: "Underwater Hockey",
		Start: time.Date(2021, 11, 19, 10, 0, 0, 0, time.Local),
	})

	var notFound *GroupNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Underwater Hockey", notFound.Group)
	assert.Zero(t, gw.calls["addBooking"])
	assert.Zero(t, gw.calls["addReservationBooking"])
}

func TestReserveScheduledSlot(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	booking, err := c.Reserve(context.Background(), Request{
		Group: "Fitness Time-Slots",
		Start: time.Date(2021, 11, 19, 10, 0, 0, 0, time.Local),
	})
	require.NoError(t, err)

	require.Equal(t, []string{"555"}, gw.addBookingIDs)
	assert.Equal(t, "555", booking.ID, "returned booking id equals the submitted slot id")
	assert.Equal(t, "10:00", booking.StartTime)
}

func TestReserveScheduledExplicitSite(t *testing.T) {
	gw := newFakeGateway()
	gw.locations["Fitness Time-Slots"] = append(gw.locations["Fitness Time-Slots"],
		models.Location{SiteID: "9", Description: "X Annex"})
	gw.schedules["Fitness Time-Slots|9"] = []models.ScheduleDay{
		{Day: "19-11-2021", Slots: []models.ScheduledSlot{
			{BookingID: "901", StartDate: "2021-11-19 10:00:00"},
		}},
	}
	c := newTestClient(gw, nil)

	booking, err := c.Reserve(context.Background(), Request{
		Group: "Fitness Time-Slots",
		Start: time.Date(2021, 11, 19, 10, 0, 0, 0, time.Local),
		Site:  "X Annex",
	})
	require.NoError(t, err)
	assert.Equal(t, "901", booking.ID)
}

func TestReserveScheduledUnknownSite(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	_, err := c.Reserve(context.Background(), Request{
		Group: "Fitness Time-Slots",
		Start: time.Date(2021, 11, 19, 10, 0, 0, 0, time.Local),
		Site:  "Nowhere",
	})

	var notFound *LocationNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Nowhere", notFound.Site)
}

func TestReserveScheduledDayNotFound(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	_, err := c.Reserve(context.Background(), Request{
		Group: "Fitness Time-Slots",
		Start: time.Date(2021, 11, 20, 10, 0, 0, 0, time.Local),
	})

	var notFound *DayNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "20-11-2021", notFound.Day)
}

func TestScheduledSlotMatchesFullTimestamp(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	// Slots exist on the requested day but at other times; matching on
	// day-of-month alone would wrongly accept one of them.
	_, err := c.Reserve(context.Background(), Request{
		Group: "Fitness Time-Slots",
		Start: time.Date(2021, 11, 19, 9, 30, 0, 0, time.Local),
	})

	var notFound *SlotNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Zero(t, gw.calls["addBooking"])
}

func TestReserveOpenSlot(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	booking, err := c.Reserve(context.Background(), Request{
		Group:       "Sports Halls",
		Start:       time.Date(2021, 12, 5, 8, 0, 0, 0, time.Local),
		Description: "X2 A - Time-Slots",
	})
	require.NoError(t, err)

	assert.Equal(t, "4242", booking.ID, "returned id equals the addReservationBooking result")
	assert.Equal(t, 1, gw.calls["addReservationBooking"])
}

func TestReserveOpenNoSlotAtTime(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	_, err := c.Reserve(context.Background(), Request{
		Group:       "Sports Halls",
		Start:       time.Date(2021, 12, 5, 9, 0, 0, 0, time.Local),
		Description: "X2 A - Time-Slots",
	})

	var notFound *SlotNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Zero(t, gw.calls["addReservationBooking"], "no reservation submitted")
}

func TestReserveOpenUnknownProduct(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	_, err := c.Reserve(context.Background(), Request{
		Group:       "Sports Halls",
		Start:       time.Date(2021, 12, 5, 8, 0, 0, 0, time.Local),
		Description: "X9 Z - Time-Slots",
	})

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "X9 Z - Time-Slots", notFound.Description)
}

func TestReserveOpenRequiresDescription(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	_, err := c.Reserve(context.Background(), Request{
		Group: "Sports Halls",
		Start: time.Date(2021, 12, 5, 8, 0, 0, 0, time.Local),
	})

	require.ErrorIs(t, err, ErrDescriptionRequired)
	assert.Zero(t, gw.calls["getProductsByOnlineGroup"], "no open-group lookup issued")
}

func TestMissingPriceRejectedLocally(t *testing.T) {
	gw := newFakeGateway()
	gw.details["p1"] = models.Product{ID: "p1", Description: "X2 A - Time-Slots"}
	c := newTestClient(gw, nil)

	_, err := c.Reserve(context.Background(), Request{
		Group:       "Sports Halls",
		Start:       time.Date(2021, 12, 5, 8, 0, 0, 0, time.Local),
		Description: "X2 A - Time-Slots",
	})

	var missing *MissingPriceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "p1", missing.ProductID)
	assert.Zero(t, gw.calls["addReservationBooking"], "rejected before the network call")
}

func TestBookingNotConfirmed(t *testing.T) {
	gw := newFakeGateway()
	gw.confirmOnSubmit = false
	c := newTestClient(gw, nil)

	_, err := c.Reserve(context.Background(), Request{
		Group:       "Sports Halls",
		Start:       time.Date(2021, 12, 5, 8, 0, 0, 0, time.Local),
		Description: "X2 A - Time-Slots",
	})

	var unconfirmed *BookingNotConfirmedError
	require.ErrorAs(t, err, &unconfirmed)
	assert.Equal(t, int64(4242), unconfirmed.BookingID)
	assert.Equal(t, 1, gw.calls["addReservationBooking"], "submission did happen")
}

func TestGroupCatalogCachedScheduleVolatile(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	for i := 0; i < 2; i++ {
		_, err := c.Reserve(context.Background(), Request{
			Group: "Fitness Time-Slots",
			Start: time.Date(2021, 11, 19, 10, 0, 0, 0, time.Local),
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, gw.calls["onlineGroups"], "group catalog fetched once")
	assert.Equal(t, 1, gw.calls["uniqueLocations"], "locations fetched once")
	assert.Equal(t, 2, gw.calls["schedule"], "schedule refetched per resolution")
}

func TestPrepareExecuteSkipsResolution(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	reservation, err := c.Prepare(context.Background(), Request{
		Group:       "Sports Halls",
		Start:       time.Date(2021, 12, 5, 8, 0, 0, 0, time.Local),
		Description: "X2 A - Time-Slots",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RegimeOpen, reservation.Regime())
	assert.Zero(t, gw.calls["addReservationBooking"], "prepare does not submit")

	gw.calls = nil
	booking, err := c.Execute(context.Background(), reservation)
	require.NoError(t, err)
	assert.Equal(t, "4242", booking.ID)

	assert.Zero(t, gw.calls["onlineGroups"])
	assert.Zero(t, gw.calls["getProductsByOnlineGroup"])
	assert.Zero(t, gw.calls["getAvailableSlots"], "execute must not re-resolve")
	assert.Equal(t, 1, gw.calls["addReservationBooking"])
}

func TestPreparedReservationSurvivesJSON(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	reservation, err := c.Prepare(context.Background(), Request{
		Group:       "Sports Halls",
		Start:       time.Date(2021, 12, 5, 8, 0, 0, 0, time.Local),
		Description: "X2 A - Time-Slots",
	})
	require.NoError(t, err)

	raw, err := json.Marshal(reservation)
	require.NoError(t, err)

	var restored OpenReservation
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, "p1", restored.Product.ID)
	assert.Equal(t, "2021-12-05 08:00", restored.Slot.StartDate)
}

func TestCheckBookingIdempotent(t *testing.T) {
	gw := newFakeGateway()
	gw.bookings = []models.Booking{{ID: "100"}}
	c := newTestClient(gw, nil)

	first, err := c.CheckBooking(context.Background(), 100)
	require.NoError(t, err)
	second, err := c.CheckBooking(context.Background(), 100)
	require.NoError(t, err)

	assert.True(t, first)
	assert.Equal(t, first, second)

	absent, err := c.CheckBooking(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, absent)
}

func TestFindBookingMissingRecord(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	_, err := c.FindBooking(context.Background(), 31337)

	var missing *BookingRecordMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, int64(31337), missing.BookingID)
}

func TestCancelRemovesBooking(t *testing.T) {
	gw := newFakeGateway()
	gw.bookings = []models.Booking{{ID: "100"}}
	bus := events.NewEventBus()

	cancelled := 0
	bus.Subscribe(events.EventReservationCancelled, func(e *events.Event) error {
		cancelled++
		return nil
	})

	c := newTestClient(gw, bus)
	require.NoError(t, c.Cancel(context.Background(), 100))

	present, err := c.CheckBooking(context.Background(), 100)
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, 1, cancelled)
}

func TestLifecycleEvents(t *testing.T) {
	gw := newFakeGateway()
	bus := events.NewEventBus()

	var sequence []string
	record := func(name string) events.EventHandler {
		return func(e *events.Event) error {
			sequence = append(sequence, name)
			return nil
		}
	}
	bus.Subscribe(events.EventReservationCreated, record("created"))
	bus.Subscribe(events.EventReservationConfirmed, record("confirmed"))
	bus.Subscribe(events.EventReservationFailed, record("failed"))

	c := newTestClient(gw, bus)
	_, err := c.Reserve(context.Background(), Request{
		Group:       "Sports Halls",
		Start:       time.Date(2021, 12, 5, 8, 0, 0, 0, time.Local),
		Description: "X2 A - Time-Slots",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"created", "confirmed"}, sequence)
}

func TestResetAndIsInitialized(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw, nil)

	assert.False(t, c.IsInitialized())

	_, err := c.ResolveGroup(context.Background(), "Sports Halls")
	require.NoError(t, err)
	assert.True(t, c.IsInitialized())

	c.Reset()
	assert.False(t, c.IsInitialized())
}
