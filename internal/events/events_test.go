package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishJSONReachesSubscribers(t *testing.T) {
	bus := NewEventBus()

	var got []ReservationEventPayload
	bus.Subscribe(EventReservationConfirmed, func(e *Event) error {
		var p ReservationEventPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		got = append(got, p)
		return nil
	})

	err := bus.PublishJSON(EventReservationConfirmed, ReservationEventPayload{
		BookingID: 4242,
		Group:     "Sports Halls",
		Regime:    "open",
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, int64(4242), got[0].BookingID)
	assert.Equal(t, "Sports Halls", got[0].Group)
}

func TestPublishOnlyMatchingType(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	bus.Subscribe(EventReservationFailed, func(e *Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.PublishJSON(EventReservationCreated, ReservationEventPayload{Group: "g"}))
	assert.Zero(t, calls)

	require.NoError(t, bus.PublishJSON(EventReservationFailed, ReservationEventPayload{Group: "g"}))
	assert.Equal(t, 1, calls)
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventReservationCreated, nil))
}
