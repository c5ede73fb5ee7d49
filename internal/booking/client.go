// Package booking implements the reservation engine: group classification,
// slot resolution against the live schedule, reservation submission and the
// confirmation check against the authoritative booking list.
package booking

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gymbook/internal/catalog"
	"gymbook/internal/config"
	"gymbook/internal/domain"
	"gymbook/internal/events"
	"gymbook/internal/metrics"
	"gymbook/internal/models"

	"github.com/rs/zerolog"
)

// Request names what to book. Start is the wanted slot start time at minute
// precision. Description selects the product of an open group and is required
// there; Site overrides the configured default site for scheduled groups.
type Request struct {
	Group       string
	Start       time.Time
	Description string
	Site        string
}

// Client orchestrates reservations over one logical session. It is not safe
// for concurrent use; each instance serves a single account.
type Client struct {
	gw          domain.Gateway
	catalog     *catalog.Catalog
	events      domain.EventPublisher
	logger      *zerolog.Logger
	defaultSite string
}

func New(gw domain.Gateway, cat *catalog.Catalog, bus domain.EventPublisher, cfg config.BookingConfig, logger *zerolog.Logger) *Client {
	return &Client{
		gw:          gw,
		catalog:     cat,
		events:      bus,
		logger:      logger,
		defaultSite: cfg.DefaultSite,
	}
}

// ResolveGroup classifies a group name into its booking regime.
func (c *Client) ResolveGroup(ctx context.Context, name string) (models.Regime, error) {
	regime, ok, err := c.catalog.GroupRegime(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &GroupNotFoundError{Group: name}
	}
	return regime, nil
}

// Reserve resolves and immediately commits a reservation, returning the
// authoritative booking record.
func (c *Client) Reserve(ctx context.Context, req Request) (*models.Booking, error) {
	reservation, err := c.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.Execute(ctx, reservation)
}

// Prepare runs the lookup chain and returns the frozen reservation intent
// without submitting it. The result can be executed later; the underlying
// slot may be taken in the meantime, which Execute surfaces as a failure.
func (c *Client) Prepare(ctx context.Context, req Request) (Reservation, error) {
	regime, err := c.ResolveGroup(ctx, req.Group)
	if err != nil {
		return nil, err
	}

	switch regime {
	case models.RegimeScheduled:
		return c.resolveScheduled(ctx, req)
	case models.RegimeOpen:
		if req.Description == "" {
			return nil, ErrDescriptionRequired
		}
		return c.resolveOpen(ctx, req)
	default:
		return nil, fmt.Errorf("unknown regime %q for group %q", regime, req.Group)
	}
}

// Execute submits a prepared reservation and verifies it landed. The remote
// reporting success is not enough: the booking must show up in the booking
// list, otherwise the call fails even though the submission went through.
func (c *Client) Execute(ctx context.Context, reservation Reservation) (*models.Booking, error) {
	regime := string(reservation.Regime())

	bookingID, err := c.submit(ctx, reservation)
	if err != nil {
		metrics.IncReservation(regime, "failed")
		c.publish(events.EventReservationFailed, reservation, bookingID, err)
		return nil, err
	}
	c.publish(events.EventReservationCreated, reservation, bookingID, nil)

	confirmed, err := c.CheckBooking(ctx, bookingID)
	if err != nil {
		metrics.IncReservation(regime, "failed")
		c.publish(events.EventReservationFailed, reservation, bookingID, err)
		return nil, err
	}
	if !confirmed {
		err := &BookingNotConfirmedError{BookingID: bookingID}
		metrics.IncReservation(regime, "unconfirmed")
		c.publish(events.EventReservationFailed, reservation, bookingID, err)
		return nil, err
	}

	metrics.IncReservation(regime, "confirmed")
	c.publish(events.EventReservationConfirmed, reservation, bookingID, nil)

	booking, err := c.FindBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.Info().Int64("booking_id", bookingID).Str("regime", regime).Msg("reservation confirmed")
	}
	return booking, nil
}

// submit commits the reservation with the operation its regime requires and
// returns the booking id.
func (c *Client) submit(ctx context.Context, reservation Reservation) (int64, error) {
	switch r := reservation.(type) {
	case ScheduledReservation:
		id, err := r.Slot.NumericBookingID()
		if err != nil {
			return 0, err
		}
		if err := c.gw.AddBooking(ctx, r.Slot.BookingID); err != nil {
			return 0, err
		}
		return id, nil
	case OpenReservation:
		if r.Product.Price == "" {
			return 0, &MissingPriceError{ProductID: r.Product.ID, Description: r.Product.Description}
		}
		return c.gw.AddReservationBooking(ctx, r.Slot, r.Product)
	default:
		return 0, fmt.Errorf("unknown reservation type %T", reservation)
	}
}

// CheckBooking re-reads the authoritative booking list and reports whether
// the id is present. A single point-in-time check, no retries.
func (c *Client) CheckBooking(ctx context.Context, bookingID int64) (bool, error) {
	bookings, err := c.catalog.RefreshBookings(ctx)
	if err != nil {
		return false, err
	}
	_, ok := bookings[bookingID]
	return ok, nil
}

// FindBooking re-reads the booking list and returns the record for the id.
func (c *Client) FindBooking(ctx context.Context, bookingID int64) (*models.Booking, error) {
	bookings, err := c.catalog.RefreshBookings(ctx)
	if err != nil {
		return nil, err
	}
	booking, ok := bookings[bookingID]
	if !ok {
		return nil, &BookingRecordMissingError{BookingID: bookingID}
	}
	return &booking, nil
}

// Cancel cancels an existing booking.
func (c *Client) Cancel(ctx context.Context, bookingID int64) error {
	if err := c.gw.CancelBooking(ctx, strconv.FormatInt(bookingID, 10)); err != nil {
		return err
	}
	if c.events != nil {
		_ = c.events.PublishJSON(events.EventReservationCancelled, events.ReservationEventPayload{
			BookingID: bookingID,
		})
	}
	return nil
}

// Reset clears the catalog cache and un-initializes the session.
func (c *Client) Reset() { c.catalog.Reset() }

// IsInitialized reports whether the session bootstrap has run.
func (c *Client) IsInitialized() bool { return c.catalog.IsInitialized() }

func (c *Client) publish(eventType string, reservation Reservation, bookingID int64, failure error) {
	if c.events == nil {
		return
	}

	payload := events.ReservationEventPayload{
		BookingID: bookingID,
		Regime:    string(reservation.Regime()),
	}
	switch r := reservation.(type) {
	case ScheduledReservation:
		payload.Group = r.Group
		payload.Site = r.Site
		if start, err := r.Slot.Start(); err == nil {
			payload.Start = start
		}
	case OpenReservation:
		payload.Group = r.Group
		payload.Description = r.Product.Description
		if start, err := r.Slot.Start(); err == nil {
			payload.Start = start
		}
	}
	if failure != nil {
		payload.Error = failure.Error()
	}

	if err := c.events.PublishJSON(eventType, payload); err != nil && c.logger != nil {
		c.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
