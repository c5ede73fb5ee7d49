package domain

import (
	"context"
	"time"

	"gymbook/internal/models"
)

// Gateway is the fixed RPC surface of the remote booking API. Implementations
// are stateless; the session token travels with every request.
type Gateway interface {
	CheckVersion(ctx context.Context) error
	LogIn(ctx context.Context) (*models.User, error)
	OnlineGroups(ctx context.Context) (*models.GroupCatalog, error)
	UniqueLocations(ctx context.Context, group string) ([]models.Location, error)
	Schedule(ctx context.Context, group, siteID string) ([]models.ScheduleDay, error)
	ProductsByGroup(ctx context.Context, group string, siteID int) ([]models.Product, error)
	ProductByID(ctx context.Context, productID string) (*models.Product, error)
	AvailableSlots(ctx context.Context, productID string, date time.Time) ([]models.Slot, error)
	AddReservationBooking(ctx context.Context, slot models.Slot, product models.Product) (int64, error)
	AddBooking(ctx context.Context, bookingID string) error
	MyBookings(ctx context.Context) ([]models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

// EventPublisher pushes reservation lifecycle events to interested parties.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
