package booking

import (
	"errors"
	"fmt"
	"time"

	"gymbook/internal/models"
)

// ErrDescriptionRequired is returned before any open-group lookup when the
// caller wants to reserve an open group without naming a product.
var ErrDescriptionRequired = errors.New("an open group cannot be reserved without a product description")

// GroupNotFoundError means the name matched neither regime's catalog.
type GroupNotFoundError struct {
	Group string
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("group %q was not found in either the scheduled or the open catalog", e.Group)
}

// LocationNotFoundError means a scheduled group has no site with the
// requested description.
type LocationNotFoundError struct {
	Group string
	Site  string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("group %q has no site %q", e.Group, e.Site)
}

// DayNotFoundError means the location schedule has no bucket for the day.
type DayNotFoundError struct {
	Group string
	Site  string
	Day   string
}

func (e *DayNotFoundError) Error() string {
	return fmt.Sprintf("day %s is not in the schedule of %q at site %q", e.Day, e.Group, e.Site)
}

// SlotNotFoundError means no slot starts at the requested time.
type SlotNotFoundError struct {
	Group       string
	Description string
	Start       time.Time
}

func (e *SlotNotFoundError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("no slot of %q (%s) starts at %s",
			e.Group, e.Description, e.Start.Format(models.SlotKeyFormat))
	}
	return fmt.Sprintf("no slot of %q starts at %s", e.Group, e.Start.Format(models.SlotKeyFormat))
}

// ProductNotFoundError means an open group has no product with the
// requested description.
type ProductNotFoundError struct {
	Group       string
	Description string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("group %q has no product %q", e.Group, e.Description)
}

// MissingPriceError is raised locally, before the reservation call, when the
// resolved product carries no price.
type MissingPriceError struct {
	ProductID   string
	Description string
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("product %q (%s) has no price and cannot be reserved", e.Description, e.ProductID)
}

// BookingNotConfirmedError means the remote accepted the reservation but the
// authoritative booking list does not show it.
type BookingNotConfirmedError struct {
	BookingID int64
}

func (e *BookingNotConfirmedError) Error() string {
	return fmt.Sprintf("booking %d was submitted but is absent from the booking list", e.BookingID)
}

// BookingRecordMissingError means a confirmed booking could not be
// re-located in the booking list. Treated as a protocol anomaly.
type BookingRecordMissingError struct {
	BookingID int64
}

func (e *BookingRecordMissingError) Error() string {
	return fmt.Sprintf("booking %d was confirmed but its record could not be found", e.BookingID)
}
