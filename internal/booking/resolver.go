package booking

import (
	"context"
	"fmt"
	"time"

	"gymbook/internal/models"
)

// resolveScheduled walks group → location → schedule → slot. The schedule is
// always fetched live; only the location set comes from the cache. The slot
// must match the requested start on the full timestamp, not just the day.
func (c *Client) resolveScheduled(ctx context.Context, req Request) (Reservation, error) {
	site := req.Site
	if site == "" {
		site = c.defaultSite
	}

	locations, err := c.catalog.Locations(ctx, req.Group)
	if err != nil {
		return nil, err
	}
	location, ok := locations[site]
	if !ok {
		return nil, &LocationNotFoundError{Group: req.Group, Site: site}
	}

	days, err := c.gw.Schedule(ctx, req.Group, location.SiteID)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule of %q at %q: %w", req.Group, site, err)
	}
	byDay := make(map[string]models.ScheduleDay, len(days))
	for _, day := range days {
		byDay[day.Day] = day
	}

	dayKey := req.Start.Format(models.DayKeyFormat)
	day, ok := byDay[dayKey]
	if !ok {
		return nil, &DayNotFoundError{Group: req.Group, Site: site, Day: dayKey}
	}

	target := req.Start.Truncate(time.Minute)
	for _, slot := range day.Slots {
		start, err := slot.Start()
		if err != nil {
			if c.logger != nil {
				c.logger.Warn().Str("start_date", slot.StartDate).Msg("skipping slot with malformed start")
			}
			continue
		}
		if start.Equal(target) {
			return ScheduledReservation{Group: req.Group, Site: site, Slot: slot}, nil
		}
	}
	return nil, &SlotNotFoundError{Group: req.Group, Start: target}
}

// resolveOpen walks group → product → available slot. Products are cached
// with full detail; the slot listing is always fetched live.
func (c *Client) resolveOpen(ctx context.Context, req Request) (Reservation, error) {
	products, err := c.catalog.Products(ctx, req.Group)
	if err != nil {
		return nil, err
	}
	product, ok := products[req.Description]
	if !ok {
		return nil, &ProductNotFoundError{Group: req.Group, Description: req.Description}
	}

	slots, err := c.gw.AvailableSlots(ctx, product.ID, req.Start)
	if err != nil {
		return nil, fmt.Errorf("fetch slots of %q on %s: %w",
			req.Description, req.Start.Format(models.SlotDateFormat), err)
	}

	target := req.Start.Truncate(time.Minute)
	for _, slot := range slots {
		start, err := slot.Start()
		if err != nil {
			continue
		}
		if start.Equal(target) {
			return OpenReservation{Group: req.Group, Product: product, Slot: slot}, nil
		}
	}
	return nil, &SlotNotFoundError{Group: req.Group, Description: req.Description, Start: target}
}
