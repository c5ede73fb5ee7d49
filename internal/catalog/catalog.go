// Package catalog holds the lazily populated, session-scoped view of the
// remote catalog: groups per regime, locations per scheduled group and fully
// detailed products per open group. Entries are keyed by their natural
// identifiers and live until Reset.
package catalog

import (
	"context"
	"fmt"

	"gymbook/internal/domain"
	"gymbook/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type scheduledEntry struct {
	group models.Group
	// locations stays nil until the first lookup for this group.
	locations map[string]models.Location
}

type openEntry struct {
	group models.Group
	// products stays nil until the first lookup; once populated every
	// product carries its full detail, price included.
	products map[string]models.Product
}

// Catalog caches idempotent remote reads for one logical session. It applies
// no locking: a client instance serves a single session, and duplicate
// population of the same key is harmless since the source data is identical.
type Catalog struct {
	gw     domain.Gateway
	logger *zerolog.Logger

	initialized bool
	user        *models.User
	scheduled   map[string]*scheduledEntry
	open        map[string]*openEntry
	bookings    map[int64]models.Booking
}

func New(gw domain.Gateway, logger *zerolog.Logger) *Catalog {
	return &Catalog{
		gw:        gw,
		logger:    logger,
		scheduled: make(map[string]*scheduledEntry),
		open:      make(map[string]*openEntry),
		bookings:  make(map[int64]models.Booking),
	}
}

// EnsureInitialized runs the session bootstrap once: version probe, login,
// group catalog, booking snapshot. Subsequent calls are no-ops until Reset.
func (c *Catalog) EnsureInitialized(ctx context.Context) error {
	if c.initialized {
		return nil
	}

	if err := c.gw.CheckVersion(ctx); err != nil {
		return fmt.Errorf("version check: %w", err)
	}

	user, err := c.gw.LogIn(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.user = user

	groups, err := c.gw.OnlineGroups(ctx)
	if err != nil {
		return fmt.Errorf("fetch online groups: %w", err)
	}
	c.scheduled = make(map[string]*scheduledEntry, len(groups.Scheduled))
	for _, g := range groups.Scheduled {
		c.scheduled[g.OnlineGroup] = &scheduledEntry{group: g}
	}
	c.open = make(map[string]*openEntry, len(groups.Open))
	for _, g := range groups.Open {
		c.open[g.OnlineGroup] = &openEntry{group: g}
	}

	if _, err := c.RefreshBookings(ctx); err != nil {
		return err
	}

	c.initialized = true
	if c.logger != nil {
		c.logger.Info().
			Int("scheduled_groups", len(c.scheduled)).
			Int("open_groups", len(c.open)).
			Msg("session initialized")
	}
	return nil
}

// IsInitialized reports whether the session bootstrap has run.
func (c *Catalog) IsInitialized() bool { return c.initialized }

// User returns the profile from login, nil before initialization.
func (c *Catalog) User() *models.User { return c.user }

// Reset drops every cached entry and un-initializes the session. The next
// access re-runs the full bootstrap, login included.
func (c *Catalog) Reset() {
	c.initialized = false
	c.user = nil
	c.scheduled = make(map[string]*scheduledEntry)
	c.open = make(map[string]*openEntry)
	c.bookings = make(map[int64]models.Booking)
}

// GroupRegime classifies a group name. Scheduled wins when the remote ever
// lists the same name in both regimes.
func (c *Catalog) GroupRegime(ctx context.Context, name string) (models.Regime, bool, error) {
	if err := c.EnsureInitialized(ctx); err != nil {
		return "", false, err
	}
	if _, ok := c.scheduled[name]; ok {
		return models.RegimeScheduled, true, nil
	}
	if _, ok := c.open[name]; ok {
		return models.RegimeOpen, true, nil
	}
	return "", false, nil
}

// Locations returns the location set of a scheduled group keyed by site
// description, fetching it on first access.
func (c *Catalog) Locations(ctx context.Context, group string) (map[string]models.Location, error) {
	if err := c.EnsureInitialized(ctx); err != nil {
		return nil, err
	}
	entry, ok := c.scheduled[group]
	if !ok {
		return nil, fmt.Errorf("scheduled group %q is not in the catalog", group)
	}
	if entry.locations == nil {
		locations, err := c.gw.UniqueLocations(ctx, group)
		if err != nil {
			return nil, fmt.Errorf("fetch locations of %q: %w", group, err)
		}
		entry.locations = make(map[string]models.Location, len(locations))
		for _, loc := range locations {
			entry.locations[loc.Description] = loc
		}
	}
	return entry.locations, nil
}

// Products returns the product set of an open group keyed by description,
// fetching the listing and resolving every product's full detail in parallel
// on first access. Any single detail failure aborts the population.
func (c *Catalog) Products(ctx context.Context, group string) (map[string]models.Product, error) {
	if err := c.EnsureInitialized(ctx); err != nil {
		return nil, err
	}
	entry, ok := c.open[group]
	if !ok {
		return nil, fmt.Errorf("open group %q is not in the catalog", group)
	}
	if entry.products == nil {
		stubs, err := c.gw.ProductsByGroup(ctx, group, 0)
		if err != nil {
			return nil, fmt.Errorf("fetch products of %q: %w", group, err)
		}

		resolved := make([]models.Product, len(stubs))
		g, gctx := errgroup.WithContext(ctx)
		for i, stub := range stubs {
			g.Go(func() error {
				full, err := c.gw.ProductByID(gctx, stub.ID)
				if err != nil {
					return fmt.Errorf("resolve product %q: %w", stub.ID, err)
				}
				resolved[i] = *full
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		entry.products = make(map[string]models.Product, len(resolved))
		for _, p := range resolved {
			entry.products[p.Description] = p
		}
	}
	return entry.products, nil
}

// RefreshBookings re-fetches the authoritative booking list and replaces the
// local snapshot. Bookings are volatile; this never serves cached data.
func (c *Catalog) RefreshBookings(ctx context.Context) (map[int64]models.Booking, error) {
	list, err := c.gw.MyBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch bookings: %w", err)
	}
	c.bookings = make(map[int64]models.Booking, len(list))
	for _, b := range list {
		id, err := b.NumericID()
		if err != nil {
			if c.logger != nil {
				c.logger.Warn().Str("booking_id", b.ID).Msg("skipping booking with malformed id")
			}
			continue
		}
		c.bookings[id] = b
	}
	return c.bookings, nil
}
