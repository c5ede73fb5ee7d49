// Package gateway binds the remote sports-booking API. Every operation is a
// JSON POST carrying the customer/license/token identity triple; the remote
// contract is fixed and consumed as-is.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gymbook/internal/config"
	"gymbook/internal/metrics"
	"gymbook/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	pathCheckVersion    = "/users/CheckVersion"
	pathLogIn           = "/users/logIn"
	pathOnlineGroups    = "/bookings/onlineGroups"
	pathUniqueLocations = "/bookings/UniqueLocationsByOnlineGroup"
	pathSchedule        = "/bookings/schedule"
	pathProducts        = "/bookings/getProductsByOnlineGroup"
	pathProductByID     = "/bookings/getProductById"
	pathAvailableSlots  = "/bookings/getAvailableSlots"
	pathAddReservation  = "/Bookings/AddReservationBooking"
	pathAddBooking      = "/bookings/addBooking"
	pathMyBookings      = "/bookings/myBookings"
	pathCancelBooking   = "/bookings/CancelReservationBooking"
)

// Client calls the remote API over HTTP.
type Client struct {
	baseURL      string
	customerID   string
	license      string
	token        string
	version      string
	scheduleDays int

	hc      *http.Client
	limiter *rate.Limiter
	logger  *zerolog.Logger

	cache    *redis.Client
	cacheTTL time.Duration
}

// New constructs a client from config. The rate limiter throttles all
// outbound calls to stay under the remote's tolerance.
func New(cfg config.APIConfig, booking config.BookingConfig, logger *zerolog.Logger) *Client {
	days := booking.ScheduleDays
	if days <= 0 {
		days = models.ScheduleHorizonDays
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		customerID:   cfg.CustomerID,
		license:      cfg.License,
		token:        cfg.Token,
		version:      cfg.Version,
		scheduleDays: days,
		hc:           &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		limiter:      rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
		logger:       logger,
	}
}

// UseRedisCache enables a read-through cache for the idempotent catalog
// reads (groups, locations, products, product detail). Schedules, available
// slots and the booking list are always fetched live.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.cache = redisClient
	c.cacheTTL = ttl
}

func (c *Client) base() baseRequest {
	return baseRequest{
		CustomerID: c.customerID,
		License:    c.license,
		Token:      c.token,
	}
}

// CheckVersion probes compatibility with the remote API.
func (c *Client) CheckVersion(ctx context.Context) error {
	req := checkVersionRequest{
		CustomerID: c.customerID,
		License:    c.license,
		Version:    c.version,
	}
	return c.post(ctx, "checkVersion", pathCheckVersion, req, nil)
}

// LogIn establishes the session and returns the user profile.
func (c *Client) LogIn(ctx context.Context) (*models.User, error) {
	req := logInRequest{
		baseRequest: c.base(),
		Remember:    false,
		PushID:      models.DefaultPushID,
	}
	var resp logInResponse
	if err := c.post(ctx, "logIn", pathLogIn, req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// OnlineGroups lists the full group catalog for both regimes.
func (c *Client) OnlineGroups(ctx context.Context) (*models.GroupCatalog, error) {
	var resp onlineGroupsResponse
	err := c.cachedPost(ctx, "onlineGroups", pathOnlineGroups, "gateway:groups", c.base(), &resp)
	if err != nil {
		return nil, err
	}
	return &models.GroupCatalog{
		Scheduled: resp.OnlineGroups,
		Open:      resp.OnlineGroupsOpen,
	}, nil
}

// UniqueLocations lists the sites where a scheduled group takes place.
func (c *Client) UniqueLocations(ctx context.Context, group string) ([]models.Location, error) {
	req := uniqueLocationsRequest{baseRequest: c.base(), OnlineGroup: group}
	var resp uniqueLocationsResponse
	key := "gateway:locations:" + group
	if err := c.cachedPost(ctx, "uniqueLocationsByOnlineGroup", pathUniqueLocations, key, req, &resp); err != nil {
		return nil, err
	}
	return resp.Locations, nil
}

// Schedule fetches the full multi-day schedule of a group at a site.
// Never cached: slot availability changes continuously.
func (c *Client) Schedule(ctx context.Context, group, siteID string) ([]models.ScheduleDay, error) {
	req := scheduleRequest{
		baseRequest:  c.base(),
		Trainer:      "",
		OnlineGroup:  group,
		CmsID:        "",
		AmountOfDays: c.scheduleDays,
		Site:         siteID,
	}
	var resp scheduleResponse
	if err := c.post(ctx, "schedule", pathSchedule, req, &resp); err != nil {
		return nil, err
	}
	return resp.Schedule, nil
}

// ProductsByGroup lists the product stubs of an open group. Only id and
// description are populated; use ProductByID for the full record.
func (c *Client) ProductsByGroup(ctx context.Context, group string, siteID int) ([]models.Product, error) {
	req := productsRequest{baseRequest: c.base(), OnlineGroup: group, SiteID: siteID}
	var resp productsResponse
	key := fmt.Sprintf("gateway:products:%s:%d", group, siteID)
	if err := c.cachedPost(ctx, "getProductsByOnlineGroup", pathProducts, key, req, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// ProductByID resolves the full product record, price included.
func (c *Client) ProductByID(ctx context.Context, productID string) (*models.Product, error) {
	req := productByIDRequest{baseRequest: c.base(), ProductID: productID}
	var resp productByIDResponse
	key := "gateway:product:" + productID
	if err := c.cachedPost(ctx, "getProductById", pathProductByID, key, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// AvailableSlots lists the open slots of a product on a date. Never cached.
func (c *Client) AvailableSlots(ctx context.Context, productID string, date time.Time) ([]models.Slot, error) {
	req := availableSlotsRequest{
		baseRequest: c.base(),
		ProductID:   productID,
		Date:        date.Format(models.SlotDateFormat),
	}
	var resp availableSlotsResponse
	if err := c.post(ctx, "getAvailableSlots", pathAvailableSlots, req, &resp); err != nil {
		return nil, err
	}
	return resp.EmptySlots, nil
}

// AddReservationBooking commits an open-group reservation and returns the
// booking id the remote allocated.
func (c *Client) AddReservationBooking(ctx context.Context, slot models.Slot, product models.Product) (int64, error) {
	req := addReservationRequest{
		baseRequest: c.base(),
		StartDate:   slot.StartDate,
		EndDate:     slot.EndDate,
		ProductID:   product.ID,
		Price:       product.Price,
	}
	var resp addReservationResponse
	if err := c.post(ctx, "addReservationBooking", pathAddReservation, req, &resp); err != nil {
		return 0, err
	}
	return resp.BookingID, nil
}

// AddBooking commits a scheduled-group reservation by slot booking id.
func (c *Client) AddBooking(ctx context.Context, bookingID string) error {
	req := addBookingRequest{baseRequest: c.base(), BookingID: bookingID}
	return c.post(ctx, "addBooking", pathAddBooking, req, nil)
}

// MyBookings fetches the authoritative booking list. Never cached.
func (c *Client) MyBookings(ctx context.Context) ([]models.Booking, error) {
	var resp myBookingsResponse
	if err := c.post(ctx, "myBookings", pathMyBookings, c.base(), &resp); err != nil {
		return nil, err
	}
	return resp.MyBookings, nil
}

// CancelBooking cancels an existing booking.
func (c *Client) CancelBooking(ctx context.Context, bookingID string) error {
	req := cancelBookingRequest{baseRequest: c.base(), BookingID: bookingID}
	return c.post(ctx, "cancelReservationBooking", pathCancelBooking, req, nil)
}

// post issues one JSON POST and decodes the response into out (when non-nil).
func (c *Client) post(ctx context.Context, op, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	if c.logger != nil {
		c.logger.Debug().Str("op", op).Str("request_id", requestID).Msg("gateway call")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.IncGateway(op, "error")
		return &RemoteFault{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncGateway(op, "error")
		return &RemoteFault{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= 300 {
		metrics.IncGateway(op, "fault")
		fault := &RemoteFault{Op: op, Status: resp.StatusCode}
		var remote remoteErrorBody
		if json.Unmarshal(raw, &remote) == nil {
			fault.Code = remote.Code
			fault.Reason = remote.Error.Reason
			fault.Message = remote.Error.Message
		}
		if c.logger != nil {
			c.logger.Warn().Str("op", op).Str("request_id", requestID).
				Int("status", resp.StatusCode).Int("code", fault.Code).
				Str("reason", fault.Reason).Msg("gateway fault")
		}
		return fault
	}

	metrics.IncGateway(op, "ok")
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// cachedPost serves out from redis when possible, falling back to a live
// call and populating the cache on the way out.
func (c *Client) cachedPost(ctx context.Context, op, path, cacheKey string, payload, out any) error {
	if c.readCache(ctx, cacheKey, out) {
		return nil
	}
	if err := c.post(ctx, op, path, payload, out); err != nil {
		return err
	}
	c.writeCache(ctx, cacheKey, out)
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.cache == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.cache.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.cache.Set(ctx, key, data, c.cacheTTL).Err()
}
