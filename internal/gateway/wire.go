package gateway

import "gymbook/internal/models"

// baseRequest is the identity triple every request embeds.
type baseRequest struct {
	CustomerID string `json:"customer_id"`
	License    string `json:"license"`
	Token      string `json:"token"`
}

type checkVersionRequest struct {
	CustomerID string `json:"customer_id"`
	License    string `json:"license"`
	Version    string `json:"version"`
}

type logInRequest struct {
	baseRequest
	Remember bool   `json:"remember"`
	PushID   string `json:"pushid"`
}

type uniqueLocationsRequest struct {
	baseRequest
	OnlineGroup string `json:"onlinegroup"`
}

type scheduleRequest struct {
	baseRequest
	Trainer      string `json:"trainer"`
	OnlineGroup  string `json:"onlinegroup"`
	CmsID        string `json:"cmsid"`
	AmountOfDays int    `json:"amount_of_days"`
	Site         string `json:"site"`
}

type productsRequest struct {
	baseRequest
	OnlineGroup string `json:"online_group"`
	SiteID      int    `json:"site_id"`
}

type productByIDRequest struct {
	baseRequest
	ProductID string `json:"Product_id"`
}

type availableSlotsRequest struct {
	baseRequest
	ProductID string `json:"product_id"`
	Date      string `json:"date"`
}

type addReservationRequest struct {
	baseRequest
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	ProductID string `json:"product_id"`
	Price     string `json:"price"`
}

type addBookingRequest struct {
	baseRequest
	BookingID string `json:"booking_id"`
}

type cancelBookingRequest struct {
	baseRequest
	BookingID string `json:"booking_id"`
}

// envelope is the common success header of remote responses.
type envelope struct {
	Response int    `json:"response"`
	Message  string `json:"message"`
}

// remoteErrorBody is the error shape the remote returns on non-2xx.
type remoteErrorBody struct {
	Error struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error"`
	Code int `json:"code"`
}

type logInResponse struct {
	envelope
	User models.User `json:"user"`
}

type onlineGroupsResponse struct {
	envelope
	OnlineGroups     []models.Group `json:"onlinegroups"`
	OnlineGroupsOpen []models.Group `json:"onlinegroups_open"`
}

type uniqueLocationsResponse struct {
	envelope
	Locations []models.Location `json:"uniquelocationsbyonlinegroup"`
}

type scheduleResponse struct {
	envelope
	Schedule []models.ScheduleDay `json:"schedule"`
}

type productsResponse struct {
	Products []models.Product `json:"Products"`
}

type productByIDResponse struct {
	ProductExists bool           `json:"Product_exists"`
	Product       models.Product `json:"Product"`
}

type availableSlotsResponse struct {
	Message      string        `json:"Message"`
	ServerTime   string        `json:"Server_time"`
	EmptySlots   []models.Slot `json:"Empty_slots"`
	DividedSlots []models.Slot `json:"Divided_slots"`
	SlotPrice    string        `json:"Slot_price"`
	SlotSize     string        `json:"Slot_size"`
}

type addReservationResponse struct {
	envelope
	BookingID int64 `json:"booking_id"`
}

type myBookingsResponse struct {
	envelope
	MyBookings []models.Booking `json:"mybookings"`
}
