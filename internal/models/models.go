package models

import (
	"fmt"
	"strconv"
	"time"
)

// Group is one entry of the remote group catalog. The same shape is used for
// both regimes; the regime is determined by which list the entry came from.
type Group struct {
	OnlineGroup string `json:"online_group"`
}

// GroupCatalog is the full catalog split per regime, fetched once per session.
type GroupCatalog struct {
	Scheduled []Group
	Open      []Group
}

// Location is a site where a scheduled group takes place.
type Location struct {
	SiteID      string `json:"site_id"`
	Description string `json:"description"`
}

// ScheduleDay is one day bucket of a location schedule, keyed by day
// in DayKeyFormat.
type ScheduleDay struct {
	Day   string          `json:"day"`
	Slots []ScheduledSlot `json:"bookings"`
}

// ScheduledSlot is a bookable unit of a scheduled group. It only exists as a
// query result; after addBooking it shows up as a Booking in myBookings.
type ScheduledSlot struct {
	BookingID       string `json:"Booking_id"`
	StartDate       string `json:"Start_date"`
	EndDate         string `json:"End_date"`
	MaxParticipants int    `json:"Max_participants"`
	Description     string `json:"Description"`
	Trainer         string `json:"Trainer"`
	OnlineStatus    string `json:"Online_status"`
	ProductID       string `json:"Product_id"`
	Location        string `json:"Location"`
	StartTime       string `json:"Start_time"`
	EndTime         string `json:"End_time"`
	SiteID          int    `json:"Site_id"`
	Site            string `json:"Site"`
	Booked          bool   `json:"Booked"`
	Available       bool   `json:"Available"`
	Occupancy       int    `json:"Bezetting"`
	Present         int    `json:"Aanwezig"`
	DayOfWeek       string `json:"Day_of_the_week"`
}

// Start parses the slot start timestamp.
func (s ScheduledSlot) Start() (time.Time, error) {
	return ParseSlotTime(s.StartDate)
}

// NumericBookingID converts the wire booking id to its numeric form.
func (s ScheduledSlot) NumericBookingID() (int64, error) {
	id, err := strconv.ParseInt(s.BookingID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("scheduled slot has malformed booking id %q: %w", s.BookingID, err)
	}
	return id, nil
}

// Product is a purchasable unit of an open group. The catalog listing only
// carries id and description; the rest is filled in by getProductById.
// A product without a resolved price cannot be reserved.
type Product struct {
	ID              string `json:"Product_id"`
	Description     string `json:"Description"`
	Type            int    `json:"Type,omitempty"`
	AdminCode       string `json:"Admin_code,omitempty"`
	Price           string `json:"Price,omitempty"`
	PrepTime        string `json:"Prep_time,omitempty"`
	DismantleTime   string `json:"Dism_time,omitempty"`
	SlotSize        string `json:"Slot_size,omitempty"`
	MaxParticipants string `json:"Max_participants,omitempty"`
}

// Slot is an available slot of a product on a given date.
type Slot struct {
	StartDate string `json:"Start_date"`
	EndDate   string `json:"End_date"`
}

// Start parses the slot start timestamp.
func (s Slot) Start() (time.Time, error) {
	return ParseSlotTime(s.StartDate)
}

// Booking is one confirmed reservation as reported by myBookings. The remote
// list is the only authoritative source; local copies are snapshots.
type Booking struct {
	ID          string `json:"booking_id"`
	Occupancy   string `json:"bezetting"`
	Location    string `json:"locatie"`
	Description string `json:"sportomschrijving"`
	Site        string `json:"site"`
	StartDate   string `json:"start_date"`
	EndTime     string `json:"end_time"`
	Trainer     string `json:"trainer"`
	Memo        string `json:"memo"`
	OnlineAll   string `json:"online_all"`
	Amount      string `json:"amount"`
	Paid        string `json:"paid"`
	StartTime   string `json:"start_time"`
}

// NumericID converts the wire booking id to its numeric form.
func (b Booking) NumericID() (int64, error) {
	id, err := strconv.ParseInt(b.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("booking has malformed id %q: %w", b.ID, err)
	}
	return id, nil
}

// User is the profile returned by logIn. Only the fields the client
// actually consumes are mapped.
type User struct {
	ID                 string `json:"id"`
	Username           string `json:"username"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	MemberID           string `json:"member_id"`
	SubscriptionStatus string `json:"subscription_status"`
}

// ParseSlotTime parses a remote slot timestamp, which arrives with or
// without seconds depending on the endpoint.
func ParseSlotTime(value string) (time.Time, error) {
	for _, layout := range slotTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized slot timestamp %q", value)
}
