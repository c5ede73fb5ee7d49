package models

// Regime tells how a group is booked: scheduled groups have fixed recurring
// slots per site, open groups are booked through priced products.
type Regime string

const (
	RegimeScheduled Regime = "scheduled"
	RegimeOpen      Regime = "open"
)

const (
	// DayKeyFormat is the key the remote schedule uses per day bucket.
	DayKeyFormat = "02-01-2006"

	// SlotKeyFormat is the minute-precision start time of an available slot.
	SlotKeyFormat = "2006-01-02 15:04"

	// SlotDateFormat is the date the getAvailableSlots call expects.
	SlotDateFormat = "2-01-2006"

	// ScheduleHorizonDays is the fixed window the remote schedule call returns.
	ScheduleHorizonDays = 365

	// DefaultPushID is a static push identifier sent with logIn.
	DefaultPushID = "AppPushID"
)

// Slot timestamps arrive as bare strings in one of these layouts.
var slotTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}
