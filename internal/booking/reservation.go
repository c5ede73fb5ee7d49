package booking

import "gymbook/internal/models"

// Reservation is a resolved-but-not-yet-submitted intent. It freezes the
// lookup result so execution needs no further catalog queries. It carries no
// freshness guarantee: the underlying slot can be taken before Execute, in
// which case submission fails with whatever the remote returns.
type Reservation interface {
	// Regime tells which booking regime produced the reservation.
	Regime() models.Regime

	sealed()
}

// ScheduledReservation is a pending reservation of a scheduled-group slot.
type ScheduledReservation struct {
	Group string               `json:"group"`
	Site  string               `json:"site"`
	Slot  models.ScheduledSlot `json:"slot"`
}

func (ScheduledReservation) Regime() models.Regime { return models.RegimeScheduled }
func (ScheduledReservation) sealed()               {}

// OpenReservation is a pending reservation of a product slot.
type OpenReservation struct {
	Group   string         `json:"group"`
	Product models.Product `json:"product"`
	Slot    models.Slot    `json:"slot"`
}

func (OpenReservation) Regime() models.Regime { return models.RegimeOpen }
func (OpenReservation) sealed()               {}
