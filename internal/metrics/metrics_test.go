package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestIncGateway(t *testing.T) {
	Register()

	before := testutil.ToFloat64(gatewayRequests.WithLabelValues("myBookings", "ok"))
	IncGateway("myBookings", "ok")
	after := testutil.ToFloat64(gatewayRequests.WithLabelValues("myBookings", "ok"))

	if after != before+1 {
		t.Errorf("expected counter to grow by 1, got %f -> %f", before, after)
	}
}

func TestIncReservation(t *testing.T) {
	Register()

	before := testutil.ToFloat64(reservations.WithLabelValues("open", "confirmed"))
	IncReservation("open", "confirmed")
	after := testutil.ToFloat64(reservations.WithLabelValues("open", "confirmed"))

	if after != before+1 {
		t.Errorf("expected counter to grow by 1, got %f -> %f", before, after)
	}
}
