// Package carrier provides an abstraction layer for delivery carriers.
package carrier

import (
	"context"
)

// Provider defines the interface that all delivery carriers must implement.
//
// RateShipment never returns an error: rating failures are reported inside
// the RateResult so the host can display them inline without aborting its
// checkout flow. BookShipment does return errors, because a failed booking
// must halt shipment creation. The tracking operations are best-effort and
// degrade to empty results on any failure.
type Provider interface {
	// Name returns the carrier identifier (e.g., "mercury_mes").
	Name() string

	// RateShipment calculates the freight charge for an order.
	RateShipment(ctx context.Context, req *RateRequest) *RateResult

	// BookShipment books a collection with the carrier and returns the
	// charged rate plus the waybill number to store as tracking reference.
	BookShipment(ctx context.Context, req *BookingRequest) (*BookingResult, error)

	// CancelShipment cancels a booked shipment where the carrier supports
	// it. The returned message is shown to the operator.
	CancelShipment(ctx context.Context, reference string) string

	// TrackingLink returns a human-facing tracking URL for a waybill, or
	// an empty string when none is available.
	TrackingLink(waybill string) string

	// TrackingDetails returns the tracking history for a waybill. A failed
	// lookup returns an empty slice, never an error.
	TrackingDetails(ctx context.Context, waybill string) []TrackingEvent

	// CurrentStatus returns the most recent tracking event for a waybill,
	// or nil when none is available.
	CurrentStatus(ctx context.Context, waybill string) *TrackingEvent

	// WaybillDetail returns the carrier's raw waybill record, or nil when
	// none is available.
	WaybillDetail(ctx context.Context, waybill string) WaybillDetail
}
