// Package mock provides a mock carrier implementation for testing.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/marulatech/shipping-bridge/pkg/carrier"
)

// Client is a mock carrier for testing and local development.
type Client struct {
	name string
}

// New creates a new mock carrier.
func New(name string) *Client {
	return &Client{name: name}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return c.name
}

// RateShipment returns a canned freight charge.
func (c *Client) RateShipment(ctx context.Context, req *carrier.RateRequest) *carrier.RateResult {
	return &carrier.RateResult{
		Success: true,
		Price:   150.00,
	}
}

// BookShipment books a mock shipment.
func (c *Client) BookShipment(ctx context.Context, req *carrier.BookingRequest) (*carrier.BookingResult, error) {
	waybill := fmt.Sprintf("%s-WB%d", c.name, time.Now().UnixNano()%1000000)
	return &carrier.BookingResult{
		Rate:          200.00,
		WaybillNumber: waybill,
		TrackingURL:   c.TrackingLink(waybill),
	}, nil
}

// CancelShipment pretends to cancel a shipment.
func (c *Client) CancelShipment(ctx context.Context, reference string) string {
	return fmt.Sprintf("Shipment %s cancelled (mock).", reference)
}

// TrackingLink returns a mock tracking URL.
func (c *Client) TrackingLink(waybill string) string {
	if waybill == "" {
		return ""
	}
	return fmt.Sprintf("https://track.%s.mock/%s", c.name, waybill)
}

// TrackingDetails returns canned tracking history.
func (c *Client) TrackingDetails(ctx context.Context, waybill string) []carrier.TrackingEvent {
	now := time.Now()
	return []carrier.TrackingEvent{
		{
			Date:     now.Format("2006-01-02 15:04"),
			Status:   "In Transit",
			Location: "Mock Hub",
		},
		{
			Date:     now.Add(-24 * time.Hour).Format("2006-01-02 15:04"),
			Status:   "Collected",
			Location: "Mock Depot",
		},
	}
}

// CurrentStatus returns the latest canned tracking event.
func (c *Client) CurrentStatus(ctx context.Context, waybill string) *carrier.TrackingEvent {
	events := c.TrackingDetails(ctx, waybill)
	return &events[0]
}

// WaybillDetail returns a canned waybill record.
func (c *Client) WaybillDetail(ctx context.Context, waybill string) carrier.WaybillDetail {
	return carrier.WaybillDetail{
		"waybill_no": waybill,
		"status":     "In Transit",
	}
}

var _ carrier.Provider = (*Client)(nil)
