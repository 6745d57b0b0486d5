package mercurymes

import (
	"context"
	"fmt"
	"time"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGetFreight      func(ctx context.Context, shipment []ShipmentDescriptor) (*FreightResponse, error)
	OnBookCollection  func(ctx context.Context, tokenNo string, insurance bool, manifest *ShipmentManifest) (*CollectionResponse, error)
	OnTrackingDetails func(ctx context.Context, waybill string) (*TrackingResponse, error)
	OnCurrentTracking func(ctx context.Context, waybill string) (*TrackingResponse, error)
	OnWaybillDetail   func(ctx context.Context, waybill string) (*WaybillResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// GetFreight returns a mock freight charge.
func (m *MockAPIClient) GetFreight(ctx context.Context, shipment []ShipmentDescriptor) (*FreightResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Message: "simulated API error"}
	}

	if m.OnGetFreight != nil {
		return m.OnGetFreight(ctx, shipment)
	}

	rate := Amount(150.00)
	return &FreightResponse{
		ErrorCode: codeSuccess,
		Rate:      &rate,
	}, nil
}

// BookCollection books a mock collection.
func (m *MockAPIClient) BookCollection(ctx context.Context, tokenNo string, insurance bool, manifest *ShipmentManifest) (*CollectionResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Message: "simulated API error"}
	}

	if m.OnBookCollection != nil {
		return m.OnBookCollection(ctx, tokenNo, insurance, manifest)
	}

	rate := Amount(200.00)
	return &CollectionResponse{
		ErrorCode: codeSuccess,
		Rate:      &rate,
		Waybills:  []string{fmt.Sprintf("WB%d", 100000+time.Now().UnixNano()%900000)},
	}, nil
}

// TrackingDetails returns mock tracking history.
func (m *MockAPIClient) TrackingDetails(ctx context.Context, waybill string) (*TrackingResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Message: "simulated API error"}
	}

	if m.OnTrackingDetails != nil {
		return m.OnTrackingDetails(ctx, waybill)
	}

	now := time.Now()
	return &TrackingResponse{
		ErrorCode: codeSuccess,
		Detail: []TrackingEventDetail{
			{
				Date:     now.Format("2006-01-02 15:04"),
				Status:   "In Transit",
				Location: "Lusaka Hub",
			},
			{
				Date:     now.Add(-24 * time.Hour).Format("2006-01-02 15:04"),
				Status:   "Collected",
				Location: "Lusaka",
			},
		},
	}, nil
}

// CurrentTracking returns a mock current status list.
func (m *MockAPIClient) CurrentTracking(ctx context.Context, waybill string) (*TrackingResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Message: "simulated API error"}
	}

	if m.OnCurrentTracking != nil {
		return m.OnCurrentTracking(ctx, waybill)
	}

	return &TrackingResponse{
		ErrorCode: codeSuccess,
		Detail: []TrackingEventDetail{
			{
				Date:     time.Now().Format("2006-01-02 15:04"),
				Status:   "In Transit",
				Location: "Lusaka Hub",
			},
		},
	}, nil
}

// WaybillDetail returns a mock waybill record.
func (m *MockAPIClient) WaybillDetail(ctx context.Context, waybill string) (*WaybillResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Message: "simulated API error"}
	}

	if m.OnWaybillDetail != nil {
		return m.OnWaybillDetail(ctx, waybill)
	}

	return &WaybillResponse{
		ErrorCode: codeSuccess,
		Detail: map[string]any{
			"waybill_no": waybill,
			"status":     "In Transit",
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
