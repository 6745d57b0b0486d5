package mercurymes

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// MES status codes. The API reports its outcome in an error_code field, and
// 508 is the documented success value. Counter-intuitive, but authoritative:
// treat these as constants, never adjust them.
const (
	codeSuccess        = 508
	codeDuplicateToken = 515
)

// APIClient defines the interface for Mercury MES API operations. The HTTP
// implementation talks to the live service; the mock is injected in tests.
type APIClient interface {
	// GetFreight fetches the freight charge for a shipment.
	GetFreight(ctx context.Context, shipment []ShipmentDescriptor) (*FreightResponse, error)

	// BookCollection books a pickup and returns the waybill numbers.
	BookCollection(ctx context.Context, tokenNo string, insurance bool, manifest *ShipmentManifest) (*CollectionResponse, error)

	// TrackingDetails retrieves the full tracking history for a waybill.
	TrackingDetails(ctx context.Context, waybill string) (*TrackingResponse, error)

	// CurrentTracking retrieves the tracking list whose first element is
	// the current status.
	CurrentTracking(ctx context.Context, waybill string) (*TrackingResponse, error)

	// WaybillDetail retrieves the raw waybill record.
	WaybillDetail(ctx context.Context, waybill string) (*WaybillResponse, error)
}

// ============================================================================
// Wire types (match the Mercury MES quotation1 API)
// ============================================================================

// ShipmentDescriptor is one element of the shipment array sent to /getfreight.
// All location fields are strings: numeric MES IDs for Zambia, names elsewhere.
type ShipmentDescriptor struct {
	ID                 string  `json:"id"`
	VendorID           string  `json:"vendor_id"`
	SourceCountry      string  `json:"source_country"`
	SourceCity         string  `json:"source_city"`
	DestinationCountry string  `json:"destination_country"`
	DestinationCity    string  `json:"destination_city"`
	Insurance          int     `json:"insurance"`
	Pieces             int     `json:"pieces"`
	Length             float64 `json:"length"`
	Width              float64 `json:"width"`
	Height             float64 `json:"height"`
	GrossWeight        float64 `json:"gross_weight"`
	DeclaredValue      float64 `json:"declared_value"`
}

// SenderInfo is the pickup party in a booking manifest.
type SenderInfo struct {
	FirstName string `json:"s_first_name"`
	LastName  string `json:"s_last_name"`
	Country   string `json:"s_country"`
	State     string `json:"s_statelist"`
	City      string `json:"s_city"`
	Address1  string `json:"s_add_1"`
	Address2  string `json:"s_add_2"`
	Pin       string `json:"s_pin"`
	Mobile    string `json:"s_mobile_no"`
	Phone     string `json:"s_phone_no"`
	Ext       string `json:"s_ext"`
	Email     string `json:"s_email"`
}

// ReceiverInfo is the delivery party in a booking manifest. Same shape as
// SenderInfo, but MES keys the fields differently.
type ReceiverInfo struct {
	FirstName string `json:"r_first_name"`
	LastName  string `json:"r_last_name"`
	Country   string `json:"r_country"`
	State     string `json:"r_statelist"`
	City      string `json:"r_city"`
	Address1  string `json:"r_add_1"`
	Address2  string `json:"r_add_2"`
	Pin       string `json:"r_pin"`
	Mobile    string `json:"r_mobile_no"`
	Phone     string `json:"r_phone_no"`
	Ext       string `json:"r_ext"`
	Email     string `json:"r_email"`
}

// PaymentDetail carries the payment mode for a booking.
type PaymentDetail struct {
	PaymentType string `json:"paymenttype"`
}

// ItemDetail carries the aggregated physical profile of a booking. MES
// validates these as integers, so dimensions and amounts are rounded before
// they reach the wire.
type ItemDetail struct {
	Pieces        int    `json:"pieces"`
	Length        int    `json:"length"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	GrossWeight   int    `json:"gross_weight"`
	DeclaredValue int    `json:"declared_value"`
	PaymentType   string `json:"paymenttype"`
}

// ShipmentManifest is the nested shipment object sent to /bookcollection,
// JSON-encoded into a single form field as a one-element array.
type ShipmentManifest struct {
	PickupAddress   []SenderInfo    `json:"shipment_pickup_address"`
	DeliveryAddress []ReceiverInfo  `json:"shipment_delivery_address"`
	Details         []PaymentDetail `json:"shipment_details"`
	Items           []ItemDetail    `json:"item_details"`
}

// Amount is a monetary value that MES returns either as a JSON number or as
// a quoted string like "150.00".
type Amount float64

// UnmarshalJSON accepts both representations.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	*a = Amount(f)
	return nil
}

// FreightResponse is the /getfreight response.
type FreightResponse struct {
	ErrorCode int     `json:"error_code"`
	Rate      *Amount `json:"rate"`
	ErrorMsg  string  `json:"error_msg"`
}

// CollectionResponse is the /bookcollection response.
type CollectionResponse struct {
	ErrorCode int      `json:"error_code"`
	Rate      *Amount  `json:"rate"`
	Waybills  []string `json:"waybill"`
	ErrorMsg  string   `json:"error_msg"`
	ErrorMsg1 string   `json:"error_msg1"`
}

// FailureMessage returns the most specific error message in the response.
func (r *CollectionResponse) FailureMessage() string {
	if r.ErrorMsg1 != "" {
		return r.ErrorMsg1
	}
	if r.ErrorMsg != "" {
		return r.ErrorMsg
	}
	return "unknown error"
}

// TrackingEventDetail is one entry of a tracking response.
type TrackingEventDetail struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Location string `json:"location"`
}

// TrackingResponse is the response of both tracking endpoints.
type TrackingResponse struct {
	ErrorCode int                   `json:"error_code"`
	Detail    []TrackingEventDetail `json:"detail"`
	ErrorMsg  string                `json:"error_msg"`
}

// WaybillResponse is the /getwaybilldetail response. The detail record has
// no stable schema, so it is kept untyped.
type WaybillResponse struct {
	ErrorCode int            `json:"error_code"`
	Detail    map[string]any `json:"detail"`
	ErrorMsg  string         `json:"error_msg"`
}

// APIError represents a transport-level failure talking to Mercury MES:
// a non-2xx HTTP status or an unparseable body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mercury mes: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return "mercury mes: " + e.Message
}
