package carrier

// Address represents a shipping address as supplied by the host platform.
// State and city are free-form names; carriers map them to their own
// location codes as needed.
type Address struct {
	Name        string
	Street1     string
	Street2     string
	City        string
	StateName   string
	PostalCode  string
	CountryCode string // ISO 3166-1 alpha-2, e.g., "zm", "za"
	CountryName string
	Phone       string
	Mobile      string
	Email       string
}

// IsZero reports whether the address carries no usable data.
func (a Address) IsZero() bool {
	return a.Name == "" && a.Street1 == "" && a.City == "" &&
		a.CountryCode == "" && a.CountryName == ""
}

// LineItem represents one order or shipment line.
type LineItem struct {
	Description string
	Quantity    float64
	WeightKg    float64 // per unit
	LengthCm    float64
	WidthCm     float64
	HeightCm    float64
	UnitPrice   float64 // list price per unit
}

// RateRequest is the request for calculating a freight charge.
type RateRequest struct {
	Origin      Address
	Destination Address
	Items       []LineItem

	// ShippingWeightKg overrides the weight derived from items when > 0.
	ShippingWeightKg float64

	// OrderTotal is the order amount used as declared value.
	OrderTotal float64

	// Reference identifies the order in logs only.
	Reference string
}

// RateResult is the outcome of a rating call. Failures are carried in the
// result rather than an error so the host can surface them inline.
type RateResult struct {
	Success      bool    `json:"success"`
	Price        float64 `json:"price"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// BookingRequest is the request for booking a shipment.
type BookingRequest struct {
	// Reference is the host's unique shipment identifier. Carriers reuse
	// it as a deduplication token, so it must be unique per booking.
	Reference string

	Sender    Address
	Recipient Address
	Items     []LineItem

	// ShippingWeightKg overrides the weight derived from items when > 0.
	ShippingWeightKg float64
}

// BookingResult is the outcome of a successful booking.
type BookingResult struct {
	Rate float64 `json:"rate"`

	// WaybillNumber is the carrier-issued tracking reference. It may be
	// empty when the carrier confirms pricing without issuing a waybill
	// synchronously.
	WaybillNumber string `json:"waybill_number"`

	TrackingURL string `json:"tracking_url,omitempty"`
}

// TrackingEvent is one entry in a shipment's tracking history.
type TrackingEvent struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Location string `json:"location"`
}

// WaybillDetail is the carrier's raw waybill record. Its shape is carrier
// specific, so it is passed through untyped.
type WaybillDetail map[string]any
