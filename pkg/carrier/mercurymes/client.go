// Package mercurymes provides integration with the Mercury MES shipping API.
package mercurymes

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marulatech/shipping-bridge/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const carrierName = "mercury_mes"

// paymentTypeCOD is the MES collect-on-delivery payment code. All bookings
// use it; other payment modes are a known gap awaiting MES documentation.
const paymentTypeCOD = "4"

// Config holds Mercury MES configuration.
type Config struct {
	Email                  string
	PrivateKey             string
	BaseURL                string
	DomesticServiceID      int
	InternationalServiceID int
	Insurance              bool
	UseMock                bool // when true, uses the mock API client
}

// Client is the Mercury MES carrier client. It implements carrier.Provider
// and delegates API calls to the underlying APIClient (mock or HTTP).
//
// The client is stateless per call: each operation gathers its input,
// resolves locations, performs one HTTP round trip and maps the response.
// Concurrent calls need no coordination.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Mercury MES client. If cfg.UseMock is true, it uses a
// mock API client; otherwise it talks to the live service.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:              cfg.BaseURL,
			Email:                cfg.Email,
			PrivateKey:           cfg.PrivateKey,
			DomesticService:      cfg.DomesticServiceID,
			InternationalService: cfg.InternationalServiceID,
			Timeout:              30 * time.Second,
			TrackingTimeout:      10 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Mercury MES client with a custom API
// client. This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// startSpan opens a span when tracing is enabled; with a nil tracer the
// no-op span keeps call sites unconditional.
func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if c.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return c.tracer.Start(ctx, name)
}

// hasCredentials reports whether both credential fields are configured.
// Missing credentials are a configuration error and must be caught before
// any network call.
func (c *Client) hasCredentials() bool {
	return c.config.Email != "" && c.config.PrivateKey != ""
}

// RateShipment calculates the freight charge for an order. It never returns
// an error: every failure class collapses into an unsuccessful RateResult
// so the host can show the message inline.
func (c *Client) RateShipment(ctx context.Context, req *carrier.RateRequest) *carrier.RateResult {
	ctx, span := c.startSpan(ctx, "mercury_mes.rate")
	defer span.End()

	if !c.hasCredentials() {
		return rateFailure("Mercury MES credentials are not configured.")
	}

	origin, err := resolveLocation(req.Origin)
	if err != nil {
		c.logger.Error("Mercury MES origin mapping failed",
			zap.String("order", req.Reference), zap.Error(err))
		return rateFailure(fmt.Sprintf("Error mapping address details for Mercury MES: %v", err))
	}
	destination, err := resolveLocation(req.Destination)
	if err != nil {
		c.logger.Error("Mercury MES destination mapping failed",
			zap.String("order", req.Reference), zap.Error(err))
		return rateFailure(fmt.Sprintf("Error mapping address details for Mercury MES: %v", err))
	}

	weight := estimateWeight(req.Items, req.ShippingWeightKg)
	shipment := []ShipmentDescriptor{{
		ID:                 "1",
		VendorID:           "0",
		SourceCountry:      strconv.Itoa(origin.CountryID),
		SourceCity:         origin.City,
		DestinationCountry: strconv.Itoa(destination.CountryID),
		DestinationCity:    destination.City,
		Insurance:          0, // quoting never carries insurance
		Pieces:             countPieces(req.Items),
		Length:             defaultLengthCm,
		Width:              defaultWidthCm,
		Height:             defaultHeightCm,
		GrossWeight:        round2(weight),
		DeclaredValue:      round2(math.Max(minDeclaredValue, req.OrderTotal)),
	}}

	c.logger.Info("Mercury MES get freight charge",
		zap.String("order", req.Reference),
		zap.Int("source_country", origin.CountryID),
		zap.Int("destination_country", destination.CountryID),
		zap.Float64("gross_weight", weight),
	)

	resp, err := c.apiClient.GetFreight(ctx, shipment)
	if err != nil {
		c.logger.Error("Mercury MES get freight request failed",
			zap.String("order", req.Reference), zap.Error(err))
		return rateFailure("Mercury MES freight request failed: network error or timeout.")
	}

	if resp.ErrorCode != codeSuccess {
		msg := resp.ErrorMsg
		if msg == "" {
			msg = "Unknown error"
		}
		c.logger.Error("Mercury MES get freight charge failed",
			zap.String("order", req.Reference),
			zap.Int("error_code", resp.ErrorCode),
			zap.String("error_msg", msg),
		)
		return rateFailure(fmt.Sprintf("Mercury MES freight charge failed: %s (Code: %d)", msg, resp.ErrorCode))
	}

	if resp.Rate == nil {
		c.logger.Warn("Mercury MES freight charge: success code but no rate returned",
			zap.String("order", req.Reference))
		return &carrier.RateResult{Success: true, Price: 0.0}
	}

	return &carrier.RateResult{Success: true, Price: float64(*resp.Rate)}
}

// BookShipment books a collection with Mercury MES. Unlike rating, booking
// failures are returned as errors so the host halts its shipment workflow.
func (c *Client) BookShipment(ctx context.Context, req *carrier.BookingRequest) (*carrier.BookingResult, error) {
	ctx, span := c.startSpan(ctx, "mercury_mes.book")
	defer span.End()

	if !c.hasCredentials() {
		return nil, carrier.NewConfigurationError(carrierName,
			"Mercury MES credentials are not configured.")
	}

	if req.Sender.IsZero() {
		return nil, carrier.NewMappingError(carrierName,
			"sender address is missing on the shipment").WithCause(carrier.ErrMissingAddress)
	}
	if req.Recipient.IsZero() {
		return nil, carrier.NewMappingError(carrierName,
			"recipient address is missing on the shipment").WithCause(carrier.ErrMissingAddress)
	}

	origin, err := resolveLocation(req.Sender)
	if err != nil {
		return nil, carrier.NewMappingError(carrierName,
			fmt.Sprintf("error mapping sender address: %v", err))
	}
	destination, err := resolveLocation(req.Recipient)
	if err != nil {
		return nil, carrier.NewMappingError(carrierName,
			fmt.Sprintf("error mapping recipient address: %v", err))
	}

	profile := buildProfile(req.Items, req.ShippingWeightKg)

	// The host's shipment reference doubles as the MES deduplication token.
	tokenNo := req.Reference
	if tokenNo == "" {
		tokenNo = uuid.New().String()
	}

	manifest := &ShipmentManifest{
		PickupAddress:   []SenderInfo{senderInfo(req.Sender, origin)},
		DeliveryAddress: []ReceiverInfo{receiverInfo(req.Recipient, destination)},
		Details:         []PaymentDetail{{PaymentType: paymentTypeCOD}},
		Items: []ItemDetail{{
			Pieces: profile.Pieces,
			Length: profile.LengthCm,
			Width:  profile.WidthCm,
			Height: profile.HeightCm,
			// MES validates these as whole numbers. Rounding sends the
			// 0.01 declared-value floor as 0, which MES accepts for
			// valueless goods.
			GrossWeight:   int(math.Round(profile.GrossWeightKg)),
			DeclaredValue: int(math.Round(profile.DeclaredValue)),
			PaymentType:   paymentTypeCOD,
		}},
	}

	c.logger.Info("Mercury MES book collection",
		zap.String("token_no", tokenNo),
		zap.Int("source_country", origin.CountryID),
		zap.Int("destination_country", destination.CountryID),
		zap.Int("pieces", profile.Pieces),
		zap.Bool("insurance", c.config.Insurance),
	)

	resp, err := c.apiClient.BookCollection(ctx, tokenNo, c.config.Insurance, manifest)
	if err != nil {
		c.logger.Error("Mercury MES booking request failed",
			zap.String("token_no", tokenNo), zap.Error(err))
		return nil, carrier.NewTransportError(carrierName,
			"Mercury MES booking request failed: network error or timeout.", err)
	}

	switch resp.ErrorCode {
	case codeSuccess:
		return c.bookingResult(tokenNo, resp)

	case codeDuplicateToken:
		msg := resp.FailureMessage()
		c.logger.Error("Mercury MES booking rejected: duplicate token",
			zap.String("token_no", tokenNo), zap.String("error_msg", msg))
		return nil, carrier.NewProviderError(carrierName, resp.ErrorCode,
			fmt.Sprintf("Mercury MES booking failed: %s. The shipment reference must be unique for MES.", msg)).
			WithCause(carrier.ErrDuplicateReference)

	default:
		msg := resp.FailureMessage()
		c.logger.Error("Mercury MES booking failed",
			zap.String("token_no", tokenNo),
			zap.Int("error_code", resp.ErrorCode),
			zap.String("error_msg", msg),
		)
		return nil, carrier.NewProviderError(carrierName, resp.ErrorCode,
			fmt.Sprintf("Mercury MES booking failed: %s", msg))
	}
}

// bookingResult maps a successful booking response. MES sometimes confirms
// pricing without issuing a waybill synchronously; that still counts as a
// success, with an empty tracking reference.
func (c *Client) bookingResult(tokenNo string, resp *CollectionResponse) (*carrier.BookingResult, error) {
	var rate float64
	if resp.Rate != nil {
		rate = float64(*resp.Rate)
	}

	if len(resp.Waybills) > 0 {
		waybill := resp.Waybills[0]
		if len(resp.Waybills) > 1 {
			c.logger.Info("Mercury MES booking returned multiple waybills; using the first",
				zap.String("token_no", tokenNo),
				zap.Strings("waybills", resp.Waybills),
			)
		}
		c.logger.Info("Mercury MES booking succeeded",
			zap.String("token_no", tokenNo),
			zap.String("waybill", waybill),
			zap.Float64("rate", rate),
		)
		return &carrier.BookingResult{
			Rate:          rate,
			WaybillNumber: waybill,
			TrackingURL:   c.TrackingLink(waybill),
		}, nil
	}

	if resp.Rate != nil {
		c.logger.Warn("Mercury MES booking returned a rate but no waybill",
			zap.String("token_no", tokenNo), zap.Float64("rate", rate))
		return &carrier.BookingResult{Rate: rate}, nil
	}

	return nil, carrier.NewProviderError(carrierName, resp.ErrorCode,
		"Mercury MES booking successful but no waybill was returned.")
}

// CancelShipment never calls the network: MES has no cancel endpoint.
func (c *Client) CancelShipment(ctx context.Context, reference string) string {
	c.logger.Info("Mercury MES cancel requested; API cancellation not available",
		zap.String("reference", reference))
	return "Cancel API not implemented for Mercury MES. Please cancel manually in MES."
}

// TrackingLink returns the human-facing tracking URL for a waybill.
func (c *Client) TrackingLink(waybill string) string {
	if waybill == "" {
		return ""
	}
	base := strings.TrimRight(c.config.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "/getshipmenttracking/wbid/" + waybill
}

// TrackingDetails returns the tracking history for a waybill. Best-effort:
// any failure degrades to an empty slice with a logged warning.
func (c *Client) TrackingDetails(ctx context.Context, waybill string) []carrier.TrackingEvent {
	resp, err := c.apiClient.TrackingDetails(ctx, waybill)
	if err != nil {
		c.logger.Warn("Mercury MES tracking lookup failed",
			zap.String("waybill", waybill), zap.Error(err))
		return nil
	}
	if resp.ErrorCode != codeSuccess {
		c.logger.Warn("Mercury MES tracking lookup rejected",
			zap.String("waybill", waybill),
			zap.Int("error_code", resp.ErrorCode),
			zap.String("error_msg", resp.ErrorMsg),
		)
		return nil
	}
	return toTrackingEvents(resp.Detail)
}

// CurrentStatus returns the latest tracking event for a waybill, or nil.
func (c *Client) CurrentStatus(ctx context.Context, waybill string) *carrier.TrackingEvent {
	resp, err := c.apiClient.CurrentTracking(ctx, waybill)
	if err != nil {
		c.logger.Warn("Mercury MES status lookup failed",
			zap.String("waybill", waybill), zap.Error(err))
		return nil
	}
	if resp.ErrorCode != codeSuccess || len(resp.Detail) == 0 {
		if resp.ErrorCode != codeSuccess {
			c.logger.Warn("Mercury MES status lookup rejected",
				zap.String("waybill", waybill),
				zap.Int("error_code", resp.ErrorCode),
				zap.String("error_msg", resp.ErrorMsg),
			)
		}
		return nil
	}
	events := toTrackingEvents(resp.Detail[:1])
	return &events[0]
}

// WaybillDetail returns the raw waybill record, or nil.
func (c *Client) WaybillDetail(ctx context.Context, waybill string) carrier.WaybillDetail {
	resp, err := c.apiClient.WaybillDetail(ctx, waybill)
	if err != nil {
		c.logger.Warn("Mercury MES waybill lookup failed",
			zap.String("waybill", waybill), zap.Error(err))
		return nil
	}
	if resp.ErrorCode != codeSuccess {
		c.logger.Warn("Mercury MES waybill lookup rejected",
			zap.String("waybill", waybill),
			zap.Int("error_code", resp.ErrorCode),
			zap.String("error_msg", resp.ErrorMsg),
		)
		return nil
	}
	return carrier.WaybillDetail(resp.Detail)
}

// ============================================================================
// Conversion helpers
// ============================================================================

func senderInfo(addr carrier.Address, loc location) SenderInfo {
	first, last := splitName(addr.Name)
	return SenderInfo{
		FirstName: first,
		LastName:  last,
		Country:   strconv.Itoa(loc.CountryID),
		State:     loc.State,
		City:      loc.City,
		Address1:  addr.Street1,
		Address2:  addr.Street2,
		Pin:       addr.PostalCode,
		Mobile:    sanitizePhone(firstNonEmpty(addr.Mobile, addr.Phone)),
		Phone:     sanitizePhone(firstNonEmpty(addr.Phone, addr.Mobile)),
		Email:     addr.Email,
	}
}

func receiverInfo(addr carrier.Address, loc location) ReceiverInfo {
	first, last := splitName(addr.Name)
	return ReceiverInfo{
		FirstName: first,
		LastName:  last,
		Country:   strconv.Itoa(loc.CountryID),
		State:     loc.State,
		City:      loc.City,
		Address1:  addr.Street1,
		Address2:  addr.Street2,
		Pin:       addr.PostalCode,
		Mobile:    sanitizePhone(firstNonEmpty(addr.Mobile, addr.Phone)),
		Phone:     sanitizePhone(firstNonEmpty(addr.Phone, addr.Mobile)),
		Email:     addr.Email,
	}
}

func toTrackingEvents(details []TrackingEventDetail) []carrier.TrackingEvent {
	events := make([]carrier.TrackingEvent, len(details))
	for i, d := range details {
		events[i] = carrier.TrackingEvent{
			Date:     d.Date,
			Status:   d.Status,
			Location: d.Location,
		}
	}
	return events
}

// splitName splits a contact name into the first/last fields MES expects.
func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "Unknown", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// sanitizePhone strips the plus sign and spaces and caps the number at the
// 15 characters MES accepts.
func sanitizePhone(number string) string {
	number = strings.ReplaceAll(number, "+", "")
	number = strings.ReplaceAll(number, " ", "")
	if len(number) > 15 {
		number = number[:15]
	}
	return number
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func rateFailure(message string) *carrier.RateResult {
	return &carrier.RateResult{Success: false, Price: 0.0, ErrorMessage: message}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsDuplicateReference reports whether a booking error was caused by a
// reused shipment reference.
func IsDuplicateReference(err error) bool {
	return errors.Is(err, carrier.ErrDuplicateReference)
}

var _ carrier.Provider = (*Client)(nil)
