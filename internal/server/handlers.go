package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/marulatech/shipping-bridge/pkg/carrier"
)

// addressPayload mirrors carrier.Address on the wire.
type addressPayload struct {
	Name        string `json:"name"`
	Street1     string `json:"street1"`
	Street2     string `json:"street2,omitempty"`
	City        string `json:"city"`
	StateName   string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Mobile      string `json:"mobile,omitempty"`
	Email       string `json:"email,omitempty"`
}

func (p addressPayload) toModel() carrier.Address {
	return carrier.Address{
		Name:        p.Name,
		Street1:     p.Street1,
		Street2:     p.Street2,
		City:        p.City,
		StateName:   p.StateName,
		PostalCode:  p.PostalCode,
		CountryCode: p.CountryCode,
		CountryName: p.CountryName,
		Phone:       p.Phone,
		Mobile:      p.Mobile,
		Email:       p.Email,
	}
}

type itemPayload struct {
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	WeightKg    float64 `json:"weight_kg,omitempty"`
	LengthCm    float64 `json:"length_cm,omitempty"`
	WidthCm     float64 `json:"width_cm,omitempty"`
	HeightCm    float64 `json:"height_cm,omitempty"`
	UnitPrice   float64 `json:"unit_price,omitempty"`
}

func itemsToModel(payloads []itemPayload) []carrier.LineItem {
	items := make([]carrier.LineItem, len(payloads))
	for i, p := range payloads {
		items[i] = carrier.LineItem{
			Description: p.Description,
			Quantity:    p.Quantity,
			WeightKg:    p.WeightKg,
			LengthCm:    p.LengthCm,
			WidthCm:     p.WidthCm,
			HeightCm:    p.HeightCm,
			UnitPrice:   p.UnitPrice,
		}
	}
	return items
}

type quoteRequest struct {
	Carrier          string         `json:"carrier"`
	Origin           addressPayload `json:"origin"`
	Destination      addressPayload `json:"destination"`
	Items            []itemPayload  `json:"items"`
	ShippingWeightKg float64        `json:"shipping_weight_kg,omitempty"`
	OrderTotal       float64        `json:"order_total"`
	Reference        string         `json:"reference,omitempty"`
}

type bookingRequest struct {
	Carrier          string         `json:"carrier"`
	Reference        string         `json:"reference"`
	Sender           addressPayload `json:"sender"`
	Recipient        addressPayload `json:"recipient"`
	Items            []itemPayload  `json:"items"`
	ShippingWeightKg float64        `json:"shipping_weight_kg,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Code  int    `json:"code,omitempty"`
}

func (s *Server) handleCarriers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"carriers": s.registry.Names()})
}

// handleQuote rates an order. Per the delivery-carrier contract a rating
// failure is not an HTTP error: the response is always 200 with a success
// flag, so the host can display the message inline.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	provider, ok := s.lookupCarrier(w, req.Carrier)
	if !ok {
		return
	}

	start := time.Now()
	result := provider.RateShipment(r.Context(), &carrier.RateRequest{
		Origin:           req.Origin.toModel(),
		Destination:      req.Destination.toModel(),
		Items:            itemsToModel(req.Items),
		ShippingWeightKg: req.ShippingWeightKg,
		OrderTotal:       req.OrderTotal,
		Reference:        req.Reference,
	})

	status := "success"
	if !result.Success {
		status = "failure"
	}
	s.metrics.RecordRequest("quote", provider.Name(), status, time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	provider, ok := s.lookupCarrier(w, req.Carrier)
	if !ok {
		return
	}

	start := time.Now()
	result, err := provider.BookShipment(r.Context(), &carrier.BookingRequest{
		Reference:        req.Reference,
		Sender:           req.Sender.toModel(),
		Recipient:        req.Recipient.toModel(),
		Items:            itemsToModel(req.Items),
		ShippingWeightKg: req.ShippingWeightKg,
	})
	duration := time.Since(start).Seconds()

	if err != nil {
		s.metrics.RecordRequest("book", provider.Name(), "failure", duration)
		s.metrics.RecordError(provider.Name(), string(carrier.KindOf(err)))
		s.logger.Error("Booking failed",
			zap.String("carrier", provider.Name()),
			zap.String("reference", req.Reference),
			zap.Error(err),
		)
		writeBookingError(w, err)
		return
	}

	s.metrics.RecordRequest("book", provider.Name(), "success", duration)
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	provider, ok := s.lookupCarrier(w, r.URL.Query().Get("carrier"))
	if !ok {
		return
	}

	message := provider.CancelShipment(r.Context(), reference)
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (s *Server) handleTrackingEvents(w http.ResponseWriter, r *http.Request) {
	waybill := chi.URLParam(r, "waybill")
	provider, ok := s.lookupCarrier(w, r.URL.Query().Get("carrier"))
	if !ok {
		return
	}

	events := provider.TrackingDetails(r.Context(), waybill)
	if events == nil {
		events = []carrier.TrackingEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"waybill":      waybill,
		"events":       events,
		"tracking_url": provider.TrackingLink(waybill),
	})
}

func (s *Server) handleCurrentStatus(w http.ResponseWriter, r *http.Request) {
	waybill := chi.URLParam(r, "waybill")
	provider, ok := s.lookupCarrier(w, r.URL.Query().Get("carrier"))
	if !ok {
		return
	}

	status := provider.CurrentStatus(r.Context(), waybill)
	writeJSON(w, http.StatusOK, map[string]any{
		"waybill": waybill,
		"status":  status,
	})
}

func (s *Server) handleWaybillDetail(w http.ResponseWriter, r *http.Request) {
	waybill := chi.URLParam(r, "waybill")
	provider, ok := s.lookupCarrier(w, r.URL.Query().Get("carrier"))
	if !ok {
		return
	}

	detail := provider.WaybillDetail(r.Context(), waybill)
	if detail == nil {
		detail = carrier.WaybillDetail{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"waybill": waybill,
		"detail":  detail,
	})
}

// lookupCarrier resolves the requested carrier, defaulting to the only
// registered one when the request names none.
func (s *Server) lookupCarrier(w http.ResponseWriter, name string) (carrier.Provider, bool) {
	if name == "" {
		names := s.registry.Names()
		if len(names) == 1 {
			name = names[0]
		}
	}

	provider, err := s.registry.Get(name)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return nil, false
	}
	return provider, true
}

// writeBookingError maps the carrier error taxonomy to HTTP statuses:
// bad input data is the caller's problem, duplicate references conflict,
// and provider or transport failures are upstream errors.
func writeBookingError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}

	var ce *carrier.Error
	if errors.As(err, &ce) {
		resp.Kind = string(ce.Kind)
		resp.Code = ce.Code
	}

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, carrier.ErrDuplicateReference):
		status = http.StatusConflict
	case carrier.KindOf(err) == carrier.KindConfiguration,
		carrier.KindOf(err) == carrier.KindMapping:
		status = http.StatusBadRequest
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
