package mercurymes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the production Mercury MES endpoint.
const DefaultBaseURL = "http://116.202.29.37/quotation1/app"

// HTTPAPIClient is the production implementation of APIClient.
//
// The API is form-and-query based rather than a JSON body API: /getfreight
// takes everything as query parameters and /bookcollection takes a form-
// encoded body, with the nested shipment object JSON-encoded into a single
// field in both cases.
type HTTPAPIClient struct {
	baseURL              string
	email                string
	privateKey           string
	domesticService      int
	internationalService int

	// Quoting and booking are user-blocking, tracking is best-effort, so
	// they run on separately bounded clients.
	httpClient     *http.Client
	trackingClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL              string
	Email                string
	PrivateKey           string
	DomesticService      int
	InternationalService int
	Timeout              time.Duration // quote/book, default 30s
	TrackingTimeout      time.Duration // tracking family, default 10s
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	trackingTimeout := cfg.TrackingTimeout
	if trackingTimeout == 0 {
		trackingTimeout = 10 * time.Second
	}

	domestic := cfg.DomesticService
	if domestic == 0 {
		domestic = 1
	}

	international := cfg.InternationalService
	if international == 0 {
		international = 4
	}

	return &HTTPAPIClient{
		baseURL:              strings.TrimRight(baseURL, "/"),
		email:                cfg.Email,
		privateKey:           cfg.PrivateKey,
		domesticService:      domestic,
		internationalService: international,
		httpClient:           &http.Client{Timeout: timeout},
		trackingClient:       &http.Client{Timeout: trackingTimeout},
	}
}

// GetFreight fetches the freight charge via GET /getfreight. Both service
// IDs are sent on every request; MES infers the context from the country
// codes inside the shipment payload.
func (c *HTTPAPIClient) GetFreight(ctx context.Context, shipment []ShipmentDescriptor) (*FreightResponse, error) {
	payload, err := json.Marshal(shipment)
	if err != nil {
		return nil, fmt.Errorf("marshaling shipment: %w", err)
	}

	params := c.credentialParams()
	params.Set("shipment", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/getfreight?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var result FreightResponse
	if err := c.do(c.httpClient, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BookCollection books a pickup via POST /bookcollection. MES expects form
// fields even though the shipment field's value is a JSON string.
func (c *HTTPAPIClient) BookCollection(ctx context.Context, tokenNo string, insurance bool, manifest *ShipmentManifest) (*CollectionResponse, error) {
	payload, err := json.Marshal([]*ShipmentManifest{manifest})
	if err != nil {
		return nil, fmt.Errorf("marshaling shipment: %w", err)
	}

	form := c.credentialParams()
	form.Set("token_no", tokenNo)
	form.Set("insurance", boolFlag(insurance))
	form.Set("shipment", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/bookcollection", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result CollectionResponse
	if err := c.do(c.httpClient, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TrackingDetails retrieves the tracking history for a waybill.
func (c *HTTPAPIClient) TrackingDetails(ctx context.Context, waybill string) (*TrackingResponse, error) {
	return c.getTracking(ctx, "/getshipmenttrackingdetails/wbid/"+url.PathEscape(waybill))
}

// CurrentTracking retrieves the tracking list whose first element is the
// current status.
func (c *HTTPAPIClient) CurrentTracking(ctx context.Context, waybill string) (*TrackingResponse, error) {
	return c.getTracking(ctx, "/getshipmenttracking/wbid/"+url.PathEscape(waybill))
}

// WaybillDetail retrieves the raw waybill record.
func (c *HTTPAPIClient) WaybillDetail(ctx context.Context, waybill string) (*WaybillResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/getwaybilldetail/bid/"+url.PathEscape(waybill), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var result WaybillResponse
	if err := c.do(c.trackingClient, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPAPIClient) getTracking(ctx context.Context, path string) (*TrackingResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var result TrackingResponse
	if err := c.do(c.trackingClient, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// credentialParams returns the parameters every MES call carries.
func (c *HTTPAPIClient) credentialParams() url.Values {
	params := url.Values{}
	params.Set("email", c.email)
	params.Set("private_key", c.privateKey)
	params.Set("domestic_service", strconv.Itoa(c.domesticService))
	params.Set("international_service", strconv.Itoa(c.internationalService))
	return params
}

// do executes the request and decodes the JSON body into out.
func (c *HTTPAPIClient) do(client *http.Client, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "shipping-bridge/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Message: "invalid response format: " + err.Error()}
	}
	return nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
