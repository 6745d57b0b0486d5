package mercurymes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTPClient(baseURL string) *HTTPAPIClient {
	return NewHTTPAPIClient(HTTPAPIClientConfig{
		BaseURL:              baseURL,
		Email:                "ops@example.com",
		PrivateKey:           "test-key",
		DomesticService:      1,
		InternationalService: 4,
	})
}

func TestHTTPAPIClient_GetFreight(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error_code": 508, "rate": "150.00"}`))
	}))
	defer server.Close()

	client := newTestHTTPClient(server.URL)
	resp, err := client.GetFreight(context.Background(), []ShipmentDescriptor{{
		ID:            "1",
		SourceCountry: "3",
		SourceCity:    "1",
		Pieces:        2,
		GrossWeight:   1.5,
		DeclaredValue: 100,
	}})

	require.NoError(t, err)
	assert.Equal(t, 508, resp.ErrorCode)
	require.NotNil(t, resp.Rate)
	assert.Equal(t, 150.0, float64(*resp.Rate))

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodGet, captured.Method)
	assert.Equal(t, "/getfreight", captured.URL.Path)

	query := captured.URL.Query()
	assert.Equal(t, "ops@example.com", query.Get("email"))
	assert.Equal(t, "test-key", query.Get("private_key"))
	assert.Equal(t, "1", query.Get("domestic_service"))
	assert.Equal(t, "4", query.Get("international_service"))

	var shipment []ShipmentDescriptor
	require.NoError(t, json.Unmarshal([]byte(query.Get("shipment")), &shipment))
	require.Len(t, shipment, 1)
	assert.Equal(t, "3", shipment[0].SourceCountry)
	assert.Equal(t, 2, shipment[0].Pieces)
	assert.Equal(t, 1.5, shipment[0].GrossWeight)
}

func TestHTTPAPIClient_GetFreight_NumericRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code": 508, "rate": 85.5}`))
	}))
	defer server.Close()

	client := newTestHTTPClient(server.URL)
	resp, err := client.GetFreight(context.Background(), nil)

	require.NoError(t, err)
	require.NotNil(t, resp.Rate)
	assert.Equal(t, 85.5, float64(*resp.Rate))
}

func TestHTTPAPIClient_BookCollection(t *testing.T) {
	var form map[string][]string
	var method, path, contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Write([]byte(`{"error_code": 508, "rate": "200.00", "waybill": ["WB123"]}`))
	}))
	defer server.Close()

	manifest := &ShipmentManifest{
		PickupAddress:   []SenderInfo{{FirstName: "Chanda", Country: "3", State: "1", City: "1"}},
		DeliveryAddress: []ReceiverInfo{{FirstName: "Mutale", Country: "3", State: "3", City: "13"}},
		Details:         []PaymentDetail{{PaymentType: "4"}},
		Items:           []ItemDetail{{Pieces: 1, Length: 30, Width: 20, Height: 15, GrossWeight: 1, DeclaredValue: 100, PaymentType: "4"}},
	}

	client := newTestHTTPClient(server.URL)
	resp, err := client.BookCollection(context.Background(), "WH/OUT/00001", true, manifest)

	require.NoError(t, err)
	assert.Equal(t, 508, resp.ErrorCode)
	assert.Equal(t, []string{"WB123"}, resp.Waybills)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/bookcollection", path)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)

	get := func(key string) string {
		if v, ok := form[key]; ok && len(v) > 0 {
			return v[0]
		}
		return ""
	}
	assert.Equal(t, "ops@example.com", get("email"))
	assert.Equal(t, "test-key", get("private_key"))
	assert.Equal(t, "WH/OUT/00001", get("token_no"))
	assert.Equal(t, "1", get("insurance"))

	// The shipment field is a JSON one-element array wrapping the manifest.
	var shipped []ShipmentManifest
	require.NoError(t, json.Unmarshal([]byte(get("shipment")), &shipped))
	require.Len(t, shipped, 1)
	require.Len(t, shipped[0].PickupAddress, 1)
	assert.Equal(t, "Chanda", shipped[0].PickupAddress[0].FirstName)
	require.Len(t, shipped[0].Items, 1)
	assert.Equal(t, "4", shipped[0].Items[0].PaymentType)
}

func TestHTTPAPIClient_BookCollection_InsuranceOff(t *testing.T) {
	var insurance string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		insurance = r.PostFormValue("insurance")
		w.Write([]byte(`{"error_code": 508, "waybill": ["WB124"]}`))
	}))
	defer server.Close()

	client := newTestHTTPClient(server.URL)
	_, err := client.BookCollection(context.Background(), "WH/OUT/00002", false, &ShipmentManifest{})

	require.NoError(t, err)
	assert.Equal(t, "0", insurance)
}

func TestHTTPAPIClient_TrackingPaths(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"error_code": 508, "detail": [{"date": "2026-08-30 09:00", "status": "Collected", "location": "Lusaka"}]}`))
	}))
	defer server.Close()

	client := newTestHTTPClient(server.URL)
	ctx := context.Background()

	details, err := client.TrackingDetails(ctx, "WB123")
	require.NoError(t, err)
	require.Len(t, details.Detail, 1)
	assert.Equal(t, "Collected", details.Detail[0].Status)

	_, err = client.CurrentTracking(ctx, "WB123")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/getshipmenttrackingdetails/wbid/WB123",
		"/getshipmenttracking/wbid/WB123",
	}, paths)
}

func TestHTTPAPIClient_WaybillDetail(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"error_code": 508, "detail": {"waybill_no": "WB123", "status": "Delivered"}}`))
	}))
	defer server.Close()

	client := newTestHTTPClient(server.URL)
	resp, err := client.WaybillDetail(context.Background(), "WB123")

	require.NoError(t, err)
	assert.Equal(t, "/getwaybilldetail/bid/WB123", path)
	assert.Equal(t, "Delivered", resp.Detail["status"])
}

func TestHTTPAPIClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestHTTPClient(server.URL)
	_, err := client.GetFreight(context.Background(), nil)

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "internal error")
}

func TestHTTPAPIClient_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	client := newTestHTTPClient(server.URL)
	_, err := client.TrackingDetails(context.Background(), "WB123")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "invalid response format")
}

func TestHTTPAPIClient_Defaults(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"error_code": 508}`))
	}))
	defer server.Close()

	client := NewHTTPAPIClient(HTTPAPIClientConfig{BaseURL: server.URL})
	_, err := client.GetFreight(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, query["domestic_service"])
	assert.Equal(t, []string{"4"}, query["international_service"])
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		isErr bool
	}{
		{name: "quoted decimal", input: `"150.00"`, want: 150.0},
		{name: "bare number", input: `85.5`, want: 85.5},
		{name: "quoted integer", input: `"42"`, want: 42.0},
		{name: "null", input: `null`, want: 0},
		{name: "empty string", input: `""`, want: 0},
		{name: "garbage", input: `"free"`, isErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var a Amount
			err := json.Unmarshal([]byte(tc.input), &a)
			if tc.isErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, float64(a))
		})
	}
}
