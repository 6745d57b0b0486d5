package mercurymes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marulatech/shipping-bridge/pkg/carrier"
)

func TestResolveCountry_ISOCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"zm", 3},
		{"ZM", 3},
		{"za", 142},
		{"in", 8},
		{"jp", 9},
		{"cn", 10},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := resolveCountry(carrier.Address{CountryCode: tt.code})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCountry_NameFallback(t *testing.T) {
	// MES-specific display names that have no ISO mapping of their own.
	tests := []struct {
		name string
		want int
	}{
		{"Zambia", 3},
		{"Ghana", 6},
		{"South Africa- Johannesburg", 142},
		{"South Africa- Others", 143},
		{"United Kingdom- London", 169},
		{"United Kingdom Others", 170},
		{"United States", 171},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveCountry(carrier.Address{CountryName: tt.name})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCountry_ISOTakesPrecedence(t *testing.T) {
	got, err := resolveCountry(carrier.Address{CountryCode: "zm", CountryName: "United States"})
	require.NoError(t, err)
	assert.Equal(t, CountryZambia, got)
}

func TestResolveCountry_UnknownFails(t *testing.T) {
	_, err := resolveCountry(carrier.Address{CountryCode: "fr", CountryName: "France"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "France")
}

func TestResolveCountry_EmptyFails(t *testing.T) {
	_, err := resolveCountry(carrier.Address{})
	assert.Error(t, err)
}

func TestResolveState_Zambia(t *testing.T) {
	tests := []struct {
		state string
		want  string
	}{
		{"Lusaka Province", "1"},
		{"Southern Province", "2"},
		{"Copperbelt Province", "3"},
		{"Muchinga Province", "15"},
		// Unmapped and missing states default to Lusaka, never fail
		// and never produce an empty token.
		{"Nonexistent Province", "1"},
		{"", "1"},
	}

	for _, tt := range tests {
		got := resolveState(CountryZambia, tt.state)
		assert.Equal(t, tt.want, got, "state %q", tt.state)
		assert.NotEmpty(t, got)
	}
}

func TestResolveState_OtherCountriesPassThrough(t *testing.T) {
	assert.Equal(t, "Gauteng", resolveState(142, "Gauteng"))
	assert.Equal(t, "", resolveState(142, ""))
	assert.Equal(t, "Greater London", resolveState(169, "Greater London"))
}

func TestResolveCity_Zambia(t *testing.T) {
	tests := []struct {
		city string
		want string
	}{
		{"Lusaka", "1"},
		{"Livingstone", "2"},
		{"Ndola", "13"},
		{"Kitwe", "12"},
		{"Mongu", "22"},
		{"Nonexistent Town", "1"},
		{"", "1"},
	}

	for _, tt := range tests {
		got := resolveCity(CountryZambia, tt.city)
		assert.Equal(t, tt.want, got, "city %q", tt.city)
		assert.NotEmpty(t, got)
	}
}

func TestResolveCity_OtherCountriesPassThrough(t *testing.T) {
	assert.Equal(t, "Johannesburg", resolveCity(142, "Johannesburg"))
	assert.Equal(t, "", resolveCity(171, ""))
}

func TestResolveLocation_ZambiaCapital(t *testing.T) {
	loc, err := resolveLocation(carrier.Address{
		CountryCode: "zm",
		StateName:   "Lusaka Province",
		City:        "Lusaka",
	})
	require.NoError(t, err)
	assert.Equal(t, CountryZambia, loc.CountryID)
	assert.Equal(t, "1", loc.State)
	assert.Equal(t, "1", loc.City)
}

func TestResolveLocation_International(t *testing.T) {
	loc, err := resolveLocation(carrier.Address{
		CountryName: "United States",
		StateName:   "California",
		City:        "San Francisco",
	})
	require.NoError(t, err)
	assert.Equal(t, 171, loc.CountryID)
	assert.Equal(t, "California", loc.State)
	assert.Equal(t, "San Francisco", loc.City)
}

func TestResolveLocation_UnknownCountry(t *testing.T) {
	_, err := resolveLocation(carrier.Address{CountryCode: "de"})
	assert.Error(t, err)
}
