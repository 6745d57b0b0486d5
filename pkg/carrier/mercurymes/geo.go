package mercurymes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marulatech/shipping-bridge/pkg/carrier"
)

// CountryZambia is the MES identifier of the domestic country. For Zambian
// addresses the API expects numeric state and city IDs; everywhere else it
// accepts the plain names.
const CountryZambia = 3

// lusakaID is the MES ID of the Lusaka province and of Lusaka city. Unmapped
// or missing Zambian states and cities fall back to it so that bookings keep
// flowing with incomplete address data, at the cost of possible misrouting.
const lusakaID = "1"

// mesCountriesByISO maps ISO 3166-1 alpha-2 codes to MES country IDs. This is
// the primary lookup; the display-name table below is the fallback.
var mesCountriesByISO = map[string]int{
	"zm": 3,
	"za": 142,
	"in": 8,
	"jp": 9,
	"cn": 10,
}

// mesCountriesByName maps MES display names to country IDs. The names are
// MES-specific and do not always match ISO names.
var mesCountriesByName = map[string]int{
	"Zambia":                     3,
	"Ghana":                      6,
	"India":                      8,
	"Japan":                      9,
	"China":                      10,
	"South Africa":               142,
	"South Africa- Johannesburg": 142,
	"South Africa- Others":       143,
	"United Kingdom":             169,
	"United Kingdom- London":     169,
	"United Kingdom Others":      170,
	"United States":              171,
}

// mesZambiaStates maps Zambian province names to MES state IDs.
var mesZambiaStates = map[string]int{
	"Lusaka Province":        1,
	"Southern Province":      2,
	"Copperbelt Province":    3,
	"North Western Province": 4,
	"Northern Province":      5,
	"Western Province":       10,
	"Eastern Province":       11,
	"Luapula Province":       13,
	"Central Province":       14,
	"Muchinga Province":      15,
}

// mesZambiaCities maps Zambian city names to MES city IDs.
var mesZambiaCities = map[string]int{
	"Lusaka":      1,
	"Livingstone": 2,
	"Ndola":       13,
	"Solwezi":     4,
	"Kitwe":       12,
	"Chingola":    3,
	"Kabwe":       10,
	"Chipata":     19,
	"Mongu":       22,
	"Mansa":       21,
}

// location is an address resolved to the MES representation. State and City
// are numeric-ID strings for Zambia and literal names for other countries.
type location struct {
	CountryID int
	State     string
	City      string
}

// resolveCountry maps a host address to a MES country ID. ISO code first,
// MES display name second.
func resolveCountry(addr carrier.Address) (int, error) {
	if code := strings.ToLower(strings.TrimSpace(addr.CountryCode)); code != "" {
		if id, ok := mesCountriesByISO[code]; ok {
			return id, nil
		}
	}
	if id, ok := mesCountriesByName[strings.TrimSpace(addr.CountryName)]; ok {
		return id, nil
	}
	name := addr.CountryName
	if name == "" {
		name = addr.CountryCode
	}
	if name == "" {
		name = "unknown"
	}
	return 0, fmt.Errorf("no MES country mapping for %q", name)
}

// resolveState returns the MES state token for a country. Zambia requires a
// numeric ID and defaults to Lusaka on a miss; other countries pass the name
// through unchanged.
func resolveState(countryID int, stateName string) string {
	if countryID != CountryZambia {
		return stateName
	}
	if id, ok := mesZambiaStates[stateName]; ok {
		return strconv.Itoa(id)
	}
	return lusakaID
}

// resolveCity returns the MES city token for a country, with the same Zambia
// rules as resolveState.
func resolveCity(countryID int, cityName string) string {
	if countryID != CountryZambia {
		return cityName
	}
	if id, ok := mesZambiaCities[cityName]; ok {
		return strconv.Itoa(id)
	}
	return lusakaID
}

// resolveLocation maps a full host address to its MES location tokens.
func resolveLocation(addr carrier.Address) (location, error) {
	countryID, err := resolveCountry(addr)
	if err != nil {
		return location{}, err
	}
	return location{
		CountryID: countryID,
		State:     resolveState(countryID, addr.StateName),
		City:      resolveCity(countryID, addr.City),
	}, nil
}
