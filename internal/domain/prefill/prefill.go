// Package prefill holds the dummy onboarding data sent with a connect URL so
// that the gateway signup form opens already filled in.
package prefill

import (
	"maps"
	"slices"
	"strconv"
)

// Fields is one section (user or business) of the signup form
type Fields map[string]any

// Prefill groups the user and business sections of the signup form
type Prefill struct {
	User     Fields
	Business Fields
}

// DefaultCountryCode selects the template used when a merchant has no country
const DefaultCountryCode = "USA"

func template() Prefill {
	return Prefill{
		User: Fields{
			"first_name": "Bob",
			"last_name":  "Merchant",
			"dob_day":    "01",
			"dob_month":  "01",
			"dob_year":   "1970",
		},
		Business: Fields{
			"name":                       "Example CO",
			"registered_as":              "sole_proprietorship",
			"industry":                   "software",
			"website":                    "https://example.com",
			"description":                "send money",
			"established_on":             "2001-05",
			"annual_volume_amount":       "50,000",
			"average_transaction_amount": "10",
			"maximum_transaction_amount": "100",
			"ship_physical_goods":        false,
		},
	}
}

var overlays = map[string]Prefill{
	"USA": {
		User: Fields{
			"phone":          "312-555-5555",
			"street_address": "222 W Merchandise Mart Plaza",
			"locality":       "Chicago",
			"region":         "IL",
			"postal_code":    "60654",
			"country":        "USA",
		},
		Business: Fields{
			"phone":          "312-555-5555",
			"currency":       "USD",
			"street_address": "222 W Merchandise Mart Plaza",
			"locality":       "Chicago",
			"region":         "IL",
			"postal_code":    "60654",
			"country":        "USA",
		},
	},
	"GBR": {
		User: Fields{
			"phone":          "+4403457345345",
			"street_address": "123 Alderson Road",
			"postal_code":    "NR30 1QG",
			"locality":       "Great Yarmouth",
			"region":         "Norfolk",
			"country":        "GBR",
		},
		Business: Fields{
			"phone":          "+4403457345345",
			"currency":       "GBP",
			"street_address": "123 Alderson Road",
			"postal_code":    "NR30 1QG",
			"locality":       "Great Yarmouth",
			"region":         "Norfolk",
			"country":        "GBR",
		},
	},
	"FRA": {
		User: Fields{
			"phone":   "+33140205050",
			"country": "FRA",
		},
		Business: Fields{
			"phone":          "+33140205050",
			"currency":       "FRA",
			"street_address": "45 Avenue des Ternes",
			"postal_code":    "75008",
			"locality":       "Paris",
			"region":         "France",
			"country":        "FRA",
		},
	},
}

// UserAndBusiness returns the base template merged with the overlay for
// countryCode. Unknown codes get the base template unchanged.
func UserAndBusiness(countryCode string) Prefill {
	base := template()
	overlay, ok := overlays[countryCode]
	if !ok {
		return base
	}
	return Prefill{
		User:     merge(base.User, overlay.User),
		Business: merge(base.Business, overlay.Business),
	}
}

// SupportedCountries lists the country codes with a dedicated overlay
func SupportedCountries() []string {
	return slices.Sorted(maps.Keys(overlays))
}

func merge(base, overlay Fields) Fields {
	out := make(Fields, len(base)+len(overlay))
	maps.Copy(out, base)
	for k, v := range overlay {
		if nested, ok := v.(Fields); ok {
			if existing, ok := out[k].(Fields); ok {
				out[k] = merge(existing, nested)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Params flattens the prefill into connect URL parameters such as
// user[first_name] and business[currency].
func (p Prefill) Params() map[string]string {
	params := make(map[string]string, len(p.User)+len(p.Business))
	flatten(params, "user", p.User)
	flatten(params, "business", p.Business)
	return params
}

func flatten(dst map[string]string, prefix string, fields Fields) {
	for k, v := range fields {
		key := prefix + "[" + k + "]"
		switch val := v.(type) {
		case Fields:
			flatten(dst, key, val)
		case bool:
			dst[key] = strconv.FormatBool(val)
		case string:
			dst[key] = val
		}
	}
}
