package rules

import (
	"strings"
	"unicode"
)

// postalCodes maps two-letter postal abbreviations to canonical jurisdiction keys.
var postalCodes = map[string]string{
	"al": "alabama", "ak": "alaska", "az": "arizona", "ar": "arkansas",
	"ca": "california", "co": "colorado", "ct": "connecticut", "de": "delaware",
	"dc": "districtofcolumbia", "fl": "florida", "ga": "georgia", "hi": "hawaii",
	"id": "idaho", "il": "illinois", "in": "indiana", "ia": "iowa",
	"ks": "kansas", "ky": "kentucky", "la": "louisiana", "me": "maine",
	"md": "maryland", "ma": "massachusetts", "mi": "michigan", "mn": "minnesota",
	"ms": "mississippi", "mo": "missouri", "mt": "montana", "ne": "nebraska",
	"nv": "nevada", "nh": "newhampshire", "nj": "newjersey", "nm": "newmexico",
	"ny": "newyork", "nc": "northcarolina", "nd": "northdakota", "oh": "ohio",
	"ok": "oklahoma", "or": "oregon", "pa": "pennsylvania", "ri": "rhodeisland",
	"sc": "southcarolina", "sd": "southdakota", "tn": "tennessee", "tx": "texas",
	"ut": "utah", "vt": "vermont", "va": "virginia", "wa": "washington",
	"wv": "westvirginia", "wi": "wisconsin", "wy": "wyoming",
}

// Normalize lower-cases a jurisdiction key and strips separators, so "New York",
// "new-york" and "NEW_YORK" all become "newyork".
func Normalize(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.ToLower(key) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
