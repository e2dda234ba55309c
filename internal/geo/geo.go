// Package geo provides the distance and address-matching primitives used by
// the donation store and the proximity queries. The address matcher is a
// token-overlap heuristic, not a geocoder: false positives and negatives are
// expected and acceptable at this application's tolerance.
package geo

import (
	"math"
	"strings"
)

const earthRadiusKm = 6371.0

// Distance returns the Haversine great-circle distance between two points in
// kilometers, rounded to 2 decimal places.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKm*c*100) / 100
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// suffix expansions applied during normalization so "MG Rd" and
// "MG Road" compare equal
var suffixExpansions = map[string]string{
	"rd":   "road",
	"st":   "street",
	"ave":  "avenue",
	"blvd": "boulevard",
	"ln":   "lane",
	"dr":   "drive",
	"hwy":  "highway",
	"apt":  "apartment",
	"nr":   "near",
	"opp":  "opposite",
}

// NormalizeAddress lowercases, trims, collapses whitespace, strips
// punctuation and expands common street-suffix abbreviations.
func NormalizeAddress(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		if full, ok := suffixExpansions[w]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}

// AddressesMatch reports whether two free-text addresses plausibly refer to
// the same place. Exact match and substring containment short-circuit;
// otherwise the fraction of significant tokens from the smaller set present
// in the larger must meet the threshold.
func AddressesMatch(a, b string, threshold float64) bool {
	na, nb := NormalizeAddress(a), NormalizeAddress(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	ta, tb := tokens(na), tokens(nb)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}
	small, large := ta, tb
	if len(tb) < len(ta) {
		small, large = tb, ta
	}

	matched := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			matched++
		}
	}
	return float64(matched)/float64(len(small)) >= threshold
}

// MatchThreshold is the default token-overlap fraction for AddressesMatch
const MatchThreshold = 0.7

func tokens(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(normalized) {
		if len(w) > 2 {
			set[w] = struct{}{}
		}
	}
	return set
}
