package geo

import "strings"

type city struct {
	name string
	lat  float64
	lng  float64
}

// knownCities is checked before falling back to hash synthesis
var knownCities = []city{
	{"mumbai", 19.0760, 72.8777},
	{"delhi", 28.7041, 77.1025},
	{"bangalore", 12.9716, 77.5946},
	{"bengaluru", 12.9716, 77.5946},
	{"hyderabad", 17.3850, 78.4867},
	{"chennai", 13.0827, 80.2707},
	{"kolkata", 22.5726, 88.3639},
	{"pune", 18.5204, 73.8567},
	{"ahmedabad", 23.0225, 72.5714},
	{"jaipur", 26.9124, 75.7873},
	{"new york", 40.7128, -74.0060},
	{"los angeles", 34.0522, -118.2437},
	{"chicago", 41.8781, -87.6298},
	{"houston", 29.7604, -95.3698},
	{"san francisco", 37.7749, -122.4194},
	{"seattle", 47.6062, -122.3321},
	{"boston", 42.3601, -71.0589},
	{"austin", 30.2672, -97.7431},
}

var usKeywords = []string{
	"usa", "united states", "america",
	"new york", "los angeles", "chicago", "houston", "san francisco",
	"seattle", "boston", "austin", "california", "texas",
}

// Bounding boxes the synthesized coordinates are mapped into
var (
	indiaBounds = bounds{latMin: 8.0, latMax: 34.0, lngMin: 68.0, lngMax: 92.0}
	usBounds    = bounds{latMin: 26.0, latMax: 48.0, lngMin: -123.0, lngMax: -70.0}
)

type bounds struct {
	latMin, latMax, lngMin, lngMax float64
}

// CoordinatesFromAddress resolves a free-text address to coordinates. A known
// city substring wins; otherwise the normalized address is hashed into a
// country-shaped bounding box so that the same input always yields the same
// point and different inputs collide with low probability. This stands in for
// a real geocoder, which the system does not have.
func CoordinatesFromAddress(address string) (lat, lng float64) {
	normalized := NormalizeAddress(address)

	for _, c := range knownCities {
		if strings.Contains(normalized, c.name) {
			return c.lat, c.lng
		}
	}

	box := indiaBounds
	for _, kw := range usKeywords {
		if strings.Contains(normalized, kw) {
			box = usBounds
			break
		}
	}

	h := addressHash(normalized)
	latSpan := box.latMax - box.latMin
	lngSpan := box.lngMax - box.lngMin

	lat = box.latMin + float64(h%10000)/10000*latSpan
	lng = box.lngMin + float64((h/10000)%10000)/10000*lngSpan
	return lat, lng
}

// addressHash sums shifted character codes, same family of hash the original
// coordinate synthesis used. Stability across calls is the only requirement.
func addressHash(s string) uint64 {
	var h uint64
	for i, r := range s {
		h += uint64(r) * uint64(i+1) << uint(i%16)
	}
	return h
}
