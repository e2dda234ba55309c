// Package qr encodes and resolves the QR payloads attached to donations and
// order line items. A payload is either a deep link to the donation detail
// view or a human-readable text block; both forms stay parseable by the
// scanning flow.
package qr

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/zerofoodhero/api/internal/model"
)

const textHeader = "ZERO FOOD HERO DONATION"

// DeepLink builds the donation detail URL encoded into QR codes
func DeepLink(baseURL, donationID string) string {
	return strings.TrimRight(baseURL, "/") + "/donations/" + donationID
}

// TextBlock builds the human-readable payload form
func TextBlock(d *model.Donation) string {
	return fmt.Sprintf(
		"%s\nID: %s\nFood: %s\nQuantity: %g %s\nDonor: %s\nLocation: %s",
		textHeader, d.ID, d.FoodType, d.Quantity, d.Unit, d.DonorName, d.Location.Address,
	)
}

// Resolve extracts a donation id from a scanned payload. URLs yield the path
// segment after "donations"; text blocks yield the "ID:" line. An empty
// string means the payload carried no recognizable id.
func Resolve(payload string) string {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return ""
	}

	if strings.HasPrefix(payload, "http://") || strings.HasPrefix(payload, "https://") {
		return idFromURL(payload)
	}

	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ID:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ID:"))
		}
	}

	return ""
}

func idFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "donations" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return ""
}
