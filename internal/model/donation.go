package model

import "time"

// DonationStatus is a donation's position in the lifecycle
type DonationStatus string

// Donation lifecycle states
const (
	DonationStatusAvailable DonationStatus = "available"
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusOrdered   DonationStatus = "ordered"
	DonationStatusPicked    DonationStatus = "picked"
	DonationStatusInTransit DonationStatus = "in_transit"
	DonationStatusDelivered DonationStatus = "delivered"
	DonationStatusExpired   DonationStatus = "expired"
)

// Food category tags
const (
	CategoryCooked    = "cooked"
	CategoryProduce   = "produce"
	CategoryBakery    = "bakery"
	CategoryPackaged  = "packaged"
	CategoryDairy     = "dairy"
	CategoryBeverages = "beverages"
	CategoryOther     = "other"
)

// Donation is a single surplus-food offer
type Donation struct {
	ID            string         `json:"id"`
	FoodType      string         `json:"food_type"`
	Category      string         `json:"category"`
	Quantity      float64        `json:"quantity"`
	Unit          string         `json:"unit"`
	Expiry        time.Time      `json:"expiry"`
	Status        DonationStatus `json:"status"`
	DonorID       string         `json:"donor_id"`
	DonorName     string         `json:"donor_name"`
	VolunteerID   string         `json:"volunteer_id,omitempty"`
	VolunteerName string         `json:"volunteer_name,omitempty"`
	NGOID         string         `json:"ngo_id,omitempty"`
	NGOName       string         `json:"ngo_name,omitempty"`
	Location      Location       `json:"location"`
	AIConfidence  float64        `json:"ai_confidence,omitempty"`
	QRPayload     string         `json:"qr_payload,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// DonationPatch holds the fields a partial update may touch. Nil fields are
// left untouched by the merge.
type DonationPatch struct {
	FoodType      *string         `json:"food_type,omitempty"`
	Category      *string         `json:"category,omitempty"`
	Quantity      *float64        `json:"quantity,omitempty"`
	Unit          *string         `json:"unit,omitempty"`
	Expiry        *time.Time      `json:"expiry,omitempty"`
	Status        *DonationStatus `json:"status,omitempty"`
	VolunteerID   *string         `json:"volunteer_id,omitempty"`
	VolunteerName *string         `json:"volunteer_name,omitempty"`
	NGOID         *string         `json:"ngo_id,omitempty"`
	NGOName       *string         `json:"ngo_name,omitempty"`
	QRPayload     *string         `json:"qr_payload,omitempty"`
}

// CreateDonationRequest represents donation creation parameters
type CreateDonationRequest struct {
	FoodType     string   `json:"food_type" binding:"required"`
	Category     string   `json:"category" binding:"omitempty,oneof=cooked produce bakery packaged dairy beverages other"`
	Quantity     float64  `json:"quantity" binding:"required,gt=0"`
	Unit         string   `json:"unit" binding:"required"`
	ExpiryHours  int      `json:"expiry_hours" binding:"omitempty,gt=0"`
	Latitude     float64  `json:"lat"`
	Longitude    float64  `json:"lng"`
	Address      string   `json:"address" binding:"required"`
	AIConfidence *float64 `json:"ai_confidence"`
}

// NearbyQuery represents a proximity search
type NearbyQuery struct {
	Latitude  float64 `form:"lat" binding:"required"`
	Longitude float64 `form:"lng" binding:"required"`
	RadiusKm  float64 `form:"radius_km"`
	Address   string  `form:"address"`
}

// IsTerminal reports whether no further lifecycle transition is possible
func (s DonationStatus) IsTerminal() bool {
	return s == DonationStatusDelivered || s == DonationStatusExpired
}
