package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID generates a record id from the creation timestamp plus a random
// suffix, keeping ids opaque but roughly sortable by creation time.
func NewID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Location is a geocoded pickup or delivery point
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Address   string  `json:"address"`
}

// JSONMap represents a generic JSON object
type JSONMap map[string]interface{}
