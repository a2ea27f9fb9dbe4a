package types

import (
	"time"
)

type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

type Cell struct {
	ID                string     `json:"id"`
	MobileCountryCode string     `json:"mcc,omitempty"`
	MobileNetworkCode string     `json:"mnc,omitempty"`
	LocationAreaCode  string     `json:"lac,omitempty"`
	Latitude          float64    `json:"latitude"`
	Longitude         float64    `json:"longitude"`
	LastUpdated       *time.Time `json:"lastUpdated,omitempty"`
	// RankScore is the raw ranking value, larger is closer. It is not a distance.
	RankScore float64 `json:"rankScore"`
}

// RegionKey names a downloadable dataset, typically a lowercase country code such as "se".
type RegionKey string

func (k RegionKey) String() string {
	return string(k)
}
