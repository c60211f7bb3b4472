package service

import (
	"fmt"
	"strings"

	"busbook/internal/domain"
)

// LocationCatalog resolves the pickup and drop points of a city.
type LocationCatalog interface {
	Points(city string) []domain.Location
}

// StaticLocations is a fixed per-city catalog of boarding points.
type StaticLocations map[string][]domain.Location

// DefaultLocations covers the cities served at launch.
var DefaultLocations = StaticLocations{
	"bengaluru": {
		{ID: "blr-majestic", Name: "Majestic (Kempegowda Bus Station)", City: "Bengaluru"},
		{ID: "blr-silkboard", Name: "Silk Board Junction", City: "Bengaluru"},
		{ID: "blr-hebbal", Name: "Hebbal Flyover", City: "Bengaluru"},
	},
	"hyderabad": {
		{ID: "hyd-mgbs", Name: "MGBS (Mahatma Gandhi Bus Station)", City: "Hyderabad"},
		{ID: "hyd-kukatpally", Name: "Kukatpally Housing Board", City: "Hyderabad"},
		{ID: "hyd-lbnagar", Name: "LB Nagar", City: "Hyderabad"},
	},
	"chennai": {
		{ID: "maa-koyambedu", Name: "Koyambedu CMBT", City: "Chennai"},
		{ID: "maa-guindy", Name: "Guindy", City: "Chennai"},
	},
	"mumbai": {
		{ID: "bom-dadar", Name: "Dadar East", City: "Mumbai"},
		{ID: "bom-borivali", Name: "Borivali National Park", City: "Mumbai"},
	},
	"pune": {
		{ID: "pnq-swargate", Name: "Swargate", City: "Pune"},
		{ID: "pnq-wakad", Name: "Wakad Bridge", City: "Pune"},
	},
}

// Points returns the boarding points of city. Unknown cities get a
// single main bus stand.
func (c StaticLocations) Points(city string) []domain.Location {
	key := strings.ToLower(strings.TrimSpace(city))
	if points, ok := c[key]; ok {
		out := make([]domain.Location, len(points))
		copy(out, points)
		return out
	}

	slug := strings.ReplaceAll(key, " ", "-")
	return []domain.Location{{
		ID:   slug + "-main",
		Name: fmt.Sprintf("%s Main Bus Stand", city),
		City: city,
	}}
}
