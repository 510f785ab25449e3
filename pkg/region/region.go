// Package region holds the fixed Karnataka geography used to bound location
// text and derive city, district and region.
package region

import (
	"strings"

	"github.com/jmylchreest/collegescout/pkg/record"
)

// State is the fixed state every record is attributed to.
const State = "Karnataka"

// Region names.
const (
	South   = "South Karnataka"
	North   = "North Karnataka"
	Coastal = "Coastal Karnataka"
)

// Cities are the recognized place names, in match order.
var Cities = []string{
	"bangalore", "mysore", "hubli", "dharwad", "belgaum", "mangalore",
	"gulbarga", "davangere", "bellary", "bijapur", "shimoga", "tumkur",
	"raichur", "bidar", "hassan", "udupi", "chickmagalur",
}

type district struct {
	city     string
	district string
}

// districts is ordered: "Hubli-Dharwad" resolves to Hubli.
var districts = []district{
	{"bangalore", "Bangalore Urban"},
	{"mysore", "Mysuru"},
	{"hubli", "Dharwad"},
	{"dharwad", "Dharwad"},
	{"belgaum", "Belagavi"},
	{"mangalore", "Dakshina Kannada"},
	{"gulbarga", "Kalaburagi"},
	{"davangere", "Davanagere"},
	{"bellary", "Ballari"},
	{"bijapur", "Vijayapura"},
	{"shimoga", "Shivamogga"},
	{"tumkur", "Tumakuru"},
}

var regions = map[string]string{
	"Bangalore": South,
	"Mysore":    South,
	"Tumkur":    South,
	"Hubli":     North,
	"Dharwad":   North,
	"Belgaum":   North,
	"Mangalore": Coastal,
	"Udupi":     Coastal,
}

// FindCity returns the first entry of Cities contained in the lower-cased
// text.
func FindCity(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, city := range Cities {
		if strings.Contains(lower, city) {
			return city, true
		}
	}
	return "", false
}

// Details derives city, district and region from location text. State is
// always set; the other fields stay empty when no mapped city is found.
func Details(location string) record.LocationInfo {
	info := record.LocationInfo{State: State}
	if location == "" {
		return info
	}

	lower := strings.ToLower(location)
	for _, d := range districts {
		if strings.Contains(lower, d.city) {
			info.City = strings.ToUpper(d.city[:1]) + d.city[1:]
			info.District = d.district
			break
		}
	}
	info.Region = regions[info.City]
	return info
}
