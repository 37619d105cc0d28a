package chat

import (
	"strings"

	"github.com/suvai/freshmart-backend/pkg/geo"
)

// fallbackLocation is the New York City default used whenever a real position
// cannot be determined.
var fallbackLocation = geo.Point{Latitude: 40.7589, Longitude: -73.9851}

// locationPhrases are the first-person locating phrases that divert a message
// to local handling before any backend call.
var locationPhrases = []string{
	"i'm in",
	"i am in",
	"i'm at",
	"i am at",
	"my location is",
	"i live in",
	"i'm located",
}

type knownArea struct {
	Name  string
	Point geo.Point
}

// knownAreas maps rough NYC area names to coordinates. Order matters: the
// first area mentioned in the message wins.
var knownAreas = []knownArea{
	{Name: "manhattan", Point: geo.Point{Latitude: 40.7831, Longitude: -73.9712}},
	{Name: "brooklyn", Point: geo.Point{Latitude: 40.6892, Longitude: -73.9442}},
	{Name: "queens", Point: geo.Point{Latitude: 40.7282, Longitude: -73.7949}},
	{Name: "bronx", Point: geo.Point{Latitude: 40.8448, Longitude: -73.8648}},
	{Name: "new york", Point: geo.Point{Latitude: 40.7589, Longitude: -73.9851}},
	{Name: "nyc", Point: geo.Point{Latitude: 40.7589, Longitude: -73.9851}},
	{Name: "downtown", Point: geo.Point{Latitude: 40.7589, Longitude: -73.9851}},
	{Name: "uptown", Point: geo.Point{Latitude: 40.7831, Longitude: -73.9712}},
}

// isLocationStatement reports whether the message tells us where the user is.
func isLocationStatement(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range locationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// matchArea finds the first known area mentioned in the message.
func matchArea(message string) (knownArea, bool) {
	lower := strings.ToLower(message)
	for _, area := range knownAreas {
		if strings.Contains(lower, area.Name) {
			return area, true
		}
	}
	return knownArea{}, false
}

func titleCase(area string) string {
	if area == "" {
		return area
	}
	return strings.ToUpper(area[:1]) + area[1:]
}
