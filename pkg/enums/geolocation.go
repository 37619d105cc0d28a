package enums

import "fmt"

// GeolocationError mirrors the browser geolocation failure codes reported by
// storefront clients.
type GeolocationError string

const (
	GeolocationErrorPermissionDenied    GeolocationError = "permission_denied"
	GeolocationErrorPositionUnavailable GeolocationError = "position_unavailable"
	GeolocationErrorTimeout             GeolocationError = "timeout"
	GeolocationErrorUnknown             GeolocationError = "unknown"
)

var validGeolocationErrors = []GeolocationError{
	GeolocationErrorPermissionDenied,
	GeolocationErrorPositionUnavailable,
	GeolocationErrorTimeout,
	GeolocationErrorUnknown,
}

// String implements fmt.Stringer.
func (g GeolocationError) String() string {
	return string(g)
}

// ParseGeolocationError converts raw input into a GeolocationError; anything
// unrecognized maps to the unknown code rather than failing.
func ParseGeolocationError(value string) (GeolocationError, error) {
	if value == "" {
		return "", fmt.Errorf("geolocation error code is required")
	}
	for _, candidate := range validGeolocationErrors {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return GeolocationErrorUnknown, nil
}
