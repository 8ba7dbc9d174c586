package nmea

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToDecimalDegrees converts an NMEA ddmm.mmmm (latitude) or dddmm.mmmm
// (longitude) value to unsigned decimal degrees. The hemisphere sign is
// applied by the caller.
func ToDecimalDegrees(raw string, isLatitude bool) (float64, error) {
	width := 3
	if isLatitude {
		width = 2
	}
	raw = strings.TrimSpace(raw)
	if len(raw) <= width {
		return 0, fmt.Errorf("%w: %q too short", ErrInvalidCoordinate, raw)
	}
	degPart, minPart := raw[:width], raw[width:]
	for i := 0; i < len(degPart); i++ {
		if degPart[i] < '0' || degPart[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, raw)
		}
	}
	deg, err := strconv.Atoi(degPart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidCoordinate, raw, err)
	}
	if !isDecimal(minPart) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, raw)
	}
	mins, err := strconv.ParseFloat(minPart, 64)
	if err != nil || math.IsNaN(mins) || math.IsInf(mins, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, raw)
	}
	return float64(deg) + mins/60.0, nil
}

// isDecimal reports whether s is digits with at most one '.', and at
// least one digit.
func isDecimal(s string) bool {
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// applyHemisphere negates southern and western values.
func applyHemisphere(v float64, hemi string) float64 {
	switch strings.TrimSpace(hemi) {
	case "S", "W":
		return -v
	}
	return v
}

// parseLatLon decodes a latitude/longitude pair with their hemisphere
// indicators.
func parseLatLon(lat, latHemi, lon, lonHemi string) (float64, float64, error) {
	la, err := ToDecimalDegrees(lat, true)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude: %w", err)
	}
	lo, err := ToDecimalDegrees(lon, false)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude: %w", err)
	}
	return applyHemisphere(la, latHemi), applyHemisphere(lo, lonHemi), nil
}

// FormatCoordinate renders decimal degrees with six decimal places.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// ToClockTime formats a raw hhmmss[.fff] UTC value as HH:MM:SS[.fff].
// Values with fewer than six integer digits are returned unchanged.
func ToClockTime(raw string) string {
	base, frac, hasFrac := strings.Cut(raw, ".")
	if len(base) < 6 {
		return raw
	}
	clock := base[:2] + ":" + base[2:4] + ":" + base[4:]
	if hasFrac {
		// Only the first fractional group is kept ("1.2.3" -> ".2").
		frac, _, _ = strings.Cut(frac, ".")
		return clock + "." + frac
	}
	return clock
}
