package domain

import (
	"strconv"
	"strings"
)

// FormatLatLon renders "lat, lon" with the given number of decimals.
func FormatLatLon(lat, lon float64, decimals int) string {
	return strconv.FormatFloat(lat, 'f', decimals, 64) + ", " + strconv.FormatFloat(lon, 'f', decimals, 64)
}

// NormalizeToken turns '+' into spaces and collapses whitespace, matching how map links encode names.
func NormalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "+", " ")), " ")
}
