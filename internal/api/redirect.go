package api

import (
	"math"
	"net/http"
	"strconv"
)

// ParseMaxAge parses a compact duration such as "60s", "5m", "1h" or "7d"
// into seconds. It returns false for anything that is not one or more
// digits followed by exactly one of s, m, h, d, and for values that
// overflow uint64.
func ParseMaxAge(s string) (uint64, bool) {
	if len(s) < 2 {
		return 0, false
	}
	num, unit := s[:len(s)-1], s[len(s)-1]

	var mult uint64
	switch unit {
	case 's':
		mult = 1
	case 'm':
		mult = 60
	case 'h':
		mult = 3600
	case 'd':
		mult = 86400
	default:
		return 0, false
	}

	for i := 0; i < len(num); i++ {
		if num[i] < '0' || num[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil || n > math.MaxUint64/mult {
		return 0, false
	}
	return n * mult, true
}

// RedirectURL joins prefix and filename with a single slash.
func RedirectURL(prefix, filename string) string {
	return prefix + "/" + filename
}

// redirect writes a 302 to target, cacheable for maxAge seconds when cache
// is true.
func redirect(w http.ResponseWriter, target string, maxAge uint64, cache bool) {
	w.Header().Set("Location", target)
	if cache {
		w.Header().Set("Cache-Control", "public, max-age="+strconv.FormatUint(maxAge, 10))
	}
	w.WriteHeader(http.StatusFound)
}
