package http

import (
	"net/http"
	"strconv"
	"time"

	"hms/pkg/config"
	apperrors "hms/pkg/errors"
)

// DateLayout is the wire format for check-in/check-out dates. Bookings
// operate on whole nights, so dates carry no time component.
const DateLayout = "2006-01-02"

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ParseDate parses a YYYY-MM-DD query or body value into a UTC midnight
// timestamp. An empty value yields a nil time with no error.
func ParseDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " date, must be YYYY-MM-DD")
	}
	return &t, nil
}
