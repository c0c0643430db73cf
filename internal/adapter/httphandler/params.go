package httphandler

import (
	"net/url"
	"strconv"
	"time"

	"github.com/niksmo/choco-shop/internal/core/domain"
)

func queryInt(q url.Values, key string) (int, error) {
	s := q.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.ValidationError{Field: key, Reason: "must be an integer"}
	}
	return n, nil
}

func queryBool(q url.Values, key string) (bool, error) {
	s := q.Get(key)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, domain.ValidationError{Field: key, Reason: "must be a boolean"}
	}
	return b, nil
}

// queryTime accepts RFC 3339 timestamps and plain dates.
func queryTime(q url.Values, key string) (time.Time, error) {
	s := q.Get(key)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, domain.ValidationError{
		Field: key, Reason: "must be a date or an RFC 3339 timestamp",
	}
}

func page(q url.Values) (limit, offset int, err error) {
	if limit, err = queryInt(q, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(q, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func productFilter(q url.Values) (domain.ProductFilter, error) {
	limit, offset, err := page(q)
	if err != nil {
		return domain.ProductFilter{}, err
	}
	featured, err := queryBool(q, "featured")
	if err != nil {
		return domain.ProductFilter{}, err
	}
	return domain.ProductFilter{
		Category:     q.Get("category"),
		Query:        q.Get("q"),
		FeaturedOnly: featured,
		Limit:        limit,
		Offset:       offset,
	}, nil
}
