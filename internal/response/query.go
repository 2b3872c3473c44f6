// file: internal/response/query.go
package response

import (
	"net/url"
	"strconv"
	"time"

	"campushire/internal/services"
)

// Typed query-parameter readers. An absent parameter yields nil; a present
// but malformed one yields a validation error naming the parameter, so bad
// filters fail the request instead of being silently ignored.

// QueryInt64 reads an optional int64 parameter, typically an ID filter.
func QueryInt64(q url.Values, name string) (*int64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, services.NewValidationError(name+" must be an integer", nil)
	}
	return &v, nil
}

// QueryInt reads an optional int parameter.
func QueryInt(q url.Values, name string) (*int, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, services.NewValidationError(name+" must be an integer", nil)
	}
	return &v, nil
}

// QueryFloat reads an optional float parameter.
func QueryFloat(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, services.NewValidationError(name+" must be a number", nil)
	}
	return &v, nil
}

// QueryBool reads an optional boolean parameter.
func QueryBool(q url.Values, name string) (*bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, services.NewValidationError(name+" must be true or false", nil)
	}
	return &v, nil
}

// QueryDate reads an optional timestamp parameter, accepting RFC3339 or a
// bare YYYY-MM-DD date.
func QueryDate(q url.Values, name string) (*time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, services.NewValidationError(name+" must be an RFC3339 timestamp or YYYY-MM-DD date", nil)
}
