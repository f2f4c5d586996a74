package search

import (
	"errors"
	"strconv"
)

// DefaultLimit is used when a caller gives no page size.
const DefaultLimit = 1000

// ErrOffsetAndPage marks a caller error: offset and page are alternative
// pagination coordinates and must not be combined.
var ErrOffsetAndPage = errors.New("specify either offset or page, not both")

// Offset converts 1-based page pagination to an engine offset.
//
//	Offset(10, 1) == 0
//	Offset(10, 2) == 10
//	Offset(10, 3) == 20
func Offset(pageSize, page int) int {
	p := page - 1
	if p < 0 {
		p = 0
	}
	return pageSize * p
}

// Page converts engine limit/offset pagination to a 1-based page number.
//
//	Page(10, 0) == 1
//	Page(10, 10) == 2
//	Page(10, 20) == 3
func Page(limit, offset int) int {
	return offset/limit + 1
}

// StartStop converts limit/offset to a half-open result window.
//
//	StartStop(10, 0) == (0, 10)
//	StartStop(10, 20) == (20, 30)
func StartStop(limit, offset int) (int, int) {
	return offset, offset + limit
}

// LimitOffset resolves pagination coordinates from request params.
// Callers give either offset (with an optional limit) or a 1-based page;
// giving both is rejected. With neither, the first page is returned.
func LimitOffset(params Params, resultsPerPage int) (limit, offset int, err error) {
	rawOffset := params.First("offset")
	rawPage := params.First("page")
	if rawOffset != "" && rawPage != "" {
		return 0, 0, ErrOffsetAndPage
	}

	limit = resultsPerPage
	if raw := params.First("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	switch {
	case rawOffset != "":
		if n, err := strconv.Atoi(rawOffset); err == nil && n >= 0 {
			offset = n
		}
	case rawPage != "":
		if n, err := strconv.Atoi(rawPage); err == nil {
			offset = Offset(limit, n)
		}
	}
	return limit, offset, nil
}
