package util

import "errors"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxResultWindow matches Elasticsearch's default index.max_result_window.
	MaxResultWindow = 10000
)

var ErrPageOutOfRange = errors.New("page out of range")

// Page normalizes 1-based page/size query values into an offset and limit.
// Out-of-range sizes fall back to DefaultPageSize. Pages reaching past
// MaxResultWindow are rejected with ErrPageOutOfRange.
func Page(page, size int) (from, limit int, err error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if page-1 > (MaxResultWindow-size)/size {
		return 0, 0, ErrPageOutOfRange
	}
	return (page - 1) * size, size, nil
}
