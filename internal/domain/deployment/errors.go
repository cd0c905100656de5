package deployment

import "errors"

var (
	ErrDateRangeTooLarge = errors.New("requested date range exceeds the maximum allowed")
	ErrInvalidDateRange  = errors.New("date_from must not be after date_to")
)
