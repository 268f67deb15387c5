package market

import (
	"errors"
	"fmt"
)

// ErrEmptyHistory indicates the provider answered with zero usable rows.
// Its text matches the transient "empty response" signature so the retry
// layer treats a row-less payload as retryable.
var ErrEmptyHistory = errors.New("market: empty response, no rows returned")

// DataUnavailableError reports that no price data could be obtained for a
// symbol after the retry budget was spent. It carries the request context
// needed for a useful user-facing message.
type DataUnavailableError struct {
	Symbol string
	Period string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("market: no data available for %s (%s): %v", e.Symbol, e.Period, e.Err)
	}
	return fmt.Sprintf("market: no data available for %s (%s)", e.Symbol, e.Period)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// IsDataUnavailable reports whether err wraps a DataUnavailableError.
func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	return errors.As(err, &target)
}
