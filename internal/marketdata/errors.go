package marketdata

import "errors"

var (
	// ErrAmbiguousContract reports that contract qualification resolved
	// fewer contracts than were requested. The whole batch is rejected:
	// silently proceeding with a partial watchlist is worse than failing.
	ErrAmbiguousContract = errors.New("ambiguous contract qualification")

	// ErrChainNotFound reports that no option-parameter chain matched the
	// underlying's trading class on the smart-routing venue.
	ErrChainNotFound = errors.New("option chain not found")
)
