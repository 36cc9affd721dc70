package translate

import "errors"

// Translation failures are data-contract errors: a broker-supplied code with
// no mapping must fail fast, never default, because downstream logic keys
// behaviour off the translated value. Errors are wrapped with the offending
// wire value; match with errors.Is.
var (
	ErrUnknownAssetType   = errors.New("unknown asset type")
	ErrUnknownOrderStatus = errors.New("unknown order status")
	ErrUnknownRight       = errors.New("unknown right")
)
