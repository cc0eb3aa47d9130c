package schema

import (
	"errors"
	"fmt"
)

// error categories
var (
	ErrEncoding    = errors.New("encoding_error")
	ErrStorage     = errors.New("storage_error")
	ErrNetwork     = errors.New("network_error")
	ErrUnsupported = errors.New("unsupported_operation")
	ErrValidation  = errors.New("validation_error")
)

var (
	ErrNotExist = errors.New("not_exist_record")

	// ledger
	ErrInvalidAddressEncoding = fmt.Errorf("%w: invalid_address_encoding", ErrEncoding)
	ErrAddressTooShort        = fmt.Errorf("%w: address_too_short", ErrEncoding)
	ErrSerialization          = fmt.Errorf("%w: serialization_error", ErrEncoding)
	ErrMalformedBlob          = fmt.Errorf("%w: malformed_blob", ErrEncoding)
	ErrSubmissionFailed       = fmt.Errorf("%w: submission_failed", ErrNetwork)
	ErrStorageUnavailable     = fmt.Errorf("%w: storage_unavailable", ErrStorage)
	ErrHistoryFetchFailed     = fmt.Errorf("%w: history_fetch_failed", ErrNetwork)

	// swap
	ErrUnsupportedPair      = fmt.Errorf("%w: unsupported_pair", ErrUnsupported)
	ErrQuoteUnavailable     = fmt.Errorf("%w: quote_unavailable", ErrNetwork)
	ErrApprovalFailed       = fmt.Errorf("%w: approval_failed", ErrNetwork)
	ErrSwapSubmissionFailed = fmt.Errorf("%w: swap_submission_failed", ErrNetwork)

	// request input
	ErrInvalidAmount     = fmt.Errorf("%w: invalid_amount", ErrValidation)
	ErrInvalidAddress    = fmt.Errorf("%w: invalid_address", ErrValidation)
	ErrInvalidPrivateKey = fmt.Errorf("%w: invalid_private_key", ErrValidation)
	ErrUnsupportedToken  = fmt.Errorf("%w: unsupported_token", ErrUnsupported)
	ErrProviderFailed    = fmt.Errorf("%w: provider_failed", ErrNetwork)
)
