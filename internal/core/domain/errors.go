package domain

// ErrorCode is the machine-readable code surfaced to API callers.
type ErrorCode string

const (
	CodeInvalidAmount          ErrorCode = "INVALID_AMOUNT"
	CodeInvalidChannel         ErrorCode = "INVALID_CHANNEL"
	CodeInvalidRecipient       ErrorCode = "INVALID_RECIPIENT"
	CodeInvalidAccountFormat   ErrorCode = "INVALID_ACCOUNT_FORMAT"
	CodeInvalidBankCode        ErrorCode = "INVALID_BANK_CODE"
	CodeAccountNotFound        ErrorCode = "ACCOUNT_NOT_FOUND"
	CodeInsufficientFunds      ErrorCode = "INSUFFICIENT_FUNDS"
	CodeTransferNotFound       ErrorCode = "TRANSFER_NOT_FOUND"
	CodeInvalidStateTransition ErrorCode = "INVALID_STATE_TRANSITION"
	CodeNotCancellable         ErrorCode = "TRANSFER_NOT_CANCELLABLE"
	CodeUnauthorized           ErrorCode = "UNAUTHORIZED"
	CodeStillProcessing        ErrorCode = "STILL_PROCESSING"
	CodeInvalidRequest         ErrorCode = "INVALID_REQUEST"
)

// Error is a domain error with a stable code and a human message.
// Validation and state errors are reported through these; business outcomes
// (insufficient funds, injected network validation faults) are not errors
// at all — they surface as a FAILED transfer with a FailReason.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

// Is lets errors.Is match two domain errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidAmount          = &Error{CodeInvalidAmount, "amount must be greater than zero"}
	ErrInvalidChannel         = &Error{CodeInvalidChannel, "channel must be BANK_ACCOUNT or MOBILE_NUMBER"}
	ErrInvalidRecipient       = &Error{CodeInvalidRecipient, "recipient details are missing or invalid"}
	ErrInvalidAccountFormat   = &Error{CodeInvalidAccountFormat, "account number must be at least 10 digits"}
	ErrInvalidBankCode        = &Error{CodeInvalidBankCode, "bank code is required"}
	ErrAccountNotFound        = &Error{CodeAccountNotFound, "account not found"}
	ErrInsufficientFunds      = &Error{CodeInsufficientFunds, "insufficient funds"}
	ErrTransferNotFound       = &Error{CodeTransferNotFound, "transfer not found"}
	ErrInvalidStateTransition = &Error{CodeInvalidStateTransition, "transfer is not pending"}
	ErrNotCancellable         = &Error{CodeNotCancellable, "transfer is already being processed"}
	ErrUnauthorized           = &Error{CodeUnauthorized, "caller is not authorized"}
	ErrStillProcessing        = &Error{CodeStillProcessing, "transfer has not reached a terminal status"}
	ErrInvalidRequest         = &Error{CodeInvalidRequest, "invalid request"}
)
