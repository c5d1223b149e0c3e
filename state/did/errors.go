package did

import "fmt"

type Code string

const (
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeValidationFailed   Code = "VALIDATION_FAILED"
	CodeAddressMismatch    Code = "ADDRESS_MISMATCH"
	CodeInsufficientFunds  Code = "INSUFFICIENT_FUNDS"
	CodeInvalidTransaction Code = "INVALID_TRANSACTION"
)

// Error is returned for every rejected operation. Field and Reason are only set for
// validation failures.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s %s", e.Code, e.Field, e.Reason)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on Code only, so errors.Is(err, ErrNotFound) holds for every not found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(code Code, format string, a ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func validationFailed(field, reason string) *Error {
	return &Error{Code: CodeValidationFailed, Message: "validation failed", Field: field, Reason: reason}
}

func invalidTransaction(cause error, format string, a ...any) *Error {
	return &Error{Code: CodeInvalidTransaction, Message: fmt.Sprintf(format, a...), Cause: cause}
}

var (
	ErrAlreadyExists      = &Error{Code: CodeAlreadyExists, Message: "record already exists"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "record not found"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "you are not authorized to perform this action"}
	ErrValidationFailed   = &Error{Code: CodeValidationFailed, Message: "validation failed"}
	ErrAddressMismatch    = &Error{Code: CodeAddressMismatch, Message: "record address does not match the derived address"}
	ErrInsufficientFunds  = &Error{Code: CodeInsufficientFunds, Message: "insufficient funds for rent"}
	ErrInvalidTransaction = &Error{Code: CodeInvalidTransaction, Message: "invalid transaction"}
)
