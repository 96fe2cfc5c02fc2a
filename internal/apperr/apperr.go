// Package apperr defines the error taxonomy shared by the engines and
// the HTTP layer: invalid input, not found, business-rule violation
// (with a stable machine-readable code) and internal store failure.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary-layer mapping.
type Kind int

const (
	// KindInternal covers store failures and other unexpected errors.
	KindInternal Kind = iota
	// KindInvalidInput covers malformed or missing request data.
	KindInvalidInput
	// KindNotFound covers references to records that do not exist.
	KindNotFound
	// KindBusinessRule covers well-formed requests the domain rejects.
	KindBusinessRule
)

// Stable business-rule codes clients can branch on.
const (
	CodeDuckNotAvailable = "DUCK_NOT_AVAILABLE"
	CodeDuckSold         = "DUCK_SOLD"
	CodeCPFTaken         = "CPF_TAKEN"
	CodeEmployeeIDTaken  = "EMPLOYEE_ID_TAKEN"
	CodeSellerHasSales   = "SELLER_HAS_SALES"
	CodeSaleImmutable    = "SALE_IMMUTABLE"
	CodeUsernameTaken    = "USERNAME_TAKEN"
)

// Error is a classified application error. Code is set only for
// business-rule violations.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid builds an invalid-input error.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a not-found error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Business builds a business-rule violation carrying a stable code.
func Business(code, format string, args ...any) *Error {
	return &Error{Kind: KindBusinessRule, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps a store or infrastructure failure.
func Internal(err error, msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the kind of err, defaulting to KindInternal for
// unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// CodeOf extracts the business-rule code of err, if any.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
