package services

import "errors"

// ErrNotFound covers both a genuinely absent entity and an entity owned by a
// different user. The two cases are deliberately indistinguishable to callers.
var ErrNotFound = errors.New("not found")

// Validation error codes.
const (
	CodeInvalidCategory = "invalid_category"
	CodeInvalidAccount  = "invalid_account"
	CodeInvalidAmount   = "invalid_amount"
	CodeInvalidPeriod   = "invalid_period"
	CodeInvalidField    = "invalid_field"
)

type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func invalidCategory() error {
	return &ValidationError{Code: CodeInvalidCategory, Message: "invalid category"}
}

func invalidAccount() error {
	return &ValidationError{Code: CodeInvalidAccount, Message: "invalid account"}
}
