package httperr

import (
	"errors"
	"fmt"
)

// ===============================
// Validation (400)
// ===============================

type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Code + ": " + e.Message
}

func ErrValidation(code, message string) error {
	return ValidationError{Code: code, Message: message}
}

// ===============================
// Conflict (409)
// ===============================

type ConflictError struct {
	Code   string
	Reason string
}

func (e ConflictError) Error() string {
	return e.Code + ": " + e.Reason
}

func ErrConflict(code, reason string) error {
	return ConflictError{Code: code, Reason: reason}
}

// ===============================
// No pricing rule (422)
// ===============================

type NoRuleError struct {
	Weekday   string
	From      string
	To        string
	Ambiguous bool
}

func (e NoRuleError) Error() string {
	if e.Ambiguous {
		return fmt.Sprintf("ambiguous pricing rules for %s %s-%s", e.Weekday, e.From, e.To)
	}
	return fmt.Sprintf("no pricing rule covers %s %s-%s", e.Weekday, e.From, e.To)
}

func (e NoRuleError) Code() string {
	if e.Ambiguous {
		return "ambiguous_pricing_rule"
	}
	return "no_pricing_rule"
}

// ===============================
// Authorization (403) / Not found (404)
// ===============================

type ForbiddenError struct {
	Code string
}

func (e ForbiddenError) Error() string {
	return e.Code
}

func ErrForbidden(code string) error {
	return ForbiddenError{Code: code}
}

type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e NotFoundError) Code() string {
	return e.Resource + "_not_found"
}

func ErrNotFound(resource string) error {
	return NotFoundError{Resource: resource}
}

// ===============================
// Lifecycle rule (400)
// ===============================

// BusinessError carries a rule violation that has no dedicated type,
// such as an invalid lifecycle transition.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// ===============================
// Helpers
// ===============================

// IsBusiness reports whether err is a BusinessError with the given code.
func IsBusiness(err error, code string) bool {
	var be BusinessError
	return errors.As(err, &be) && be.Code == code
}

func IsConflict(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func IsForbidden(err error) bool {
	var fe ForbiddenError
	return errors.As(err, &fe)
}

func IsNoRule(err error) bool {
	var ne NoRuleError
	return errors.As(err, &ne)
}
