// Package apperr defines the typed error taxonomy shared by all services.
// Handlers map each kind to an HTTP status; services abort the whole
// operation on the first error so no partial mutation ever escapes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindForbidden
	KindInvalidTransition
	KindNegativeStock
	KindUnknownProduct
	KindConflict
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func NotFound(entity string, id interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("%s %v not found", entity, id)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

func InvalidTransition(from, to string) *Error {
	return &Error{Kind: KindInvalidTransition, Msg: fmt.Sprintf("illegal transition %s -> %s", from, to)}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidTransition, Msg: fmt.Sprintf(format, args...)}
}

func NegativeStock(productName string, have, want int) *Error {
	return &Error{
		Kind: KindNegativeStock,
		Msg:  fmt.Sprintf("insufficient stock for %s: have %d, need %d", productName, have, want),
	}
}

func UnknownProduct(id interface{}) *Error {
	return &Error{Kind: KindUnknownProduct, Msg: fmt.Sprintf("unknown product %v", id)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error to the status code handlers should respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return 404
	case KindValidation, KindNegativeStock, KindUnknownProduct:
		return 400
	case KindForbidden:
		return 403
	case KindInvalidTransition, KindConflict:
		return 409
	default:
		return 500
	}
}
