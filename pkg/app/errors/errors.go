// Package errors defines ServiceError, the error type handlers return to choose the HTTP
// status and the message a client sees.
package errors

import (
	"errors"
	"net/http"
)

// Category classifies a ServiceError and selects its HTTP status.
type Category int

const (
	// CategoryGeneralError is an unexpected failure inside the coordinator
	CategoryGeneralError Category = iota
	// CategoryDataError is a malformed or invalid request
	CategoryDataError
	// CategoryUnauthorized is a request without valid credentials
	CategoryUnauthorized
	// CategoryForbidden is a request whose proof does not check out, e.g. a wrong preimage
	CategoryForbidden
	// CategoryResourceNotFound is a request for an offer or route that does not exist
	CategoryResourceNotFound
	// CategoryNotSupported is a method the route does not serve
	CategoryNotSupported
	// CategoryDataConflict is a request that collides with recorded data
	CategoryDataConflict
	// CategoryLocked is a request that lost a race for the same offer
	CategoryLocked
	// CategoryInvalidTransition is an operation the offer's status does not allow
	CategoryInvalidTransition
	// CategoryExpired is a request past a deadline it depends on
	CategoryExpired
	// CategoryStale is an observation older than what is recorded
	CategoryStale
	// CategoryDependencyFailure is a failing store, broker or identity provider
	CategoryDependencyFailure
)

var categoryNames = map[Category]string{
	CategoryGeneralError:      "CategoryGeneralError",
	CategoryDataError:         "CategoryDataError",
	CategoryUnauthorized:      "CategoryUnauthorized",
	CategoryForbidden:         "CategoryForbidden",
	CategoryResourceNotFound:  "CategoryResourceNotFound",
	CategoryNotSupported:      "CategoryNotSupported",
	CategoryDataConflict:      "CategoryDataConflict",
	CategoryLocked:            "CategoryLocked",
	CategoryInvalidTransition: "CategoryInvalidTransition",
	CategoryExpired:           "CategoryExpired",
	CategoryStale:             "CategoryStale",
	CategoryDependencyFailure: "CategoryDependencyFailure",
}

var categoryStatus = map[Category]int{
	CategoryGeneralError:      http.StatusInternalServerError,
	CategoryDataError:         http.StatusBadRequest,
	CategoryUnauthorized:      http.StatusUnauthorized,
	CategoryForbidden:         http.StatusForbidden,
	CategoryResourceNotFound:  http.StatusNotFound,
	CategoryNotSupported:      http.StatusMethodNotAllowed,
	CategoryDataConflict:      http.StatusConflict,
	CategoryLocked:            http.StatusLocked,
	CategoryInvalidTransition: http.StatusUnprocessableEntity,
	CategoryExpired:           http.StatusGone,
	CategoryStale:             http.StatusPreconditionFailed,
	CategoryDependencyFailure: http.StatusBadGateway,
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryGeneralError]
}

// ServiceError carries a client facing Message next to the internal Err, which is only
// logged.
type ServiceError struct {
	Category Category
	Message  string
	// Reason is a stable machine readable code returned alongside Message.
	Reason string
	Err    error
}

// Error returns the internal error text when there is one
func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

// Unwrap returns the underlying error
func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is matches a target whose text equals the client message
func (err ServiceError) Is(target error) bool {
	return err.Message == target.Error()
}

// StatusCode returns the HTTP status for the category
func (err ServiceError) StatusCode() int {
	if status, ok := categoryStatus[err.Category]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Is reports whether err is a ServiceError of category cat
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// WithReason sets the machine readable reason on a ServiceError and returns it.
// Errors that are not ServiceErrors are returned unchanged.
func WithReason(err error, reason string) error {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		svcErr.Reason = reason
	}
	return err
}

func newError(cat Category, err error, fallback, message string) error {
	if err == nil {
		err = errors.New(fallback)
	}
	return &ServiceError{Category: cat, Message: message, Err: err}
}

// GeneralError hides err behind "Internal Server Error"
func GeneralError(err error) error {
	return newError(CategoryGeneralError, err, "internal server error", "Internal Server Error")
}

// DependencyError hides err behind "Dependency Failure"
func DependencyError(err error) error {
	return newError(CategoryDependencyFailure, err, "dependency failure", "Dependency Failure")
}

// The constructors below return message to the client and keep err for the logs.

// ResourceNotFoundError is a 404
func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, "resource not found: "+message, message)
}

// BadRequestError is a 400
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, "bad request: "+message, message)
}

// NotSupportedError is a 405
func NotSupportedError(err error, message string) error {
	return newError(CategoryNotSupported, err, "not supported: "+message, message)
}

// ForbiddenError is a 403
func ForbiddenError(err error, message string) error {
	return newError(CategoryForbidden, err, "request forbidden", message)
}

// UnAuthorizedError is a 401
func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, "unauthorized", message)
}

// ConflictError is a 409
func ConflictError(err error, message string) error {
	return newError(CategoryDataConflict, err, "conflict", message)
}

// LockedError is a 423
func LockedError(err error, message string) error {
	return newError(CategoryLocked, err, "locked", message)
}

// InvalidTransitionError is a 422
func InvalidTransitionError(err error, message string) error {
	return newError(CategoryInvalidTransition, err, "invalid transition", message)
}

// ExpiredError is a 410
func ExpiredError(err error, message string) error {
	return newError(CategoryExpired, err, "expired", message)
}

// StaleError is a 412
func StaleError(err error, message string) error {
	return newError(CategoryStale, err, "stale", message)
}
