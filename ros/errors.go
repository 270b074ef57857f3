package ros

import (
	"fmt"

	"github.com/pkg/errors"
)

// ServiceFailure is returned when a service call cannot complete: the
// provider is unreachable, rejects the request or fails internally.
// Error returns the human readable diagnostic only.
type ServiceFailure struct {
	Service string
	Reason  string
	Err     error
}

// NewServiceFailure builds a failure without an underlying cause.
func NewServiceFailure(service string, reason string) *ServiceFailure {
	return &ServiceFailure{Service: service, Reason: reason}
}

func newServiceFailure(service string, cause error, format string, args ...interface{}) *ServiceFailure {
	return &ServiceFailure{
		Service: service,
		Reason:  fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

func (e *ServiceFailure) Error() string {
	return e.Reason
}

// Cause lets errors.Cause see through the failure.
func (e *ServiceFailure) Cause() error {
	return e.Err
}

func (e *ServiceFailure) Unwrap() error {
	return e.Err
}

// AsServiceFailure finds a *ServiceFailure in err's chain.
func AsServiceFailure(err error) (*ServiceFailure, bool) {
	var failure *ServiceFailure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}

// IsServiceFailure reports whether err's chain holds a *ServiceFailure.
func IsServiceFailure(err error) bool {
	_, ok := AsServiceFailure(err)
	return ok
}
