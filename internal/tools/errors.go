package tools

import (
	"errors"
	"fmt"
)

// ErrUnsupportedToolType is returned for tool types with no handler.
var ErrUnsupportedToolType = errors.New("unsupported tool type")

// ServiceError reports a downstream tool-service failure: transport errors
// carry a zero StatusCode, HTTP failures carry the upstream status.
type ServiceError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("service %s returned %d: %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("service %s unreachable: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
