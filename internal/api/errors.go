package api

import (
	"errors"
	"fmt"

	"github.com/quocvuong92/ai-apps/internal/request"
)

// Configuration failures wrapped by ConfigurationError
var (
	ErrNotBound       = errors.New("no provider config bound")
	ErrNilConfig      = errors.New("cannot bind nil config")
	ErrConfigInactive = errors.New("provider config is disabled")
)

// Capabilities reported by InfrastructureUnavailableError
const (
	CapabilityCache       = "cache"
	CapabilityLockFactory = "lock factory"
)

// fallbackMessage is used when a failed response carries no message
const fallbackMessage = "request failed"

// ConfigurationError means the dispatcher cannot send with its current binding
type ConfigurationError struct {
	ConfigName string
	Err        error
}

func (e *ConfigurationError) Error() string {
	if e.ConfigName == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("app %q: %v", e.ConfigName, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ProviderError is a provider response with status >= 400
type ProviderError struct {
	Status  int
	Message string
	// Code is the provider's error code; empty when the body had none
	Code string

	Descriptor request.Descriptor
	Response   *Response
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.Status, e.Message)
}

// HasCode reports whether the provider supplied an error code
func (e *ProviderError) HasCode() bool {
	return e.Code != ""
}

// InfrastructureUnavailableError is returned when an optional capability was
// not injected
type InfrastructureUnavailableError struct {
	Capability string
}

func (e *InfrastructureUnavailableError) Error() string {
	return e.Capability + " not available"
}

// IsProviderError reports whether err wraps a *ProviderError with one of the
// given statuses, or any status when none are given
func IsProviderError(err error, statuses ...int) bool {
	var perr *ProviderError
	if !errors.As(err, &perr) {
		return false
	}
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if perr.Status == s {
			return true
		}
	}
	return false
}
