package llm

import (
	"fmt"
	"strings"
)

// HTTPStatusError is the shared non-2xx error shape for all provider clients,
// so retry classification can key on the status code regardless of backend.
type HTTPStatusError struct {
	Provider   string
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "provider status error"
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s status: %s", e.Provider, e.Operation, e.Status)
	}
	return fmt.Sprintf("%s %s status: %s: %s", e.Provider, e.Operation, e.Status, body)
}

// BothProvidersFailedError carries both underlying causes when the primary and
// the fallback extraction attempts fail. Neither error is ever dropped.
type BothProvidersFailedError struct {
	Primary     string
	Fallback    string
	PrimaryErr  error
	FallbackErr error
}

func (e *BothProvidersFailedError) Error() string {
	return fmt.Sprintf("both providers failed. Primary (%s): %v, Fallback (%s): %v",
		e.Primary, e.PrimaryErr, e.Fallback, e.FallbackErr)
}

func (e *BothProvidersFailedError) Unwrap() []error {
	return []error{e.PrimaryErr, e.FallbackErr}
}
