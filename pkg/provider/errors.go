package provider

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey is returned before any network I/O when no API credential is
// configured.
var ErrNoAPIKey = errors.New("provider API key is not configured")

// ProviderError is a non-success response from the provider. It is only
// surfaced for the first page of a search; later-page failures end the
// fetch loop and keep the partial results.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Status, truncate(e.Body, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
