// Package backend selects and constructs the diff service implementation:
// the HTTP client for the hosted service, or the offline Local engine.
package backend

import (
	"fmt"

	"diffpane/client/diffapi"
	"diffpane/types"
)

// New constructs the diff service described by cfg.
func New(cfg types.BackendConfig) (types.DiffService, error) {
	switch cfg.Kind {
	case types.BackendHTTP:
		return diffapi.NewClient(cfg.URL, cfg.APIKey, cfg.TimeoutMs), nil
	case types.BackendLocal, "":
		return NewLocal(), nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Kind)
	}
}
