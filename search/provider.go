// Package search builds search-engine queries from refinements and fans them
// out to a web search provider.
package search

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jobgenie/backend/config"
	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/utils"
)

// Options tune a single provider call
type Options struct {
	Num     int
	Country string
}

// Provider is a web search backend: given a query string, return a ranked
// list of results. Implementations merge any specialized jobs result set
// into the returned slice.
type Provider interface {
	Search(ctx context.Context, query string, opts Options) ([]models.SearchResult, error)
}

// NewProvider builds the provider selected by cfg.SearchProvider
func NewProvider(cfg *config.Config) (Provider, error) {
	client := utils.NewHTTPClient(time.Duration(cfg.HTTPTimeoutSeconds) * time.Second)
	switch cfg.SearchProvider {
	case config.ProviderSerpAPI:
		return NewSerpAPIClient(cfg.SerpAPIKey, client), nil
	case config.ProviderPSE:
		return NewPSEClient(cfg.PSEAPIKey, cfg.PSEEngineID, client), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
	}
}

func defaultClient(c *http.Client) *http.Client {
	if c == nil {
		return utils.NewHTTPClient(30 * time.Second)
	}
	return c
}
