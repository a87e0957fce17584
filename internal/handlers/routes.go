package handlers

import (
	"net/http"
	"time"

	"github.com/avelar/linkshort/internal/ratelimit"
	"github.com/danielgtaylor/huma/v2"
)

// apiLimits is the per-client budget shared by the shorten and redirect
// endpoints: 5 requests per 15-minute window, total across both.
var apiLimits = []ratelimit.LimitConfig{
	{Window: 15 * time.Minute, Max: 5},
}

// RegisterRoutes registers all URL shortener routes with per-endpoint rate
// limit configuration.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short URL",
		Description: "Derives a deterministic short code for the URL and persists the mapping.",
		Tags:        []string{"URLs"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: apiLimits,
			},
		},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL associated with the short code.",
		Tags:        []string{"URLs"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: apiLimits,
			},
		},
	}, urlHandler.RedirectToURL)
}
