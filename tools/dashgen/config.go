package main

import "errors"

// KnownMetrics is the set of metric names exported by the storefront plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// Mock API HTTP metrics.
	"storefront_http_request_duration_seconds": true,
	"storefront_http_requests_total":           true,
	"storefront_healthz_up":                    true,

	// Remote catalog API metrics.
	"storefront_remote_requests_total":           true,
	"storefront_remote_request_duration_seconds": true,
	"storefront_remote_products_rejected_total":  true,
	"storefront_rate_limit_waits_total":          true,

	// Catalog controller metrics.
	"storefront_catalog_stale_responses_total":    true,
	"storefront_catalog_searches_cancelled_total": true,
	"storefront_catalog_fetch_failures_total":     true,

	// Cart metrics.
	"storefront_cart_seed_failures_total": true,
	"storefront_cart_line_items":          true,

	// Recording rules.
	"storefront:http_requests:rate5m":           true,
	"storefront:http_errors:rate5m":             true,
	"storefront:remote_requests:rate5m":         true,
	"storefront:remote_failures:rate5m":         true,
	"storefront:catalog_stale_responses:rate5m": true,
	"storefront:catalog_fetch_failures:rate5m":  true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
