package rules

// RecordingRules returns the pre-computed rates used by the dashboard and
// alert rules.
func RecordingRules() PrometheusRule {
	return newCR("storefront-recording-rules", RuleGroup{
		Name: "storefront-recording",
		Rules: []Rule{
			{
				Record: "storefront:http_requests:rate5m",
				Expr:   `sum(rate(storefront_http_requests_total[5m]))`,
			},
			{
				Record: "storefront:http_errors:rate5m",
				Expr:   `sum(rate(storefront_http_requests_total{status=~"5.."}[5m]))`,
			},
			{
				Record: "storefront:remote_requests:rate5m",
				Expr:   `sum(rate(storefront_remote_requests_total[5m]))`,
			},
			{
				Record: "storefront:remote_failures:rate5m",
				Expr:   `sum(rate(storefront_remote_requests_total{outcome!="ok"}[5m]))`,
			},
			{
				Record: "storefront:catalog_stale_responses:rate5m",
				Expr:   `sum(rate(storefront_catalog_stale_responses_total[5m]))`,
			},
			{
				Record: "storefront:catalog_fetch_failures:rate5m",
				Expr:   `sum(rate(storefront_catalog_fetch_failures_total[5m]))`,
			},
		},
	})
}
