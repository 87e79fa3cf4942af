package rules

// AlertRules returns the storefront alerting rules.
func AlertRules() PrometheusRule {
	return newCR("storefront-alerts", RuleGroup{
		Name: "storefront-alerts",
		Rules: []Rule{
			{
				Alert:  "StorefrontMockAPIDown",
				Expr:   `absent(up{job="storefront"})`,
				For:    "2m",
				Labels: crit(),
				Annotations: annotate(
					"Storefront mock API is down",
					"The storefront scrape job has been absent for more than 2 minutes.",
				),
			},
			{
				Alert:  "StorefrontHealthFailing",
				Expr:   `storefront_healthz_up == 0`,
				For:    "2m",
				Labels: crit(),
				Annotations: annotate(
					"Storefront health check is failing",
					"The health probe has been reporting failure for more than 2 minutes.",
				),
			},
			{
				Alert:  "StorefrontHighErrorRate",
				Expr:   `storefront:http_errors:rate5m / storefront:http_requests:rate5m > 0.05`,
				For:    "5m",
				Labels: warn(),
				Annotations: annotate(
					"High HTTP error rate on the mock API",
					"More than 5% of mock API requests returned 5xx over the last 5 minutes.",
				),
			},
			{
				Alert:  "StorefrontRemoteFailures",
				Expr:   `storefront:remote_failures:rate5m / storefront:remote_requests:rate5m > 0.1`,
				For:    "5m",
				Labels: warn(),
				Annotations: annotate(
					"Remote catalog API calls are failing",
					"More than 10% of remote catalog calls failed over the last 5 minutes.",
				),
			},
			{
				Alert:  "StorefrontCatalogFetchFailures",
				Expr:   `storefront:catalog_fetch_failures:rate5m > 0.1`,
				For:    "5m",
				Labels: warn(),
				Annotations: annotate(
					"Catalog lists are coming back empty",
					"Page or search fetches have failed at more than 0.1/s for 5 minutes.",
				),
			},
			{
				Alert:  "StorefrontCartSeedFailing",
				Expr:   `increase(storefront_cart_seed_failures_total[15m]) > 3`,
				Labels: warn(),
				Annotations: annotate(
					"Server cart cannot be loaded",
					"Loading the server cart failed more than 3 times in 15 minutes, retries included.",
				),
			},
		},
	})
}
