package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// StaleResponses returns a timeseries panel of list responses discarded
// because a newer page or search superseded them.
func StaleResponses() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Stale Responses").
		Description("Superseded page and search responses per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(`+sel("storefront_catalog_stale_responses_total")+`[5m])) by (kind)`,
			"{{kind}}", "A",
		)).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// FetchFailures returns a timeseries panel of page and search fetches that
// were collapsed into an empty list.
func FetchFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Fetch Failures").
		Description("Failed page and search fetches per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(`+sel("storefront_catalog_fetch_failures_total")+`[5m])) by (kind)`,
			"{{kind}}", "A",
		)).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenRed(0.1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SearchesCancelled returns a stat panel counting debounced searches that
// were replaced before they fired.
func SearchesCancelled() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Debounced Away (1h)").
		Description("Searches cancelled by a newer keystroke within the debounce window").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`sum(increase(`+sel("storefront_catalog_searches_cancelled_total")+`[1h]))`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}
