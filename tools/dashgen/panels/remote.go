package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RemoteCallsByOutcome returns a timeseries panel of remote catalog calls
// split by endpoint and outcome.
func RemoteCallsByOutcome() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Remote Calls").
		Description("Remote catalog API calls per second by endpoint and outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(rate(`+sel("storefront_remote_requests_total")+`[5m])) by (endpoint, outcome)`,
			"{{endpoint}} {{outcome}}", "A",
		)).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RemoteLatency returns a timeseries panel showing p95 remote latency per
// endpoint.
func RemoteLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Remote Latency p95").
		Description("95th percentile remote catalog API latency per endpoint").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(`+sel("storefront_remote_request_duration_seconds_bucket")+`[5m])) by (le, endpoint))`,
			"{{endpoint}}", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RateLimitWaits returns a stat panel counting calls that passed through the
// client-side rate limiter in the last hour.
func RateLimitWaits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Rate Limiter (1h)").
		Description("Remote calls throttled by the client-side limiter").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sum(increase(`+sel("storefront_rate_limit_waits_total")+`[1h]))`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// RejectedProducts returns a stat panel counting products dropped by
// validation in the last hour.
func RejectedProducts() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Rejected Products (1h)").
		Description("Products dropped because the remote record failed validation").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sum(increase(`+sel("storefront_remote_products_rejected_total")+`[1h]))`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
