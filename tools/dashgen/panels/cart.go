package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CartSeedFailures returns a timeseries panel of failed attempts to load the
// server cart.
func CartSeedFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cart Seed Failures").
		Description("Failed cart loads per 5 minutes, including retries").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sum(increase(`+sel("storefront_cart_seed_failures_total")+`[5m]))`, "failures", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenRed(1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleBars)
}

// CartLines returns a timeseries panel tracking the cart line count.
func CartLines() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cart Lines").
		Description("Line items in the most recently changed cart").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`max(`+sel("storefront_cart_line_items")+`)`, "lines", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
