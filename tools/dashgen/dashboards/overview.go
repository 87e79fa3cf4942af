// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/storefront/tools/dashgen/panels"
)

// BuildOverview constructs the Storefront Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Storefront Overview").
		Uid("storefront-overview").
		Tags([]string{"storefront"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.RemoteSuccessGauge()).
		WithPanel(panels.CartLinesStat()).
		WithPanel(panels.UptimeStat()))

	// Row 2: Mock API.
	b.WithRow(dashboard.NewRowBuilder("Mock API").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Remote catalog API.
	b.WithRow(dashboard.NewRowBuilder("Remote API").
		WithPanel(panels.RemoteCallsByOutcome()).
		WithPanel(panels.RemoteLatency()).
		WithPanel(panels.RateLimitWaits()).
		WithPanel(panels.RejectedProducts()))

	// Row 4: Catalog.
	b.WithRow(dashboard.NewRowBuilder("Catalog").
		WithPanel(panels.StaleResponses()).
		WithPanel(panels.FetchFailures()).
		WithPanel(panels.SearchesCancelled()))

	// Row 5: Cart.
	b.WithRow(dashboard.NewRowBuilder("Cart").
		WithPanel(panels.CartSeedFailures()).
		WithPanel(panels.CartLines()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
