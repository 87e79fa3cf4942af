package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/storefront/tools/dashgen/rules"
)

func TestCheckExpr(t *testing.T) {
	t.Parallel()

	known := map[string]bool{
		"storefront_http_requests_total":           true,
		"storefront_http_request_duration_seconds": true,
	}

	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{name: "known counter", expr: `rate(storefront_http_requests_total[5m])`},
		{name: "histogram bucket", expr: `histogram_quantile(0.9, sum(rate(storefront_http_request_duration_seconds_bucket[5m])) by (le))`},
		{name: "unknown metric", expr: `rate(storefront_missing_total[5m])`, wantErr: true},
		{name: "unknown suffix base", expr: `storefront_missing_bucket`, wantErr: true},
		{name: "parse error", expr: `sum(rate(storefront_http_requests_total[5m])`, wantErr: true},
		{name: "empty", expr: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := &Result{}
			checkExpr(res, "test", tt.expr, known)
			assert.Equal(t, tt.wantErr, !res.Ok(), "errors: %v", res.Errors)
		})
	}
}

func TestRules(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{Spec: rules.PrometheusRuleSpec{Groups: []rules.RuleGroup{
		{Name: "empty"},
		{Name: "mixed", Rules: []rules.Rule{
			{Record: "x:rate5m", Expr: `sum(rate(up[5m]))`},
			{Expr: `up == 0`},
		}},
	}}}

	res := Rules(cr, map[string]bool{"up": true})
	assert.Len(t, res.Warnings, 1)
	assert.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "neither record nor alert")
}
