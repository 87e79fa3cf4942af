// Package validate checks generated dashboards and rule files: every PromQL
// expression must parse and every metric it selects must be known.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/storefront/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation, warnings do not.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r *Result) Ok() bool { return len(r.Errors) == 0 }

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// panelJSON is the subset of the Grafana panel model the checks read.
type panelJSON struct {
	Title   string      `json:"title"`
	Type    string      `json:"type"`
	Targets []targetRef `json:"targets"`
	Panels  []panelJSON `json:"panels"`
}

type targetRef struct {
	Expr string `json:"expr"`
}

// Dashboard validates every panel target in dash.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) *Result {
	res := &Result{}

	data, err := json.Marshal(dash)
	if err != nil {
		res.errorf("marshaling dashboard: %v", err)
		return res
	}
	var doc struct {
		Panels []panelJSON `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		res.errorf("decoding dashboard: %v", err)
		return res
	}

	for i := range doc.Panels {
		checkPanel(res, &doc.Panels[i], known)
	}
	return res
}

func checkPanel(res *Result, p *panelJSON, known map[string]bool) {
	if p.Type == "row" {
		for i := range p.Panels {
			checkPanel(res, &p.Panels[i], known)
		}
		return
	}
	if p.Title == "" {
		res.warnf("%s panel has no title", p.Type)
	}
	if len(p.Targets) == 0 {
		res.errorf("panel %q has no targets", p.Title)
	}
	for _, t := range p.Targets {
		checkExpr(res, "panel "+p.Title, t.Expr, known)
	}
}

// Rules validates every expression in cr. Recording rule names become known
// to the alerts that follow them in the same call.
func Rules(cr rules.PrometheusRule, known map[string]bool) *Result {
	res := &Result{}
	for _, g := range cr.Spec.Groups {
		if len(g.Rules) == 0 {
			res.warnf("group %q has no rules", g.Name)
		}
		for _, r := range g.Rules {
			name := r.Record
			if name == "" {
				name = r.Alert
			}
			if name == "" {
				res.errorf("group %q: rule has neither record nor alert name", g.Name)
			}
			checkExpr(res, "rule "+name, r.Expr, known)
		}
	}
	return res
}

func checkExpr(res *Result, where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		res.errorf("%s: empty expression", where)
		return
	}
	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("%s: %v", where, err)
		return
	}
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !isKnown(vs.Name, known) {
			res.errorf("%s: unknown metric %q", where, vs.Name)
		}
		return nil
	})
}

// isKnown accepts histogram series by their base metric name.
func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}
