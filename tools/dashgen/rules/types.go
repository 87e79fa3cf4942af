// Package rules generates Prometheus recording and alert rules, both as
// Prometheus Operator custom resources and as plain rule files.
package rules

const (
	apiVersion = "monitoring.coreos.com/v1"
	kind       = "PrometheusRule"
)

// PrometheusRule is a Kubernetes custom resource for Prometheus Operator.
type PrometheusRule struct {
	APIVersion string                 `yaml:"apiVersion"`
	Kind       string                 `yaml:"kind"`
	Metadata   PrometheusRuleMetadata `yaml:"metadata"`
	Spec       PrometheusRuleSpec     `yaml:"spec"`
}

// PrometheusRuleMetadata holds the CR metadata fields.
type PrometheusRuleMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// PrometheusRuleSpec holds the rule groups.
type PrometheusRuleSpec struct {
	Groups []RuleGroup `yaml:"groups"`
}

// RuleGroup is a named collection of recording or alerting rules.
type RuleGroup struct {
	Name     string `yaml:"name"`
	Interval string `yaml:"interval,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

// Rule is a recording rule when Record is set and an alert when Alert is set.
type Rule struct {
	Record      string            `yaml:"record,omitempty"`
	Alert       string            `yaml:"alert,omitempty"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// RuleFile is a plain Prometheus rules file, loaded through rule_files.
type RuleFile struct {
	Groups []RuleGroup `yaml:"groups"`
}

// newCR wraps groups in a PrometheusRule picked up by the cluster's rule
// selector.
func newCR(name string, groups ...RuleGroup) PrometheusRule {
	return PrometheusRule{
		APIVersion: apiVersion,
		Kind:       kind,
		Metadata: PrometheusRuleMetadata{
			Name:   name,
			Labels: map[string]string{"prometheus": "system-rules-prometheus"},
		},
		Spec: PrometheusRuleSpec{Groups: groups},
	}
}

// File merges the groups of crs into one plain rules file.
func File(crs ...PrometheusRule) RuleFile {
	var f RuleFile
	for _, cr := range crs {
		f.Groups = append(f.Groups, cr.Spec.Groups...)
	}
	return f
}

// warn and crit build alert labels.
func warn() map[string]string { return map[string]string{"severity": "warning"} }
func crit() map[string]string { return map[string]string{"severity": "critical"} }

func annotate(summary, description string) map[string]string {
	return map[string]string{"summary": summary, "description": description}
}
