package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/graphqlintel/graphqlintel/internal/apperr"
	"github.com/graphqlintel/graphqlintel/internal/lint"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// LintConfig is the YAML lint configuration shape from spec.md §6:
//
//	rules:
//	  no_deprecated: warn
//	  require_id_field: { severity: error }
//	presets: [recommended]
//
// Presets expand to a fixed set of rule/severity pairs; user overrides
// in `rules` win over whatever a preset set, mirroring spec.md's
// "Presets expand to a fixed set of rule/severity pairs; user overrides
// win."
type LintConfig struct {
	Rules   map[string]RuleSetting `yaml:"rules"`
	Presets []string               `yaml:"presets"`
}

// RuleSetting accepts either a bare string (`off`/`warn`/`error`) or a
// mapping with a `severity` key, matching the `off | warn | error | {
// severity: …, <rule_options>… }` union in spec.md §6.
type RuleSetting struct {
	Severity string
	Options  map[string]any
}

func (s *RuleSetting) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&s.Severity)
	}
	var m map[string]any
	if err := value.Decode(&m); err != nil {
		return err
	}
	if sev, ok := m["severity"].(string); ok {
		s.Severity = sev
		delete(m, "severity")
	}
	s.Options = m
	return nil
}

// presetRecommended is the "recommended" preset: every registered rule
// at its DefaultSeverity, so a project that just writes `presets:
// [recommended]` gets the full built-in rule set switched on.
func presetRules(name string) (map[lint.RuleID]types.Severity, bool) {
	if name != "recommended" {
		return nil, false
	}
	out := make(map[lint.RuleID]types.Severity)
	for _, meta := range lint.AllRuleMetas() {
		out[meta.ID] = meta.DefaultSeverity
	}
	return out, true
}

// LoadLintConfig reads a YAML lint config file and resolves it to a
// lint.SeverityOverrides map, ready to pass to lint.CheckFile /
// lint.ProjectWideDiagnostics.
func LoadLintConfig(path string) (lint.SeverityOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.IO("read", path, err)
	}

	var raw LintConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, apperr.Config(path, err)
	}
	return raw.Resolve()
}

// Resolve expands presets then applies explicit per-rule overrides.
func (c LintConfig) Resolve() (lint.SeverityOverrides, error) {
	overrides := make(lint.SeverityOverrides)

	for _, preset := range c.Presets {
		rules, ok := presetRules(preset)
		if !ok {
			return nil, apperr.Config("presets", fmt.Errorf("unknown preset %q", preset))
		}
		for id, sev := range rules {
			overrides[id] = sev
		}
	}

	for name, setting := range c.Rules {
		id := lint.RuleID(name)
		switch setting.Severity {
		case "off":
			overrides.Disable(id)
		case "warn":
			overrides[id] = types.SeverityWarning
		case "error":
			overrides[id] = types.SeverityError
		case "info":
			overrides[id] = types.SeverityInfo
		case "hint":
			overrides[id] = types.SeverityHint
		case "":
			// mapping form with only `<rule_options>`, no severity override
		default:
			return nil, apperr.Config("rules."+name, fmt.Errorf("invalid severity %q", setting.Severity))
		}
	}

	return overrides, nil
}
