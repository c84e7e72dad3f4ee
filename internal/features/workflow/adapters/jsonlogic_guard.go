package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"procurement-flow/internal/features/workflow/domain"

	"github.com/diegoholiveira/jsonlogic/v3"
	"gopkg.in/yaml.v3"
)

// GuardRule is one deployment-specific constraint on a transition: a
// JsonLogic expression evaluated against the form state, and the message
// shown when it fails. Rules reference form fields by their camelCase names
// (e.g. {"<=": [{"var": "exchangeRate"}, 200]}).
type GuardRule struct {
	From    string                 `yaml:"from"`
	To      string                 `yaml:"to"`
	Message string                 `yaml:"message"`
	Rule    map[string]interface{} `yaml:"rule"`
}

// GuardPack is the YAML document format for guard rules.
type GuardPack struct {
	Guards []GuardRule `yaml:"guards"`
}

// LoadGuardPack reads a guard pack from a YAML file.
func LoadGuardPack(path string) (GuardPack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GuardPack{}, fmt.Errorf("failed to read guard pack: %w", err)
	}

	var pack GuardPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return GuardPack{}, fmt.Errorf("failed to parse guard pack: %w", err)
	}
	return pack, nil
}

type guardEdge struct {
	from domain.Status
	to   domain.Status
}

// JsonLogicGuard implements the TransitionGuard port by evaluating a guard
// pack with JsonLogic.
type JsonLogicGuard struct {
	rules map[guardEdge][]GuardRule
}

// NewJsonLogicGuard indexes a guard pack by edge. Rules whose statuses are
// not part of the chain are rejected so typos fail at startup, not at submit
// time.
func NewJsonLogicGuard(pack GuardPack) (*JsonLogicGuard, error) {
	rules := make(map[guardEdge][]GuardRule)

	for i, rule := range pack.Guards {
		from, err := domain.ParseStatus(rule.From)
		if err != nil {
			return nil, fmt.Errorf("guard %d: %w", i, err)
		}
		to, err := domain.ParseStatus(rule.To)
		if err != nil {
			return nil, fmt.Errorf("guard %d: %w", i, err)
		}
		if len(rule.Rule) == 0 {
			return nil, fmt.Errorf("guard %d (%s -> %s): empty rule", i, from, to)
		}
		if strings.TrimSpace(rule.Message) == "" {
			return nil, fmt.Errorf("guard %d (%s -> %s): empty message", i, from, to)
		}

		key := guardEdge{from, to}
		rules[key] = append(rules[key], rule)
	}

	return &JsonLogicGuard{rules: rules}, nil
}

// Check evaluates every guard registered for the edge and returns the
// messages of those that did not pass.
func (g *JsonLogicGuard) Check(_ context.Context, from, to domain.Status, form domain.FormState) ([]string, error) {
	rules, ok := g.rules[guardEdge{from, to}]
	if !ok {
		return nil, nil
	}

	data, err := formData(form)
	if err != nil {
		return nil, err
	}

	var violations []string
	for _, rule := range rules {
		passed, err := evaluate(rule.Rule, data)
		if err != nil {
			return nil, fmt.Errorf("guard %q (%s -> %s): %w", rule.Message, from, to, err)
		}
		if !passed {
			violations = append(violations, rule.Message)
		}
	}

	return violations, nil
}

// formData flattens the form into the map JsonLogic resolves "var" against.
func formData(form domain.FormState) (map[string]interface{}, error) {
	raw, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal form state: %w", err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to build guard data: %w", err)
	}
	return data, nil
}

// evaluate applies one JsonLogic rule and interprets the result as a boolean.
func evaluate(rule map[string]interface{}, data map[string]interface{}) (bool, error) {
	ruleJSON, err := json.Marshal(rule)
	if err != nil {
		return false, fmt.Errorf("failed to marshal rule: %w", err)
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return false, fmt.Errorf("failed to marshal data: %w", err)
	}

	var result bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(ruleJSON), bytes.NewReader(dataJSON), &result); err != nil {
		return false, fmt.Errorf("rule evaluation failed: %w", err)
	}

	var passed bool
	if err := json.Unmarshal(bytes.TrimSpace(result.Bytes()), &passed); err != nil {
		return false, fmt.Errorf("rule did not evaluate to a boolean: %q", result.String())
	}

	return passed, nil
}
