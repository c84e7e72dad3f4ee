package adapters

import (
	"fmt"
	"os"

	"procurement-flow/internal/features/flows/domain"

	"gopkg.in/yaml.v3"
)

// LoadFlow reads and validates a status flow from a YAML file. Deployments
// use this to bootstrap the registry before anyone has replaced it through
// the API.
func LoadFlow(path string) (*domain.Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read status flow file: %w", err)
	}

	var raw domain.Flow
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse status flow file: %w", err)
	}

	flow, err := domain.NewFlow(raw.Steps)
	if err != nil {
		return nil, fmt.Errorf("invalid status flow in %s: %w", path, err)
	}

	return flow, nil
}
