package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"matchenv/pkg/matchenv"
)

// loadRawConfig reads a declarative match configuration from a YAML file.
// Mapping keys are normalized to strings so nested component specs match
// the shapes the normalizer expects.
func loadRawConfig(path string) (matchenv.Raw, error) {
	if path == "" {
		return matchenv.Raw{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return matchenv.Raw(normalizeYAML(raw).(map[string]any)), nil
}

func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for key, value := range x {
			out[key] = normalizeYAML(value)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for key, value := range x {
			out[fmt.Sprint(key)] = normalizeYAML(value)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}
