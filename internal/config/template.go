package config

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// DefaultTemplateConfig is the config file looked up inside a template
// directory.
const DefaultTemplateConfig = "config.yaml"

// TemplateConfig lists the files of a template set and the variables they
// are rendered with.
type TemplateConfig struct {
	// Extends names a parent config, relative to this file's directory.
	Extends string `yaml:"extends"`

	Variables map[string]any `yaml:"variables"`

	// Files maps template source (relative to the template directory) to
	// destination (relative to the theme directory).
	Files map[string]string `yaml:"files" validate:"required,dive,keys,required,endkeys,required"`
}

// LoadTemplate reads the template config at path, resolving extends chains.
// Values in a child override its parent; nested maps are merged.
func LoadTemplate(path string) (*TemplateConfig, error) {
	cfg, err := loadTemplate(path, map[string]bool{})
	if err != nil {
		return nil, err
	}
	if err := convertValidationError(validatorInstance().Struct(cfg)); err != nil {
		return nil, fmt.Errorf("invalid template config %s: %w", path, err)
	}
	return cfg, nil
}

func loadTemplate(path string, seen map[string]bool) (*TemplateConfig, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if seen[abs] {
		return nil, fmt.Errorf("template config %s extends itself", path)
	}
	seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read template config: %w", err)
	}

	var child TemplateConfig
	if err := yaml.Unmarshal(data, &child); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if child.Extends == "" {
		return &child, nil
	}

	parent, err := loadTemplate(filepath.Join(filepath.Dir(abs), child.Extends), seen)
	if err != nil {
		return nil, err
	}
	if err := mergo.Merge(parent, child, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge %s into %s: %w", path, child.Extends, err)
	}
	parent.Extends = child.Extends
	return parent, nil
}
