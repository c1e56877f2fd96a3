// Package renderctx builds the variable mapping templates are rendered with.
package renderctx

import (
	"fmt"
	"maps"

	"github.com/jmylchreest/themer/internal/colour"
)

// Context is the mapping handed to templates and persisted as colors.yaml.
type Context map[string]any

// DefaultRole names a context key that aliases a palette slot when the user
// variables do not define it.
type DefaultRole struct {
	Role string `yaml:"role" validate:"required"`
	Slot string `yaml:"slot" validate:"required"`
}

// DefaultRoles returns the built-in roles, in the order they are applied.
func DefaultRoles() []DefaultRole {
	return []DefaultRole{
		{Role: "primary", Slot: "magenta"},
		{Role: "secondary", Slot: "green"},
		{Role: "tertiary", Slot: "blue"},
	}
}

// LookupError is returned when a default role aliases a key that is absent
// from the context.
type LookupError struct {
	Key    string
	Target string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("default role %q references missing key %q", e.Key, e.Target)
}

// Build merges variables and palette into a Context.
//
// A variable whose value names a palette slot is replaced by that slot's
// colour. Only one level is resolved: a variable naming another variable is
// left as the literal name. Palette entries then override variables of the
// same name, and any default role still missing is aliased to its slot.
func Build(variables map[string]any, palette colour.Palette, defaults []DefaultRole) (Context, error) {
	ctx := make(Context, len(variables)+len(palette)+len(defaults))
	maps.Copy(ctx, variables)

	for key, value := range ctx {
		name, ok := value.(string)
		if !ok {
			continue
		}
		if hex, found := palette[name]; found {
			ctx[key] = hex
		}
	}

	for slot, hex := range palette {
		ctx[slot] = hex
	}

	for _, role := range defaults {
		if _, ok := ctx[role.Role]; ok {
			continue
		}
		target, ok := ctx[role.Slot]
		if !ok {
			return nil, &LookupError{Key: role.Role, Target: role.Slot}
		}
		ctx[role.Role] = target
	}

	return ctx, nil
}

// String returns the value of key rendered as a string, or "" when absent.
func (c Context) String(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Palette extracts the canonical slots present in the context.
func (c Context) Palette() colour.Palette {
	p := make(colour.Palette)
	for _, slot := range colour.CanonicalSlots() {
		if v := c.String(slot); v != "" {
			p[slot] = v
		}
	}
	return p
}
