// Package catalog defines the static tool catalog: the process-wide,
// read-only table of generation tools grouped by the provider whose
// credential activates them. It is built once at startup and never
// mutated afterwards.
package catalog

import (
	"context"
	"fmt"
)

// Handler is the opaque capability behind a tool. The activation layer never
// inspects or invokes it; execution belongs to the generation adapters.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool is an activatable capability tied to exactly one provider.
type Tool struct {
	ID       string
	Provider string
	Handler  Handler
}

// Catalog maps provider names to the tools they can activate.
type Catalog struct {
	byProvider map[string][]Tool
}

// New builds a Catalog from the given tools. The input slice is copied, so
// callers may not alter the catalog through it afterwards.
func New(tools []Tool) *Catalog {
	byProvider := make(map[string][]Tool)
	for _, t := range tools {
		byProvider[t.Provider] = append(byProvider[t.Provider], t)
	}
	return &Catalog{byProvider: byProvider}
}

// ToolsFor returns a copy of the tool list for the given provider. The copy
// keeps callers from reaching the catalog's backing slices.
func (c *Catalog) ToolsFor(provider string) []Tool {
	tools, ok := c.byProvider[provider]
	if !ok {
		return nil
	}
	out := make([]Tool, len(tools))
	copy(out, tools)
	return out
}

// unbound returns a placeholder handler for tools whose adapter was not
// registered in this build. The tool still participates in activation.
func unbound(id string) Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		return nil, fmt.Errorf("tool %s: no adapter registered", id)
	}
}
