package server

import (
	"context"

	"github.com/openmuse/openmuse/internal/server/catalog"
)

// toolHandlers maps tool IDs to their provider adapters. Adapters for the
// image generation backends plug in here as they are implemented; tools
// without an adapter stay in the catalog and fail with a clear error when
// invoked.
func toolHandlers() map[string]catalog.Handler {
	return nil
}

// systemTools returns the built-in tools that are active for every account
// regardless of provider credentials.
func systemTools() []catalog.Tool {
	return []catalog.Tool{
		{
			ID:       catalog.WritePlanToolID,
			Provider: catalog.ProviderSystem,
			Handler:  writePlan,
		},
	}
}

// writePlan records the step plan submitted by the caller and echoes it back.
func writePlan(ctx context.Context, args map[string]any) (any, error) {
	return map[string]any{"status": "success", "plan": args["plan"]}, nil
}
