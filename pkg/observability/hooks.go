// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about package selection and disclaimer
// aggregation.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSelectionHooks(&mySelectionHooks{})
//	    observability.SetAggregationHooks(&myAggregationHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Selection().OnSelectStart(ctx, recursive, production)
//	// ... select packages ...
//	observability.Selection().OnSelectComplete(ctx, len(selected), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Selection Hooks
// =============================================================================

// SelectionHooks receives events from the package selector.
type SelectionHooks interface {
	OnSelectStart(ctx context.Context, recursive, production bool)
	OnSelectComplete(ctx context.Context, count int, duration time.Duration, err error)

	// OnDescriptorSkipped records a candidate descriptor that was dropped,
	// either because it does not resolve or because it duplicates an earlier one.
	OnDescriptorSkipped(ctx context.Context, descriptor, reason string)
}

// =============================================================================
// Aggregation Hooks
// =============================================================================

// AggregationHooks receives events from disclaimer and tree aggregation.
type AggregationHooks interface {
	// OnPackageSkipped records a selected package that produced no entry.
	OnPackageSkipped(ctx context.Context, locator, reason string)

	// OnEntry records an emitted entry.
	OnEntry(ctx context.Context, moduleName string, hasLicenseFile bool)

	OnAggregateComplete(ctx context.Context, entries int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSelectionHooks is a no-op implementation of SelectionHooks.
type NoopSelectionHooks struct{}

func (NoopSelectionHooks) OnSelectStart(context.Context, bool, bool)                   {}
func (NoopSelectionHooks) OnSelectComplete(context.Context, int, time.Duration, error) {}
func (NoopSelectionHooks) OnDescriptorSkipped(context.Context, string, string)         {}

// NoopAggregationHooks is a no-op implementation of AggregationHooks.
type NoopAggregationHooks struct{}

func (NoopAggregationHooks) OnPackageSkipped(context.Context, string, string)               {}
func (NoopAggregationHooks) OnEntry(context.Context, string, bool)                          {}
func (NoopAggregationHooks) OnAggregateComplete(context.Context, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	selectionHooks   SelectionHooks   = NoopSelectionHooks{}
	aggregationHooks AggregationHooks = NoopAggregationHooks{}
	hooksMu          sync.RWMutex
)

// SetSelectionHooks registers custom selection hooks.
// This should be called once at application startup.
func SetSelectionHooks(h SelectionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		selectionHooks = h
	}
}

// SetAggregationHooks registers custom aggregation hooks.
// This should be called once at application startup.
func SetAggregationHooks(h AggregationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		aggregationHooks = h
	}
}

// Selection returns the registered selection hooks.
func Selection() SelectionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return selectionHooks
}

// Aggregation returns the registered aggregation hooks.
func Aggregation() AggregationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return aggregationHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	selectionHooks = NoopSelectionHooks{}
	aggregationHooks = NoopAggregationHooks{}
}
