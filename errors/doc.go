// Package errors provides standardized error handling patterns for schemagraph components.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary, degrade gracefully), Invalid (bad input, non-retryable),
// and Fatal (unrecoverable, stop processing).
//
// Classification lets the generation pipeline make informed decisions without
// hardcoded error string matching: a transient backing-store error becomes a
// cache miss, an invalid provider result is skipped with the rest of the batch
// unaffected, and a fatal configuration error aborts startup.
//
// # Error Classification
//
//   - Transient: store hiccups, timeouts, temporary unavailability (treat as miss, proceed uncached)
//   - Invalid: malformed input, validation failures, bad configuration (skip the unit, record the error)
//   - Fatal: unrecoverable states (stop processing)
//
// The classification system integrates with Go's standard error handling,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Quick Start
//
// Use standard error variables for common conditions:
//
//	if _, ok := generators[schemaType]; !ok {
//	    return errors.ErrUnknownSchemaType
//	}
//
// Wrap errors with context for debugging:
//
//	if err := provider.Provide(ctx, pageCtx, opts); err != nil {
//	    return errors.Wrap(err, "Manager", "GenerateSchemas", "provider invocation")
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")
//	errors.WrapInvalid(err, "Component", "Method", "action")
//	errors.WrapFatal(err, "Component", "Method", "action")
//
// # Thread Safety
//
// All classification and wrapping operations are thread-safe. Error variables
// are immutable and safe for concurrent access.
package errors
