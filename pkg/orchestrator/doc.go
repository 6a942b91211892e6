// Package orchestrator wires the schema source → normalizer → session
// pipeline, providing dependency injection friendly helpers for consumers
// that prefer a single entry point. A form type always resolves to a usable
// structure: when the schema cannot be obtained the default fallback form is
// installed instead.
package orchestrator
