// Package orchestrator wires the extract → analyze → translate → transform →
// render pipeline behind a single entry point for callers that do not want to
// assemble the stages themselves.
package orchestrator
