// Package app wires the automation together: it owns the configured logger,
// the variable evaluator, and the build invoker, and drives the sequential
// run loop. Each run evaluates the -var assignments, mutates a fresh copy of
// the terrain file, and triggers one build; failures inside a run are logged
// and isolated so later runs still execute.
package app
