// Package runner executes planned tasks on a bounded worker pool. Workers
// report through a channel to a single aggregator that owns the summary.
package runner
