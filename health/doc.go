// Package health provides liveness checks for long-lived proxy instances.
//
// Checks read in-process snapshots (cache occupancy, audit log growth) and
// roll up into a single status through the Aggregator.
package health
