// Package shader discovers shader sources, turns each into a compiler
// invocation and runs the invocations in a bounded worker pool.
//
// The pipeline is a single pass:
//
//	Scan -> PlanJobs (BuildCommand per file) -> Execute (per job) -> copy artifacts
//
// Run drives the whole pass and collects per-shader failures into a
// BuildSummary instead of stopping at the first one. Only discovery and
// configuration problems abort a run.
package shader
