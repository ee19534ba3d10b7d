// Package sim provides the discrete-event engine behind krpsim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - stock.go, process.go, problem.go: the resource inventory and the
//     immutable process network it is transformed by
//   - timeline.go: the completion queue ordered by (cycle, sequence)
//   - individual.go: one simulation run (complete → launch → jump) driven
//     by a weight vector through a Policy
//
// # Architecture
//
// The sim package owns the data model and the per-run loop; everything else
// lives in sub-packages:
//   - sim/config/: parser for the krpsim configuration format
//   - sim/trace/: launch records, trace file reading and writing
//   - sim/genetic/: the population search evolving weight vectors
//
// Replay (replay.go) re-applies a trace strictly to a Problem and is what
// the verifier runs; a trace recorded by an Individual replays to the same
// final stock and cycle.
//
// # Key Interfaces
//
//   - Policy: picks the next process among the launchable ones, or waits
//
// Randomness never comes from a global source: PartitionedRNG derives one
// stream per subsystem from the search seed, and each Individual owns a
// stream seeded from its own Seed.
package sim
