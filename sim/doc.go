// Package sim provides the discrete-tick scheduling engine for procsim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - phase.go: Phase chains, the per-process sequence of timed segments
//   - simulator.go: The tick loop, boundary resolution, grant vs. wait decisions
//   - estimator.go: Lookahead sizing of the wait phases spliced into a chain
//
// # Architecture
//
// A Simulator owns one TimelineEntry per process, three ResourcePools
// (cores, input device, I/O device), three FIFO WaitQueues and the
// ProcessDirectory. Each tick, every entry is resolved in creation order.
// Decisions that depend on the whole tick (granting a slot to a promoted
// waiter, retrying a deferred grant, the termination report) are scheduled
// as Events and replayed once every entry has acted.
//
// A process that cannot be granted a slot gets a synthetic wait phase
// spliced into its chain, which pushes its termination tick out. The run
// ends when the clock reaches the largest termination tick.
//
// Transition tracing lives in sim/trace and is optional.
package sim
