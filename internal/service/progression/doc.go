// Package progression implements the orchestration at the heart of the
// sprint engine: enrolling users, gating day-by-day access, completing
// days, unlocking their successors, and deriving achievements from the
// resulting history. All day state transitions flow through this service;
// nothing else writes day progress.
package progression
