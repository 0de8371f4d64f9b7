// Package highlight schedules the deferred removal of last-move markers.
//
// After a move, the service asks the Scheduler to run a clear for that session
// once the preset's highlight duration has passed. A newer move for the same
// session replaces the pending clear, and the engine's ClearHighlightsFor
// ignores a clear whose move number is no longer current, so a late timer can
// never wipe fresher markers.
//
// Usage:
//
//	s := highlight.NewScheduler()
//	defer s.Stop()
//
//	s.Schedule(sessionID, 3*time.Second, func() {
//		eng.ClearHighlightsFor(moveNumber)
//	})
package highlight
