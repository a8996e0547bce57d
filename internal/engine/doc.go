// Package engine provides timed text-reveal engines for chat-style
// terminal interfaces.
//
// Two independent engines share a common contract: given text and a
// timing configuration they emit a sequence of visible-text snapshots
// over time, plus exactly one completion signal:
//
//   - [Typewriter]: cycles one or more target strings through
//     type/pause/delete phases, optionally looping forever
//   - [Reveal]: splits one block of text into ordered tokens and
//     reveals them once, each after a computed stagger offset
//
// All scheduling goes through the [Scheduler] interface. Production
// code uses the real clock via [NewTimerScheduler]; tests and the
// bench command drive a [ManualScheduler] deterministically:
//
//	sched := engine.NewManualScheduler()
//	tw := engine.NewTypewriter([]string{"hello"}, cfg, sched, rng)
//	tw.Start()
//	for sched.RunNext() {
//	}
//
// Consumers observe either engine through [Observer] subscriptions or
// by polling the current snapshot.
package engine
