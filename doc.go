// Package pacer provides small, composable call-rate control primitives
// that limit how often a target operation executes in response to a rapid
// stream of trigger events, such as keystrokes, file-system notifications,
// or scroll events.
//
// The package is built around four primitives:
//
//   - Scheduler: a single-slot, cancelable deferred invocation. It is the
//     building block the other primitives share: "run this closure after
//     N time units unless canceled or re-armed first."
//   - Debouncer: invokes its target at most once per burst of calls, after
//     a quiescence period with no new triggers. Supports leading-edge
//     invocation and a maximum-wait cap.
//   - Throttler: invokes its target immediately on the first call of a
//     burst, then enforces a cooldown during which further calls are
//     absorbed, optionally replaying the most recent one when the cooldown
//     closes (trailing edge).
//   - Coalescer: a channel-driven variant of the throttler for callers
//     that signal with Trigger() rather than passing values; multiple
//     rapid triggers collapse into a single execution per interval.
//
// Debouncer and Throttler are generic over the trigger value: each call
// supplies one value of type T, and only the value relevant under the
// primitive's policy (first of a burst, or most recent) reaches the
// target. Callers with multiple arguments wrap them in a struct; callers
// with none use struct{}.
//
// Example usage:
//
//	// Collapse rapid keystrokes into one search request.
//	deb, _ := pacer.NewDebouncer(func(q string) {
//		runSearch(q)
//	}, 300*time.Millisecond)
//
//	deb.Call("g")
//	deb.Call("go")
//	deb.Call("gop") // runSearch("gop") fires 300ms after this call
//
//	// Forward at most one scroll position per 100ms.
//	th, _ := pacer.NewThrottler(func(pos int) {
//		render(pos)
//	}, 100*time.Millisecond, pacer.WithTrailing())
//
// All primitives keep their state per instance; independent debouncers and
// throttlers never interfere with each other. Time is read through an
// injectable clock (see WithClock), so behavior is identical across
// runtimes and fully controllable in tests.
package pacer
