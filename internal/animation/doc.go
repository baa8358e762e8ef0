// Package animation schedules a demo's animation as an explicit, finite
// list of timed steps.
//
// A Player asks its Scheduler for exactly one timer per step. Every call to
// Play or Reset starts a new generation; callbacks that fire for an older
// generation are dropped, which is how an in-flight animation is
// cancelled. Settle samples spring frames so an element can glide to the
// position a step ends at.
package animation
