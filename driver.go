// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// Driver is the contract a Scheduler consumes (§4.1): an abstraction
// over an external clock that reports the current time and arbitrates a
// single outstanding wake-up.
type Driver[T any] interface {
	// Now returns a non-decreasing value between successive calls within
	// a single thread.
	Now() T
	// Reschedule installs exactly one pending wake-up at deadline,
	// replacing any previously installed wake-up. fire is invoked exactly
	// once, asynchronously (never before Reschedule itself returns),
	// once Now() has reached deadline.
	Reschedule(deadline T, fire func())
	// Unschedule removes any pending wake-up. Idempotent.
	Unschedule()
}
