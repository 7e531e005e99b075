// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

import "time"

// Temporal is the constraint a scheduler's time type T must satisfy: a
// total order, plus addition and subtraction against a duration type D.
// Both Seconds/Span (the library's default) and stdlib time.Time/
// time.Duration satisfy it without an adapter.
type Temporal[T any, D any] interface {
	// Before reports whether the receiver sorts strictly before other.
	Before(other T) bool
	// Equal reports whether the receiver and other denote the same instant.
	Equal(other T) bool
	// Add returns the instant d after the receiver.
	Add(d D) T
	// Sub returns the duration between other and the receiver (receiver - other).
	Sub(other T) D
}

// Duration is the arithmetic a branch's or a fixed-interval rule's
// duration type D must satisfy.
type Duration[D any] interface {
	// Scale returns the receiver multiplied by the real scalar k.
	Scale(k float64) D
	// Div returns the ratio of the receiver to other.
	Div(other D) float64
	// Sign returns -1, 0, or 1 according to the receiver's sign.
	Sign() int
}

// lte reports a <= b for any Temporal.
func lte[T Temporal[T, D], D any](a, b T) bool {
	return a.Before(b) || a.Equal(b)
}

// Span is the duration counterpart of Seconds.
type Span float64

// Scale returns the receiver multiplied by the real scalar k.
func (s Span) Scale(k float64) Span { return Span(float64(s) * k) }

// Div returns the ratio of the receiver to other.
func (s Span) Div(other Span) float64 { return float64(s) / float64(other) }

// Sign returns -1, 0, or 1 according to the receiver's sign.
func (s Span) Sign() int {
	switch {
	case s > 0:
		return 1
	case s < 0:
		return -1
	default:
		return 0
	}
}

// Seconds is the library's default time value: a 64-bit floating
// seconds-since-epoch, as named in spec §3. It and Span satisfy
// Temporal[Seconds, Span] and Duration[Span].
type Seconds float64

// Before reports whether the receiver sorts strictly before other.
func (t Seconds) Before(other Seconds) bool { return t < other }

// Equal reports whether the receiver and other denote the same instant.
func (t Seconds) Equal(other Seconds) bool { return t == other }

// Add returns the instant d after the receiver.
func (t Seconds) Add(d Span) Seconds { return t + Seconds(d) }

// Sub returns the duration between other and the receiver.
func (t Seconds) Sub(other Seconds) Span { return Span(t - other) }

// RealSpan adapts time.Duration with the Scale/Div method set that
// Duration[D] requires but time.Duration itself does not expose. Branch
// and EveryInterval instantiations over time.Time use RealSpan as D
// instead of time.Duration directly.
type RealSpan time.Duration

// Scale returns the receiver multiplied by the real scalar k.
func (d RealSpan) Scale(k float64) RealSpan {
	return RealSpan(float64(d) * k)
}

// Div returns the ratio of the receiver to other.
func (d RealSpan) Div(other RealSpan) float64 {
	return float64(d) / float64(other)
}

// Sign returns -1, 0, or 1 according to the receiver's sign.
func (d RealSpan) Sign() int {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}

// AsDuration converts a RealSpan back to a stdlib time.Duration.
func (d RealSpan) AsDuration() time.Duration { return time.Duration(d) }

// RealTime adapts time.Time so that, paired with RealSpan, it satisfies
// Temporal[RealTime, RealSpan]. Plain time.Time already satisfies
// Temporal[time.Time, time.Duration] on its own (Before/Equal/Add/Sub
// match the constraint exactly); RealTime exists only for components
// that also need D's Scale/Div arithmetic (EveryInterval, Branch), which
// time.Duration itself does not provide.
type RealTime time.Time

// Before reports whether the receiver sorts strictly before other.
func (t RealTime) Before(other RealTime) bool {
	return time.Time(t).Before(time.Time(other))
}

// Equal reports whether the receiver and other denote the same instant.
func (t RealTime) Equal(other RealTime) bool {
	return time.Time(t).Equal(time.Time(other))
}

// Add returns the instant d after the receiver.
func (t RealTime) Add(d RealSpan) RealTime {
	return RealTime(time.Time(t).Add(time.Duration(d)))
}

// Sub returns the duration between other and the receiver.
func (t RealTime) Sub(other RealTime) RealSpan {
	return RealSpan(time.Time(t).Sub(time.Time(other)))
}

// AsTime converts a RealTime back to a stdlib time.Time.
func (t RealTime) AsTime() time.Time { return time.Time(t) }

// Now returns the current instant as a RealTime.
func Now() RealTime { return RealTime(time.Now()) }
