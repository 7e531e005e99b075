// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SleepDriver is a Driver backed by a real OS timer (§6): the one Driver
// in this package that genuinely needs a background goroutine, since it
// must bridge an asynchronous time.Timer firing to the Scheduler's
// synchronous fire callback. toTime/fromTime convert the scheduler's T
// to and from time.Time so SleepDriver can host any Temporal[T, D], not
// just RealTime/RealSpan, as long as the caller supplies the two
// conversions.
type SleepDriver[T Temporal[T, D], D any] struct {
	toTime       func(T) time.Time
	fromTime     func(time.Time) T
	panicHandler func(r interface{})

	mu    sync.Mutex
	timer *time.Timer
}

// SleepDriverOption configures a SleepDriver at construction.
type SleepDriverOption[T Temporal[T, D], D any] func(*SleepDriver[T, D])

// WithSleepDriverPanicHandler overrides the default panic handler, which
// logs the recovered value via logrus and otherwise swallows it (mirroring
// the teacher's safeWrap/safeRun default of printing to stderr and moving
// on, so one failing Work never takes down the driver's goroutine).
func WithSleepDriverPanicHandler[T Temporal[T, D], D any](h func(r interface{})) SleepDriverOption[T, D] {
	return func(d *SleepDriver[T, D]) { d.panicHandler = h }
}

// NewSleepDriver returns a SleepDriver whose Now() reports real wall-clock
// time, translated to and from T by toTime/fromTime.
func NewSleepDriver[T Temporal[T, D], D any](toTime func(T) time.Time, fromTime func(time.Time) T, opts ...SleepDriverOption[T, D]) *SleepDriver[T, D] {
	d := &SleepDriver[T, D]{toTime: toTime, fromTime: fromTime}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewRealSleepDriver returns a SleepDriver over RealTime/RealSpan, the
// common case of driving a Scheduler from the actual wall clock.
func NewRealSleepDriver(opts ...SleepDriverOption[RealTime, RealSpan]) *SleepDriver[RealTime, RealSpan] {
	return NewSleepDriver[RealTime, RealSpan](
		func(t RealTime) time.Time { return t.AsTime() },
		func(t time.Time) RealTime { return RealTime(t) },
		opts...,
	)
}

// Now returns the current wall-clock time as T.
func (d *SleepDriver[T, D]) Now() T {
	return d.fromTime(time.Now())
}

// Reschedule arms a real time.Timer for deadline, replacing any
// previously armed timer. fire runs on the timer's own goroutine,
// wrapped so a panicking Work is recovered and reported instead of
// crashing the process (§7's propagation policy still applies to the
// Scheduler's own fire/tick logic; this only protects the driver's
// goroutine boundary, the same role safeWrap played for the teacher's
// IndPeriod/IndDelay/IndSchedule goroutines).
func (d *SleepDriver[T, D]) Reschedule(deadline T, fire func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	delay := d.toTime(deadline).Sub(time.Now())
	if delay < 0 {
		delay = 0
	}
	d.timer = time.AfterFunc(delay, d.safeWrap(fire))
}

// Unschedule stops any pending timer. Idempotent.
func (d *SleepDriver[T, D]) Unschedule() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *SleepDriver[T, D]) safeWrap(fire func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				if d.panicHandler != nil {
					d.panicHandler(r)
				} else {
					logrus.WithField("comp", "sleepdriver").Errorf("panic: %+v", r)
				}
			}
		}()
		fire()
	}
}
