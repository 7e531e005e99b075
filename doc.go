// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fritter schedules future work against an abstract clock.
//
// The core is generic over a time type T and a work type W: a Scheduler
// holds calls in a priority queue ordered by (deadline, id) and re-arms a
// pluggable Driver whenever the earliest deadline changes. Repeatedly
// builds a drift-free recurring call on top of a Scheduler, and Branch
// builds a child Scheduler whose clock is a linear, mid-flight-adjustable
// function of its parent's.
//
// Fritter assumes single-threaded cooperative use: a Scheduler, its
// FutureCall handles, its repeaters and its branches must all be driven
// from the same execution context that drives the root Driver. No
// locking is done internally.
package fritter
