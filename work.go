// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// Work is a capability: the opaque, no-argument, no-return callable a
// Scheduler invokes once a call's deadline has passed. Errors do not
// surface through a return value; a Work that fails panics, and the
// panic is left to propagate through the driver's fire callback (§7).
type Work interface {
	Run()
}

// WorkFunc adapts an ordinary func() to the Work interface.
type WorkFunc func()

// Run invokes the underlying function.
func (f WorkFunc) Run() { f() }
