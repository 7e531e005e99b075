// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cron parses Vixie-cron style expressions and matches them
// against time.Time, answering "what's the next match after t" by
// bitmask intersection over each cron field.
//
// Fritter does not call into this package directly: ../cron_rule.go's
// CronRule wraps Expression as a RecurrenceRule[time.Time], so a cron
// expression composes with UnionRule/MinusRule/IntersectRule and
// Repeatedly exactly like EveryInterval or CivilRule do.
// The field-matching algorithm here is unchanged from the engine it was
// vendored from; only the boundary at CronRule is Fritter's own.
package cron
