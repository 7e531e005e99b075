// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

import "errors"

// ErrInvalidScale is returned by BranchManager.ChangeScale when the
// requested scale is non-finite, negative, or zero (§7; the zero case
// resolves the open question in §9: the only legitimate path to a
// stopped branch clock is Pause, which also snapshots the restore
// scale).
var ErrInvalidScale = errors.New("fritter: invalid scale")

// ErrEmptyRecurrence is returned by NewEvery when the period is
// non-positive — a rule whose Next would never advance is rejected at
// construction, resolving the other open question in §9 (InvalidScale
// class, not undefined behavior).
var ErrEmptyRecurrence = errors.New("fritter: recurrence rule never advances")
