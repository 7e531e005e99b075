// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// PersistableWork is the capability a Work implementation may offer so
// that Snapshot can serialize it (§4.7). Not every W instantiation needs
// to satisfy it: Snapshot checks for it with a type assertion instead of
// adding it to Scheduler's own type parameters, since W is only
// constrained to Work and Go does not allow a method to bolt on an extra
// constraint its receiver's type parameters don't already carry.
//
// TypeCode identifies which registry entry on the restoring side knows
// how to decode Encode's result back into a Work; the registry itself is
// left to the caller (it is the one part of persistence this package
// takes no position on).
type PersistableWork interface {
	TypeCode() string
	Encode() map[string]any
}

// PersistedCall is one scheduled call as captured by Snapshot: a
// deadline and a type-tagged, opaque-to-this-package encoding of its
// work.
type PersistedCall[T any] struct {
	Deadline T
	TypeCode string
	Data     map[string]any
}

// Snapshot captures every live (non-canceled) call in s whose work
// satisfies PersistableWork, in (deadline, id) order. Calls whose work
// does not implement PersistableWork are silently skipped: they are not
// restorable, by the caller's own choice of W.
func Snapshot[T Temporal[T, D], D any, W Work](s *Scheduler[T, D, W]) []PersistedCall[T] {
	records := s.queue.Records()

	sorted := make([]*Record[T, D, W], 0, len(records))
	for _, rec := range records {
		if !rec.canceled {
			sorted = append(sorted, rec)
		}
	}
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && less(sorted[j], sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	out := make([]PersistedCall[T], 0, len(sorted))
	for _, rec := range sorted {
		pw, ok := any(rec.work).(PersistableWork)
		if !ok {
			continue
		}
		out = append(out, PersistedCall[T]{
			Deadline: rec.deadline,
			TypeCode: pw.TypeCode(),
			Data:     pw.Encode(),
		})
	}
	return out
}

// Restore reinserts every snapshot entry into s by calling decode on its
// TypeCode/Data and scheduling the result with CallAt. Since CallAt
// assigns strictly increasing ids in call order, restoring the entries
// in their original (deadline, id) order (Snapshot's own output order)
// naturally reproduces the original FIFO tie-break among calls that
// shared a deadline, with no extra bookkeeping needed.
func Restore[T Temporal[T, D], D any, W Work](s *Scheduler[T, D, W], entries []PersistedCall[T], decode func(typeCode string, data map[string]any) (W, error)) error {
	for _, entry := range entries {
		work, err := decode(entry.TypeCode, entry.Data)
		if err != nil {
			return err
		}
		s.CallAt(entry.Deadline, work)
	}
	return nil
}
