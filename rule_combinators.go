// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// UnionRule combines two rules into one firing whenever either would
// (l ∪ r), generalizing the teacher's time.Time-only Schedule
// combinators to any RecurrenceRule[T].
func UnionRule[T Temporal[T, D], D any](l, r RecurrenceRule[T]) RecurrenceRule[T] {
	return &unionRule[T, D]{l: l, r: r}
}

type unionRule[T Temporal[T, D], D any] struct {
	l, r RecurrenceRule[T]
}

func (u *unionRule[T, D]) Next(after, reference T) T {
	t1 := u.l.Next(after, reference)
	t2 := u.r.Next(after, reference)
	if t1.Before(t2) {
		return t1
	}
	return t2
}

func (u *unionRule[T, D]) StepsBetween(earlier, later T) uint64 {
	return countByNext[T, D](u, earlier, later)
}

// MinusRule fires whenever l would, except at an instant r also fires
// (l − r).
func MinusRule[T Temporal[T, D], D any](l, r RecurrenceRule[T]) RecurrenceRule[T] {
	return &minusRule[T, D]{l: l, r: r}
}

type minusRule[T Temporal[T, D], D any] struct {
	l, r RecurrenceRule[T]
}

func (m *minusRule[T, D]) Next(after, reference T) T {
	t1 := m.l.Next(after, reference)
	t2 := m.r.Next(after, reference)

	for {
		if t1.Before(t2) {
			return t1
		}

		if t1.Equal(t2) {
			// blocked; both sides advance and the check restarts.
			t1 = m.l.Next(t1, reference)
			t2 = m.r.Next(t2, reference)
			continue
		}

		// t1 is after t2; catch t2 up until it no longer trails t1.
		for t2.Before(t1) {
			t2 = m.r.Next(t2, reference)
		}
	}
}

func (m *minusRule[T, D]) StepsBetween(earlier, later T) uint64 {
	return countByNext[T, D](m, earlier, later)
}

// IntersectRule fires only at instants both l and r would (l ∩ r).
func IntersectRule[T Temporal[T, D], D any](l, r RecurrenceRule[T]) RecurrenceRule[T] {
	return &intersectRule[T, D]{l: l, r: r}
}

type intersectRule[T Temporal[T, D], D any] struct {
	l, r RecurrenceRule[T]
}

func (i *intersectRule[T, D]) Next(after, reference T) T {
	t1 := i.l.Next(after, reference)
	t2 := i.r.Next(after, reference)
	for !t1.Equal(t2) {
		if t1.Before(t2) {
			t1 = i.l.Next(t1, reference)
		} else {
			t2 = i.r.Next(t2, reference)
		}
	}
	return t1
}

func (i *intersectRule[T, D]) StepsBetween(earlier, later T) uint64 {
	return countByNext[T, D](i, earlier, later)
}

// countByNext counts boundaries of rule in (earlier, later] by walking
// Next, the fallback StepsBetween implementation for any combinator
// rule whose structure makes a closed-form count impractical.
func countByNext[T Temporal[T, D], D any](rule RecurrenceRule[T], earlier, later T) uint64 {
	if !earlier.Before(later) {
		return 0
	}
	var steps uint64
	t := earlier
	for {
		next := rule.Next(t, earlier)
		if !next.Before(later) && !next.Equal(later) {
			return steps
		}
		steps++
		t = next
	}
}
