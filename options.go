// Copyright (c) 2019,CAO HONGJU. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fritter

// Option configures a Scheduler at construction, mirroring the
// teacher's functional-option pattern (Option/optionFunc below).
type Option[T Temporal[T, D], D any, W Work] interface {
	apply(*Scheduler[T, D, W])
}

// optionFunc wraps a func so it satisfies the Option interface.
type optionFunc[T Temporal[T, D], D any, W Work] func(*Scheduler[T, D, W])

func (f optionFunc[T, D, W]) apply(s *Scheduler[T, D, W]) { f(s) }

// WithQueue configures the PriorityQueue backing a Scheduler, in place
// of the default binary heap. Alternative backings (pairing heap,
// skiplist) need only satisfy PriorityQueue.
func WithQueue[T Temporal[T, D], D any, W Work](queue PriorityQueue[T, D, W]) Option[T, D, W] {
	return optionFunc[T, D, W](func(s *Scheduler[T, D, W]) {
		s.queue = queue
	})
}
