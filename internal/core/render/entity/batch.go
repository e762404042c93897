package entity

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/benidon1974/zetaglest-source/internal/core/render/geom"
)

// Batch is the set of visible entities assembled for one frame. The render
// goroutine owns it; the interpolation worker borrows it for one wake cycle.
type Batch struct {
	Frame    uint64
	Entities []*Entity

	done     chan struct{}
	doneOnce sync.Once
	skipped  atomic.Bool
}

func NewBatch(frame uint64, entities ...*Entity) *Batch {
	return &Batch{
		Frame:    frame,
		Entities: entities,
		done:     make(chan struct{}),
	}
}

// Add appends entities. Must not be called once the batch has been armed.
func (b *Batch) Add(entities ...*Entity) {
	b.Entities = append(b.Entities, entities...)
}

// Cull drops nil entities and those whose cell lies outside q and returns how
// many were dropped.
func (b *Batch) Cull(q geom.Quad2i) int {
	kept := b.Entities[:0]
	for _, e := range b.Entities {
		if e != nil && q.Contains(e.MapPos) {
			kept = append(kept, e)
		}
	}
	dropped := len(b.Entities) - len(kept)
	clear(b.Entities[len(kept):])
	b.Entities = kept
	return dropped
}

// Len returns the number of entities in the batch.
func (b *Batch) Len() int { return len(b.Entities) }

// Count returns how many entities are currently in state s.
func (b *Batch) Count(s State) int {
	n := 0
	for _, e := range b.Entities {
		if e != nil && e.State() == s {
			n++
		}
	}
	return n
}

// Done is closed once the worker is finished with the batch, whether it
// interpolated it, abandoned it for a newer one, or never started it.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until Done is closed or ctx ends.
func (b *Batch) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Skipped reports whether a newer batch replaced this one before the worker
// started on it.
func (b *Batch) Skipped() bool {
	return b.skipped.Load()
}

// Finish closes Done. skipped marks a batch the worker never started.
// Calling Finish more than once is harmless.
func (b *Batch) Finish(skipped bool) {
	b.doneOnce.Do(func() {
		b.skipped.Store(skipped)
		close(b.done)
	})
}
