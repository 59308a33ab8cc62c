package batch

import (
	"sync"
	"time"
)

// Progress tracks a running batch. It provides thread-safe access to
// completion counts for UI updates while workers are still processing.
type Progress struct {
	// TotalItems is the total number of sequenced items in the batch.
	TotalItems int

	// ProcessedItems is the number of items that reached a terminal state.
	ProcessedItems int

	// WrittenItems is the number of items written so far.
	WrittenItems int

	// RejectedItems is the number of items rejected so far.
	RejectedItems int

	// StartTime is when processing started.
	StartTime time.Time

	// LastUpdateTime is when progress was last updated.
	LastUpdateTime time.Time

	// mu protects concurrent access to progress fields.
	mu sync.RWMutex
}

// ProgressCallback is an optional callback invoked after each item reaches a
// terminal state. It receives a snapshot of the batch progress and the item
// that just finished.
type ProgressCallback func(progress *Progress, item *Item)

// NewProgress creates a progress tracker for a batch of the given size.
func NewProgress(totalItems int) *Progress {
	now := time.Now()
	return &Progress{
		TotalItems:     totalItems,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// recordOutcome increments the completion counts for one finished item.
// This method is thread-safe.
func (p *Progress) recordOutcome(written bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ProcessedItems++
	if written {
		p.WrittenItems++
	} else {
		p.RejectedItems++
	}
	p.LastUpdateTime = time.Now()
}

// Snapshot returns a copy of the current counts without the lock, safe to
// read after the copy is taken.
func (p *Progress) Snapshot() (processed, written, rejected int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ProcessedItems, p.WrittenItems, p.RejectedItems
}

// Elapsed returns the time spent processing so far.
func (p *Progress) Elapsed() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.LastUpdateTime.Sub(p.StartTime)
}
