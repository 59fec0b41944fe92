package buffer

import (
	"errors"
	"sync"
	"time"

	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/internal/applog"
	"github.com/arcdb/arc/log"
	"github.com/rs/zerolog"
)

const (
	pinPollInterval = 10 * time.Millisecond
	pinMaxWait      = 10 * time.Second
)

// ErrClientTimeout is returned by Pin when no buffer became available
// within pinMaxWait. Per the engine's error-handling policy this is a
// fatal condition for the calling transaction: the caller should abort.
var ErrClientTimeout = errors.New("buffer: timed out waiting for an available buffer")

// Manager owns the fixed-size buffer pool: the set of in-memory pages
// available to hold user data blocks. Clients pin a block to get a
// *Buffer, read/write through it, then unpin it. Eviction, when the
// pool is full, picks the first unpinned buffer found (no clock/LRU),
// matching the engine's "naive" buffer replacement policy.
type Manager struct {
	pool      []*Buffer
	available int
	log       zerolog.Logger
	sync.Mutex
}

func NewBufferManager(fm *file.Manager, lm *log.Manager, size int) *Manager {
	p := make([]*Buffer, size)
	for i := range p {
		p[i] = NewBuffer(fm, lm)
	}
	return &Manager{
		pool:      p,
		available: size,
		log:       applog.New("buffer"),
	}
}

func (man *Manager) Available() int {
	man.Lock()
	defer man.Unlock()
	return man.available
}

// FlushAll flushes every buffer currently holding a modification made
// by txnum. Called on commit/rollback before the transaction's log
// record is appended, per the strict-WAL/force-at-commit policy.
func (man *Manager) FlushAll(txnum int) {
	man.Lock()
	defer man.Unlock()
	for _, b := range man.pool {
		if b.ModifyingTx() == txnum {
			b.flush()
		}
	}
}

// Unpin releases one pin held on buf, making it eligible for eviction
// once its pin count reaches zero.
func (man *Manager) Unpin(buf *Buffer) {
	man.Lock()
	defer man.Unlock()

	buf.unpin()
	if !buf.IsPinned() {
		man.available++
	}
}

// Pin pins block, reusing an existing buffer already assigned to it or
// evicting an unpinned one, polling at pinPollInterval until either a
// buffer frees up or pinMaxWait elapses (ErrClientTimeout).
func (man *Manager) Pin(block file.BlockID) (*Buffer, error) {
	deadline := time.Now().Add(pinMaxWait)

	buf := man.tryToPin(block)
	for buf == nil {
		if time.Now().After(deadline) {
			man.log.Warn().Str("block", block.String()).Msg("timed out waiting for a free buffer")
			return nil, ErrClientTimeout
		}

		// There is no buffer-pool condition variable signaled by Unpin
		// in this implementation; polling is the documented fallback.
		time.Sleep(pinPollInterval)
		buf = man.tryToPin(block)
	}

	return buf, nil
}

// tryToPin attempts one non-blocking pin attempt, returning nil if no
// buffer is currently available.
func (man *Manager) tryToPin(block file.BlockID) *Buffer {
	man.Lock()
	defer man.Unlock()

	b := man.findExistingBuffer(block)
	if b == nil {
		b = man.chooseUnpinnedBuffer()
		if b == nil {
			return nil
		}
		b.assignToBlock(block)
	}

	if !b.IsPinned() {
		man.available--
	}
	b.pin()

	return b
}

func (man *Manager) findExistingBuffer(block file.BlockID) *Buffer {
	for _, b := range man.pool {
		if b.block.Equals(block) {
			return b
		}
	}
	return nil
}

// chooseUnpinnedBuffer returns the first unpinned buffer in pool
// order, or nil if every buffer is currently pinned.
func (man *Manager) chooseUnpinnedBuffer() *Buffer {
	for _, b := range man.pool {
		if !b.IsPinned() {
			return b
		}
	}
	return nil
}
