package tx

import "github.com/arcdb/arc/file"

// ConcurrencyManager tracks the locks held by a single transaction and
// talks to the process-wide LockTable on its behalf, so that a
// transaction never asks the lock table for a lock it already holds
// and releases every lock it acquired, together, at commit/rollback.
type ConcurrencyManager struct {
	locks map[file.BlockID]string
}

func NewConcurrencyManager() ConcurrencyManager {
	return ConcurrencyManager{
		locks: map[file.BlockID]string{},
	}
}

// SLock acquires a shared lock on block if this transaction does not
// already hold a lock (shared or exclusive) on it.
func (cm ConcurrencyManager) SLock(block file.BlockID) error {
	if _, ok := cm.locks[block]; ok {
		return nil
	}
	if err := lockTable.SLock(block); err != nil {
		return err
	}
	cm.locks[block] = sLock
	return nil
}

// XLock acquires an exclusive lock on block, first acquiring a shared
// lock if this transaction holds none, then upgrading it. Strict 2PL
// only ever upgrades S to X; it never downgrades.
func (cm ConcurrencyManager) XLock(block file.BlockID) error {
	if cm.hasXLock(block) {
		return nil
	}
	if err := cm.SLock(block); err != nil {
		return err
	}
	if err := lockTable.XLock(block); err != nil {
		return err
	}
	cm.locks[block] = xLock
	return nil
}

// Release releases every lock this transaction holds, via the
// process-wide lock table, and clears its local view.
func (cm *ConcurrencyManager) Release() {
	for block := range cm.locks {
		lockTable.Unlock(block)
	}
	cm.locks = map[file.BlockID]string{}
}

func (cm ConcurrencyManager) hasXLock(block file.BlockID) bool {
	return cm.locks[block] == xLock
}
