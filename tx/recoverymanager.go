package tx

import (
	"github.com/arcdb/arc/buffer"
	"github.com/arcdb/arc/log"
)

// RecoveryManager wraps a single transaction's use of the WAL: it
// records undo information as the transaction modifies pages, and
// replays that log on rollback or on crash recovery. Recovery here is
// undo-only: commit forces every dirty page of the committing
// transaction to disk before the COMMIT record is flushed, so no
// committed update can ever be missing from disk after a crash, and no
// redo pass is needed.
type RecoveryManager struct {
	lm    *log.Manager
	bm    *buffer.Manager
	tx    Transaction
	txnum int
}

// NewRecoveryManagerForTx writes the transaction's START record and
// returns a recovery manager bound to it.
func NewRecoveryManagerForTx(tx Transaction, txnum int, lm *log.Manager, bm *buffer.Manager) RecoveryManager {
	man := RecoveryManager{
		lm:    lm,
		bm:    bm,
		tx:    tx,
		txnum: txnum,
	}
	LogStart(lm, txnum)
	return man
}

// SetInt writes a SETINT record capturing buff's current value at
// offset (the value about to be overwritten) and returns its LSN.
func (man RecoveryManager) SetInt(buff *buffer.Buffer, offset int, val int) int {
	oldval := buff.Contents().Int(offset)
	block := buff.BlockID()
	return LogSetInt(man.lm, man.txnum, block, offset, oldval)
}

// SetString writes a SETSTRING record capturing buff's current value
// at offset (the value about to be overwritten) and returns its LSN.
func (man RecoveryManager) SetString(buff *buffer.Buffer, offset int, val string) int {
	oldval := buff.Contents().String(offset)
	block := buff.BlockID()
	return LogSetString(man.lm, man.txnum, block, offset, oldval)
}

// Commit forces every page this transaction modified to disk, then
// writes and flushes a COMMIT record.
func (man RecoveryManager) Commit() {
	man.bm.FlushAll(man.txnum)
	lsn := LogCommit(man.lm, man.txnum)
	man.lm.Flush(lsn)
}

// Rollback undoes every change this transaction made, forces its
// pages to disk, then writes and flushes a ROLLBACK record.
func (man RecoveryManager) Rollback() {
	man.doRollback()
	man.bm.FlushAll(man.txnum)
	lsn := LogRollback(man.lm, man.txnum)
	man.lm.Flush(lsn)
}

// doRollback scans the log newest-to-oldest, undoing every record that
// belongs to this transaction, stopping as soon as it reaches this
// transaction's own START record.
func (man RecoveryManager) doRollback() {
	reader := man.lm.Iterator()
	for reader.HasNext() {
		bytes := reader.Next()
		record := CreateLogRecord(bytes)
		if record.TxNumber() == man.txnum {
			if record.Op() == START {
				return
			}
			record.Undo(man.tx)
		}
	}
}

// Recover undoes every change made by transactions that were active
// when the system went down, forces all pages to disk, then writes
// and flushes a quiescent CHECKPOINT record.
func (man RecoveryManager) Recover() {
	man.doRecover()
	man.bm.FlushAll(man.txnum)
	lsn := LogCheckpoint(man.lm)
	man.lm.Flush(lsn)
}

// doRecover scans the log newest-to-oldest. Records belonging to a
// transaction that committed or rolled back are left alone; records
// belonging to any other transaction are undone, since that
// transaction was never known to have finished. Scanning stops at the
// first CHECKPOINT record, since every transaction active before it is
// guaranteed to have finished by the time it was written.
func (man RecoveryManager) doRecover() {
	finishedTxs := map[int]struct{}{}
	reader := man.lm.Iterator()
	for reader.HasNext() {
		bytes := reader.Next()
		record := CreateLogRecord(bytes)
		if record.Op() == CHECKPOINT {
			return
		}
		if record.Op() == COMMIT || record.Op() == ROLLBACK {
			finishedTxs[record.TxNumber()] = struct{}{}
		} else if _, ok := finishedTxs[record.TxNumber()]; !ok {
			record.Undo(man.tx)
		}
	}
}
