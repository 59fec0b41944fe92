package tx

import (
	"github.com/arcdb/arc/buffer"
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
)

// Transaction is a single unit of work against the database: a
// sequence of reads and writes bracketed by NewTx and a Commit or
// Rollback, isolated from concurrent transactions by strict
// two-phase locking and made durable by write-ahead logging.
type Transaction interface {
	// Commit flushes every buffer this transaction modified, writes
	// and flushes a COMMIT record, then releases all locks and
	// unpins every buffer this transaction held.
	Commit()

	// Rollback undoes every value this transaction modified, flushes
	// the affected buffers, writes and flushes a ROLLBACK record,
	// then releases all locks and unpins every buffer this
	// transaction held.
	Rollback()

	// Recover flushes the buffers this transaction modified, then undoes the effect
	// of every transaction that was active when the system went
	// down, and finally writes a quiescent checkpoint record. Called
	// once at system startup, before any user transaction begins.
	Recover()

	// Pin pins the given block on this transaction's behalf; it may
	// block waiting for a free buffer frame.
	Pin(block file.BlockID) error

	// Unpin releases this transaction's pin on the given block.
	Unpin(block file.BlockID)

	// GetInt returns the int at offset in block, first acquiring a
	// shared lock on it. Returns ErrLockAcquisitionTimeout if the
	// lock cannot be acquired in time.
	GetInt(block file.BlockID, offset int) (int, error)

	// GetString returns the string at offset in block, first
	// acquiring a shared lock on it. Returns
	// ErrLockAcquisitionTimeout if the lock cannot be acquired in
	// time.
	GetString(block file.BlockID, offset int) (string, error)

	// SetInt writes val at offset in block, first acquiring an
	// exclusive lock on it. If log is true, a SETINT record
	// capturing the prior value is written first, so the write can
	// be undone. Returns ErrLockAcquisitionTimeout if the lock cannot
	// be acquired in time.
	SetInt(block file.BlockID, offset int, val int, log bool) error

	// SetString writes val at offset in block, first acquiring an
	// exclusive lock on it. If log is true, a SETSTRING record
	// capturing the prior value is written first, so the write can
	// be undone. Returns ErrLockAcquisitionTimeout if the lock cannot
	// be acquired in time.
	SetString(block file.BlockID, offset int, val string, log bool) error

	// Size returns the number of blocks in fname, first acquiring a
	// shared lock on its end-of-file sentinel block so that a
	// concurrent Append cannot race with this read.
	Size(fname string) (int, error)

	// Append adds a new block to the end of fname and returns its
	// BlockID, first acquiring an exclusive lock on fname's
	// end-of-file sentinel block.
	Append(fname string) (file.BlockID, error)

	// BlockSize returns the fixed block size used throughout the
	// engine.
	BlockSize() int

	// AvailableBuffers returns the number of currently unpinned
	// buffer frames.
	AvailableBuffers() int
}

// TransactionImpl is the sole implementation of Transaction: a thin
// coordinator wiring a ConcurrencyManager (isolation), a
// RecoveryManager (durability and undo), and a BufferList (its own
// private view of the shared buffer pool) together.
type TransactionImpl struct {
	bufMan     *buffer.Manager
	fileMan    *file.Manager
	recoverMan RecoveryManager
	concMan    ConcurrencyManager
	buffers    BufferList
	num        int
}

// NewTx begins a new transaction: it allocates a fresh transaction id,
// writes its START record, and returns a Transaction ready for use.
func NewTx(fm *file.Manager, lm *log.Manager, bm *buffer.Manager) Transaction {
	tx := TransactionImpl{
		bufMan:  bm,
		fileMan: fm,
		num:     incrTxNum(),
		concMan: NewConcurrencyManager(),
		buffers: MakeBufferList(bm),
	}
	tx.recoverMan = NewRecoveryManagerForTx(tx, tx.num, lm, bm)
	return tx
}

func (tx TransactionImpl) Commit() {
	tx.recoverMan.Commit()
	tx.concMan.Release()
	tx.buffers.UnpinAll()
}

func (tx TransactionImpl) Rollback() {
	tx.recoverMan.Rollback()
	tx.concMan.Release()
	tx.buffers.UnpinAll()
}

func (tx TransactionImpl) Recover() {
	tx.bufMan.FlushAll(tx.num)
	tx.recoverMan.Recover()
}

func (tx TransactionImpl) Pin(block file.BlockID) error {
	return tx.buffers.Pin(block)
}

func (tx TransactionImpl) Unpin(block file.BlockID) {
	tx.buffers.Unpin(block)
}

func (tx TransactionImpl) GetInt(block file.BlockID, offset int) (int, error) {
	if err := tx.concMan.SLock(block); err != nil {
		return 0, err
	}
	buf := tx.buffers.GetBuffer(block)
	return buf.Contents().Int(offset), nil
}

func (tx TransactionImpl) GetString(block file.BlockID, offset int) (string, error) {
	if err := tx.concMan.SLock(block); err != nil {
		return "", err
	}
	buf := tx.buffers.GetBuffer(block)
	return buf.Contents().String(offset), nil
}

func (tx TransactionImpl) SetInt(block file.BlockID, offset int, val int, log bool) error {
	if err := tx.concMan.XLock(block); err != nil {
		return err
	}
	buf := tx.buffers.GetBuffer(block)
	lsn := -1
	if log {
		lsn = tx.recoverMan.SetInt(buf, offset, val)
	}
	p := buf.Contents()
	p.SetInt(offset, val)
	buf.SetModified(tx.num, lsn)
	return nil
}

func (tx TransactionImpl) SetString(block file.BlockID, offset int, val string, log bool) error {
	if err := tx.concMan.XLock(block); err != nil {
		return err
	}
	buf := tx.buffers.GetBuffer(block)
	lsn := -1
	if log {
		lsn = tx.recoverMan.SetString(buf, offset, val)
	}
	p := buf.Contents()
	p.SetString(offset, val)
	buf.SetModified(tx.num, lsn)
	return nil
}

func (tx TransactionImpl) Size(fname string) (int, error) {
	dummy := file.NewBlockID(fname, file.EOF)
	if err := tx.concMan.SLock(dummy); err != nil {
		return -1, err
	}
	return tx.fileMan.Size(fname), nil
}

func (tx TransactionImpl) Append(fname string) (file.BlockID, error) {
	dummy := file.NewBlockID(fname, file.EOF)
	if err := tx.concMan.XLock(dummy); err != nil {
		return file.BlockID{}, err
	}
	return tx.fileMan.Append(fname), nil
}

func (tx TransactionImpl) AvailableBuffers() int {
	return tx.bufMan.Available()
}

func (tx TransactionImpl) BlockSize() int {
	return tx.fileMan.BlockSize()
}
