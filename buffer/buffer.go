package buffer

import (
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
)

// cleanTxNum is the sentinel ModifyingTx/txnum value meaning "this
// buffer holds no uncommitted modification" — distinct from any real
// transaction number (transaction numbers start at 1).
const cleanTxNum = -1

// Buffer is one frame of the buffer pool: a page of in-memory contents
// pinned to a single disk block, tracking which transaction (if any)
// last modified it and the LSN of that modification for WAL ordering.
type Buffer struct {
	fm       *file.Manager
	lm       *log.Manager
	contents *file.Page
	block    file.BlockID
	pins     int
	txnum    int
	lsn      int
}

func NewBuffer(fm *file.Manager, lm *log.Manager) *Buffer {
	return &Buffer{
		fm:       fm,
		lm:       lm,
		contents: file.NewPageWithSize(fm.BlockSize()),
		txnum:    cleanTxNum,
		lsn:      cleanTxNum,
	}
}

func (buf *Buffer) Contents() *file.Page {
	return buf.contents
}

func (buf *Buffer) BlockID() file.BlockID {
	return buf.block
}

// SetModified records that txnum last modified this buffer, producing
// the log record at lsn. lsn may be -1 (no log record, e.g. undo of an
// uncommitted SETINT where nothing new needs logging) in which case
// the previously recorded lsn is kept.
func (buf *Buffer) SetModified(txnum int, lsn int) {
	buf.txnum = txnum
	if lsn >= 0 {
		buf.lsn = lsn
	}
}

// ModifyingTx returns the transaction number that last modified this
// buffer, or cleanTxNum (-1) if the buffer holds no pending modification.
func (buf *Buffer) ModifyingTx() int {
	return buf.txnum
}

func (buf *Buffer) IsPinned() bool {
	return buf.pins > 0
}

// flush ensures the buffer's assigned disk block matches its page. If
// the buffer carries no pending modification (txnum == cleanTxNum),
// nothing is written. Otherwise the WAL is flushed up to this buffer's
// lsn first (write-ahead logging: the log record justifying the write
// must be durable before the write itself lands), then the page.
func (buf *Buffer) flush() {
	if buf.txnum < 0 {
		return
	}

	buf.lm.Flush(buf.lsn)
	buf.fm.Write(buf.block, buf.contents)
	buf.txnum = cleanTxNum
}

// assignToBlock flushes any pending modification to the buffer's
// current block, then reassigns it to block, reading that block's
// contents from disk and resetting the pin count.
func (buf *Buffer) assignToBlock(block file.BlockID) {
	buf.flush()
	buf.block = block
	buf.fm.Read(buf.block, buf.contents)
	buf.pins = 0
}

func (buf *Buffer) pin() {
	buf.pins++
}

func (buf *Buffer) unpin() {
	buf.pins--
}
