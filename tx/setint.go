package tx

import (
	"fmt"

	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
)

// SetIntLogRecord captures the value an int field held immediately
// before a SetInt wrote over it, so Undo can restore it.
// Wire layout: | SETINT | txnum | filename | blocknum | offset | oldval |
type SetIntLogRecord struct {
	txnum  int
	offset int
	block  file.BlockID
	val    int
}

func NewSetIntRecord(p *file.Page) SetIntLogRecord {
	const tpos = file.IntSize
	const fpos = tpos + file.IntSize

	si := SetIntLogRecord{}
	si.txnum = p.Int(tpos)

	fname := p.String(fpos)
	bpos := fpos + file.MaxLength(len(fname))
	blockNum := p.Int(bpos)
	si.block = file.NewBlockID(fname, blockNum)

	opos := bpos + file.IntSize
	si.offset = p.Int(opos)

	vpos := opos + file.IntSize
	si.val = p.Int(vpos)

	return si
}

func (si SetIntLogRecord) Op() txType {
	return SETINT
}

func (si SetIntLogRecord) TxNumber() int {
	return si.txnum
}

func (si SetIntLogRecord) String() string {
	return fmt.Sprintf("<SETINT %d %s %d %d>", si.txnum, si.block, si.offset, si.val)
}

// Undo rewrites the captured old value back into the block, unlogged
// (logging the undo of an update would defeat the point of undoing it).
func (si SetIntLogRecord) Undo(tx Transaction) {
	tx.Pin(si.block)
	tx.SetInt(si.block, si.offset, si.val, false)
	tx.Unpin(si.block)
}

// LogSetInt appends a SETINT record to the log and returns its LSN.
func LogSetInt(lm *log.Manager, txnum int, block file.BlockID, offset int, val int) int {
	return lm.Append(logSetInt(txnum, block, offset, val))
}

func logSetInt(txnum int, block file.BlockID, offset int, val int) []byte {
	const tpos = file.IntSize
	fpos := tpos + file.IntSize
	bpos := fpos + file.MaxLength(len(block.Filename()))
	opos := bpos + file.IntSize
	vpos := opos + file.IntSize
	reclen := vpos + file.IntSize

	record := make([]byte, reclen)
	p := file.NewPageWithSlice(record)
	p.SetInt(0, int(SETINT))
	p.SetInt(tpos, txnum)
	p.SetString(fpos, block.Filename())
	p.SetInt(bpos, block.BlockNumber())
	p.SetInt(opos, offset)
	p.SetInt(vpos, val)
	return record
}
