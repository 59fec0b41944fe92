package tx

import (
	"fmt"

	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
)

// SetStringLogRecord captures the value a string field held
// immediately before a SetString wrote over it, so Undo can restore it.
// Wire layout: | SETSTRING | txnum | filename | blocknum | offset | oldval |
type SetStringLogRecord struct {
	txnum  int
	offset int
	block  file.BlockID
	val    string
}

func NewSetStringRecord(p *file.Page) SetStringLogRecord {
	const tpos = file.IntSize
	const fpos = tpos + file.IntSize

	ss := SetStringLogRecord{}
	ss.txnum = p.Int(tpos)

	fname := p.String(fpos)
	bpos := fpos + file.MaxLength(len(fname))
	blockNum := p.Int(bpos)
	ss.block = file.NewBlockID(fname, blockNum)

	opos := bpos + file.IntSize
	ss.offset = p.Int(opos)

	vpos := opos + file.IntSize
	ss.val = p.String(vpos)

	return ss
}

func (ss SetStringLogRecord) Op() txType {
	return SETSTRING
}

func (ss SetStringLogRecord) TxNumber() int {
	return ss.txnum
}

func (ss SetStringLogRecord) String() string {
	return fmt.Sprintf("<SETSTRING %d %s %d %s>", ss.txnum, ss.block, ss.offset, ss.val)
}

// Undo rewrites the captured old value back into the block, unlogged.
func (ss SetStringLogRecord) Undo(tx Transaction) {
	tx.Pin(ss.block)
	tx.SetString(ss.block, ss.offset, ss.val, false)
	tx.Unpin(ss.block)
}

// LogSetString appends a SETSTRING record to the log and returns its LSN.
func LogSetString(lm *log.Manager, txnum int, block file.BlockID, offset int, val string) int {
	return lm.Append(logSetString(txnum, block, offset, val))
}

func logSetString(txnum int, block file.BlockID, offset int, val string) []byte {
	const tpos = file.IntSize
	fpos := tpos + file.IntSize
	bpos := fpos + file.MaxLength(len(block.Filename()))
	opos := bpos + file.IntSize
	vpos := opos + file.IntSize
	reclen := vpos + file.MaxLength(len(val))

	record := make([]byte, reclen)
	p := file.NewPageWithSlice(record)
	p.SetInt(0, int(SETSTRING))
	p.SetInt(tpos, txnum)
	p.SetString(fpos, block.Filename())
	p.SetInt(bpos, block.BlockNumber())
	p.SetInt(opos, offset)
	p.SetString(vpos, val)
	return record
}
