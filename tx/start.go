package tx

import (
	"fmt"

	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
)

// startRecord marks the beginning of a transaction. Undo does nothing;
// recovery stops undoing a transaction's records once it reaches this.
// Wire layout: | START | txnum |
type startRecord struct {
	txnum int
}

func newStartRecord(p *file.Page) startRecord {
	return startRecord{txnum: p.Int(file.IntSize)}
}

func (r startRecord) Op() txType {
	return START
}

func (r startRecord) TxNumber() int {
	return r.txnum
}

func (r startRecord) Undo(tx Transaction) {
	// nothing to undo for a START record
}

func (r startRecord) String() string {
	return fmt.Sprintf("<START %d>", r.txnum)
}

// LogStart appends a START record to the log and returns its LSN.
func LogStart(lm *log.Manager, txnum int) int {
	record := make([]byte, 2*file.IntSize)
	p := file.NewPageWithSlice(record)
	p.SetInt(0, int(START))
	p.SetInt(file.IntSize, txnum)
	return lm.Append(record)
}
