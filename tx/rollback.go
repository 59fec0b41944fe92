package tx

import (
	"fmt"

	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
)

// rollbackRecord marks that a transaction's changes have all been
// undone. Undo does nothing; recovery treats txnum as finished once
// it sees this.
// Wire layout: | ROLLBACK | txnum |
type rollbackRecord struct {
	txnum int
}

func newRollbackRecord(p *file.Page) rollbackRecord {
	return rollbackRecord{txnum: p.Int(file.IntSize)}
}

func (r rollbackRecord) Op() txType {
	return ROLLBACK
}

func (r rollbackRecord) TxNumber() int {
	return r.txnum
}

func (r rollbackRecord) Undo(tx Transaction) {
	// nothing to undo for a ROLLBACK record
}

func (r rollbackRecord) String() string {
	return fmt.Sprintf("<ROLLBACK %d>", r.txnum)
}

// LogRollback appends a ROLLBACK record to the log and returns its LSN.
func LogRollback(lm *log.Manager, txnum int) int {
	record := make([]byte, 2*file.IntSize)
	p := file.NewPageWithSlice(record)
	p.SetInt(0, int(ROLLBACK))
	p.SetInt(file.IntSize, txnum)
	return lm.Append(record)
}
