package tx

import (
	"fmt"

	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
)

// commitRecord marks that a transaction's changes are durable. Undo
// does nothing; recovery treats txnum as finished once it sees this.
// Wire layout: | COMMIT | txnum |
type commitRecord struct {
	txnum int
}

func newCommitRecord(p *file.Page) commitRecord {
	return commitRecord{txnum: p.Int(file.IntSize)}
}

func (r commitRecord) Op() txType {
	return COMMIT
}

func (r commitRecord) TxNumber() int {
	return r.txnum
}

func (r commitRecord) Undo(tx Transaction) {
	// nothing to undo for a COMMIT record
}

func (r commitRecord) String() string {
	return fmt.Sprintf("<COMMIT %d>", r.txnum)
}

// LogCommit appends a COMMIT record to the log and returns its LSN.
func LogCommit(lm *log.Manager, txnum int) int {
	record := make([]byte, 2*file.IntSize)
	p := file.NewPageWithSlice(record)
	p.SetInt(0, int(COMMIT))
	p.SetInt(file.IntSize, txnum)
	return lm.Append(record)
}
