package tx

import (
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
)

// checkpointRecord marks a point at which every transaction active at
// recovery time is known to be finished. Recovery stops undoing once
// it reaches this record.
// Wire layout: | CHECKPOINT |
type checkpointRecord struct{}

func newCheckpointRecord(p *file.Page) checkpointRecord {
	return checkpointRecord{}
}

func (r checkpointRecord) Op() txType {
	return CHECKPOINT
}

func (r checkpointRecord) TxNumber() int {
	return 0
}

func (r checkpointRecord) Undo(tx Transaction) {
	// nothing to undo for a CHECKPOINT record
}

func (r checkpointRecord) String() string {
	return "<CHECKPOINT>"
}

// LogCheckpoint appends a CHECKPOINT record to the log and returns its LSN.
func LogCheckpoint(lm *log.Manager) int {
	record := make([]byte, file.IntSize)
	p := file.NewPageWithSlice(record)
	p.SetInt(0, int(CHECKPOINT))
	return lm.Append(record)
}
