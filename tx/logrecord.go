package tx

import "github.com/arcdb/arc/file"

// logRecord is the common interface of the six log record kinds. Undo
// is a no-op for every kind except SETINT/SETSTRING, which restore the
// value the record captured before the update they describe.
type logRecord interface {
	// Op returns this record's kind.
	Op() txType
	// TxNumber returns the transaction that produced this record.
	TxNumber() int
	// Undo reverses this record's effect against tx, if any.
	Undo(tx Transaction)
	String() string
}

// txType is the closed set of log record kinds. Values are encoded as
// the first 4-byte big-endian int of every record on disk, so this set
// can never grow without a wire-format migration.
type txType int

const (
	CHECKPOINT txType = iota
	START
	COMMIT
	ROLLBACK
	SETINT
	SETSTRING
)

// CreateLogRecord decodes a log record from its raw on-disk bytes,
// read from the log via an Iterator.
func CreateLogRecord(bytes []byte) logRecord {
	p := file.NewPageWithSlice(bytes)
	switch txType(p.Int(0)) {
	case CHECKPOINT:
		return newCheckpointRecord(p)
	case START:
		return newStartRecord(p)
	case COMMIT:
		return newCommitRecord(p)
	case ROLLBACK:
		return newRollbackRecord(p)
	case SETINT:
		return NewSetIntRecord(p)
	case SETSTRING:
		return NewSetStringRecord(p)
	default:
		return nil
	}
}
