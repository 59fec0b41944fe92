package record

import (
	"io"

	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/tx"
)

// TableScan hides a table's block structure from its caller: it
// manages a single RecordPage over the table's current block, moving
// to the next block (or appending one, on Insert) as the current
// block is exhausted. A single pass through a TableScan touches each
// of the table's blocks exactly once.
type TableScan struct {
	tx          tx.Transaction
	l           Layout
	rp          *RecordPage
	filename    string
	currentSlot int
}

// NewTableScan opens a scan over tablename.tbl, positioned before the
// first record. If the file is empty, a first block is appended and
// formatted.
func NewTableScan(t tx.Transaction, tablename string, layout Layout) *TableScan {
	fname := tablename + ".tbl"
	ts := &TableScan{tx: t, l: layout, filename: fname}

	size, err := t.Size(fname)
	if err != nil {
		panic(err)
	}

	if size == 0 {
		ts.moveToNewBlock()
	} else {
		ts.moveToBlock(0)
	}

	return ts
}

func (ts *TableScan) BeforeFirst() {
	ts.moveToBlock(0)
}

// Close unpins the buffer backing the current record page, if any.
func (ts *TableScan) Close() {
	if ts.rp != nil {
		ts.tx.Unpin(ts.rp.Block())
	}
}

// Next advances to the next record, moving across block boundaries as
// needed. Returns io.EOF once the last block's last record has passed.
func (ts *TableScan) Next() error {
	slot, err := ts.rp.NextAfter(ts.currentSlot)
	if err != nil {
		return err
	}
	ts.currentSlot = slot

	for ts.currentSlot < 0 {
		last, err := ts.isAtLastBlock()
		if err != nil {
			return err
		}
		if last {
			return io.EOF
		}

		ts.moveToBlock(ts.rp.Block().BlockNumber() + 1)
		slot, err := ts.rp.NextAfter(ts.currentSlot)
		if err != nil {
			return err
		}
		ts.currentSlot = slot
	}

	return nil
}

func (ts *TableScan) GetInt(fieldname string) (int, error) {
	return ts.rp.GetInt(ts.currentSlot, fieldname)
}

func (ts *TableScan) GetString(fieldname string) (string, error) {
	return ts.rp.GetString(ts.currentSlot, fieldname)
}

func (ts *TableScan) GetVal(fieldname string) (file.Value, error) {
	switch ts.l.schema.ftype(fieldname) {
	case file.INTEGER:
		v, err := ts.GetInt(fieldname)
		if err != nil {
			return file.Value{}, err
		}
		return file.ValueFromInt(v), nil
	case file.STRING:
		v, err := ts.GetString(fieldname)
		if err != nil {
			return file.Value{}, err
		}
		return file.ValueFromString(v), nil
	}
	panic("invalid type for field " + fieldname)
}

func (ts *TableScan) HasField(fieldname string) bool {
	return ts.l.schema.HasField(fieldname)
}

func (ts *TableScan) SetInt(fieldname string, val int) error {
	return ts.rp.SetInt(ts.currentSlot, fieldname, val)
}

func (ts *TableScan) SetString(fieldname string, val string) error {
	return ts.rp.SetString(ts.currentSlot, fieldname, val)
}

func (ts *TableScan) SetVal(fieldname string, val file.Value) error {
	switch ts.l.schema.ftype(fieldname) {
	case file.INTEGER:
		return ts.SetInt(fieldname, val.AsIntVal())
	case file.STRING:
		return ts.SetString(fieldname, val.AsStringVal())
	}
	panic("invalid type for field " + fieldname)
}

// Insert finds the next empty slot, scanning forward from the current
// block and, if every remaining block is full, appending and
// formatting a fresh one.
func (ts *TableScan) Insert() error {
	slot, err := ts.rp.InsertAfter(ts.currentSlot)
	if err != nil {
		return err
	}
	ts.currentSlot = slot

	for ts.currentSlot < 0 {
		last, err := ts.isAtLastBlock()
		if err != nil {
			return err
		}

		if last {
			if err := ts.moveToNewBlock(); err != nil {
				return err
			}
		} else {
			ts.moveToBlock(ts.rp.Block().BlockNumber() + 1)
		}

		slot, err := ts.rp.InsertAfter(ts.currentSlot)
		if err != nil {
			return err
		}
		ts.currentSlot = slot
	}

	return nil
}

func (ts *TableScan) Delete() error {
	return ts.rp.Delete(ts.currentSlot)
}

func (ts *TableScan) MoveToRID(rid RID) {
	ts.Close()
	block := file.NewBlockID(ts.filename, rid.Blocknum())
	ts.rp = NewRecordPage(ts.tx, block, ts.l)
	ts.currentSlot = rid.Slot()
}

func (ts *TableScan) GetRID() RID {
	return NewRID(ts.rp.Block().BlockNumber(), ts.currentSlot)
}

// moveToBlock closes the current record page and opens a new one over
// block, positioned before its first slot.
func (ts *TableScan) moveToBlock(block int) {
	ts.Close()
	b := file.NewBlockID(ts.filename, block)
	ts.rp = NewRecordPage(ts.tx, b, ts.l)
	ts.currentSlot = -1
}

// moveToNewBlock appends a fresh block to the file, formats it, and
// opens a record page over it, positioned before its first slot.
func (ts *TableScan) moveToNewBlock() error {
	ts.Close()
	block, err := ts.tx.Append(ts.filename)
	if err != nil {
		return err
	}
	ts.rp = NewRecordPage(ts.tx, block, ts.l)
	if err := ts.rp.Format(); err != nil {
		return err
	}
	ts.currentSlot = -1
	return nil
}

// isAtLastBlock reports whether the current record page's block is
// the file's last block.
func (ts *TableScan) isAtLastBlock() (bool, error) {
	size, err := ts.tx.Size(ts.filename)
	if err != nil {
		return false, err
	}
	return ts.rp.Block().BlockNumber() == size-1, nil
}
