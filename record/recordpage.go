package record

import (
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/tx"
)

const (
	EMPTY = 0
	USED  = 1
)

// RecordPage interprets a single block as a sequence of fixed-size
// slots: | flag 0 | record 0 | flag 1 | record 1 | ... | flag N | record N |.
// Records are unspanned (a whole record always fits in one block),
// homogeneous (a block holds records of only one layout), and
// fixed-length, so every slot in a block is the same size and a slot's
// offset is computed directly from its index. All reads and writes go
// through the owning transaction, so every access is locked and
// (where appropriate) logged.
type RecordPage struct {
	tx     tx.Transaction
	block  file.BlockID
	layout Layout
}

// NewRecordPage pins block and returns a RecordPage over it. The
// caller is responsible for unpinning block once done (TableScan does
// this via Close/moveToBlock).
func NewRecordPage(t tx.Transaction, block file.BlockID, layout Layout) *RecordPage {
	t.Pin(block)
	return &RecordPage{tx: t, block: block, layout: layout}
}

func (p RecordPage) offset(slot int) int {
	return slot * p.layout.SlotSize()
}

// GetInt returns the value of fieldname at slot.
func (p RecordPage) GetInt(slot int, fieldname string) (int, error) {
	fieldpos := p.offset(slot) + p.layout.Offset(fieldname)
	return p.tx.GetInt(p.block, fieldpos)
}

// GetString returns the value of fieldname at slot.
func (p RecordPage) GetString(slot int, fieldname string) (string, error) {
	fieldpos := p.offset(slot) + p.layout.Offset(fieldname)
	return p.tx.GetString(p.block, fieldpos)
}

// SetInt stores val at fieldname of slot.
func (p RecordPage) SetInt(slot int, fieldname string, val int) error {
	fieldpos := p.offset(slot) + p.layout.Offset(fieldname)
	return p.tx.SetInt(p.block, fieldpos, val, true)
}

// SetString stores val at fieldname of slot.
func (p RecordPage) SetString(slot int, fieldname string, val string) error {
	fieldpos := p.offset(slot) + p.layout.Offset(fieldname)
	return p.tx.SetString(p.block, fieldpos, val, true)
}

// Delete flags slot as empty.
func (p RecordPage) Delete(slot int) error {
	return p.setFlag(slot, EMPTY)
}

// Format writes flag=EMPTY and a zero/empty value for every field of
// every slot that fits in the block. Unlogged: a freshly formatted
// block has no prior state worth undoing.
func (p RecordPage) Format() error {
	for slot := 0; p.isValidSlot(slot); slot++ {
		if err := p.tx.SetInt(p.block, p.offset(slot), EMPTY, false); err != nil {
			return err
		}
		schema := p.layout.Schema()
		for _, f := range schema.fields {
			fpos := p.offset(slot) + p.layout.Offset(f)
			switch schema.ftype(f) {
			case file.INTEGER:
				if err := p.tx.SetInt(p.block, fpos, 0, false); err != nil {
					return err
				}
			case file.STRING:
				if err := p.tx.SetString(p.block, fpos, "", false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p RecordPage) setFlag(slot int, flag int) error {
	return p.tx.SetInt(p.block, p.offset(slot), flag, true)
}

// NextAfter returns the first USED slot after slot, or -1 if the
// block has none.
func (p RecordPage) NextAfter(slot int) (int, error) {
	return p.searchAfter(slot, USED)
}

// InsertAfter returns the first EMPTY slot after slot, flagging it
// USED, or -1 if the block has no empty slot left.
func (p RecordPage) InsertAfter(slot int) (int, error) {
	newslot, err := p.searchAfter(slot, EMPTY)
	if err != nil {
		return 0, err
	}
	if newslot >= 0 {
		if err := p.setFlag(newslot, USED); err != nil {
			return 0, err
		}
	}
	return newslot, nil
}

func (p RecordPage) Block() file.BlockID {
	return p.block
}

// searchAfter linearly scans forward from slot+1 for the first slot
// carrying flag, returning -1 if the block is exhausted first.
func (p RecordPage) searchAfter(slot int, flag int) (int, error) {
	slot++
	for p.isValidSlot(slot) {
		v, err := p.tx.GetInt(p.block, p.offset(slot))
		if err != nil {
			return 0, err
		}
		if v == flag {
			return slot, nil
		}
		slot++
	}
	return -1, nil
}

func (p RecordPage) isValidSlot(slot int) bool {
	return p.offset(slot+1) <= p.tx.BlockSize()
}
