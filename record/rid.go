package record

import "fmt"

// RID identifies a record's physical location within a table file: a
// block number plus the slot within that block.
type RID struct {
	blocknum int
	slot     int
}

func NewRID(blocknum int, slot int) RID {
	return RID{blocknum: blocknum, slot: slot}
}

func (r RID) Blocknum() int {
	return r.blocknum
}

func (r RID) Slot() int {
	return r.slot
}

func (r RID) String() string {
	return fmt.Sprintf("n:%d s:%d", r.blocknum, r.slot)
}
