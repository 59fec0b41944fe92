package tx

import (
	"github.com/arcdb/arc/buffer"
	"github.com/arcdb/arc/file"
)

// BufferList tracks which buffers a single transaction currently has
// pinned, with a per-block pin count so repeated Pin calls on the same
// block unwind correctly across repeated Unpin calls.
type BufferList struct {
	buffers map[string]*buffer.Buffer
	pins    map[string]int
	bm      *buffer.Manager
}

func MakeBufferList(bm *buffer.Manager) BufferList {
	return BufferList{
		buffers: map[string]*buffer.Buffer{},
		pins:    map[string]int{},
		bm:      bm,
	}
}

// GetBuffer returns the buffer already pinned to block by this
// transaction, or nil if the transaction has not pinned it.
func (list *BufferList) GetBuffer(block file.BlockID) *buffer.Buffer {
	return list.buffers[block.String()]
}

// Pin pins block via the underlying buffer.Manager, recording the
// resulting buffer and incrementing its pin count.
func (list *BufferList) Pin(block file.BlockID) error {
	buf, err := list.bm.Pin(block)
	if err != nil {
		return err
	}
	key := block.String()
	list.buffers[key] = buf
	list.pins[key]++
	return nil
}

// Unpin releases one pin on block, forgetting it once its count
// reaches zero.
func (list *BufferList) Unpin(block file.BlockID) {
	key := block.String()
	buf, ok := list.buffers[key]
	if !ok {
		return
	}
	list.bm.Unpin(buf)

	if c := list.pins[key]; c <= 1 {
		delete(list.pins, key)
		delete(list.buffers, key)
	} else {
		list.pins[key]--
	}
}

// UnpinAll releases every buffer still pinned by this transaction,
// called once at commit/rollback.
func (list *BufferList) UnpinAll() {
	for k, c := range list.pins {
		for i := 0; i < c; i++ {
			list.bm.Unpin(list.buffers[k])
		}
	}

	list.buffers = map[string]*buffer.Buffer{}
	list.pins = map[string]int{}
}
