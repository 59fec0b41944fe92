package log

import (
	"sync"

	"github.com/arcdb/arc/file"
)

// iteratorPool recycles the scratch pages used by Iterator so repeated
// Recover/Rollback scans don't churn one block-sized allocation per call.
// Pages of the wrong size (a pool shared across differently-configured
// Managers, e.g. in tests) are simply reallocated in newIterator.
var iteratorPool = sync.Pool{
	New: func() any {
		return (*file.Page)(nil)
	},
}

// Iterator walks log records from most-recently-appended to oldest,
// reading blocks from disk one at a time as it crosses block boundaries.
type Iterator struct {
	fm         *file.Manager
	block      file.BlockID
	page       *file.Page
	currentPos int
	boundary   int
}

func newIterator(page *file.Page, fm *file.Manager, start file.BlockID) *Iterator {
	if page == nil || page.Len() != fm.BlockSize() {
		page = file.NewPageWithSlice(make([]byte, fm.BlockSize()))
	}

	it := &Iterator{
		fm:   fm,
		page: page,
	}
	it.moveToBlock(start)
	return it
}

// HasNext reports whether there are more records to iterate: either
// the current block has unread records, or an earlier block exists.
func (it *Iterator) HasNext() bool {
	return it.currentPos < it.fm.BlockSize() || it.block.BlockNumber() > 0
}

// Next returns the next record, moving to the previous block first if
// the current one is exhausted. Callers must check HasNext first.
func (it *Iterator) Next() []byte {
	if it.currentPos == it.fm.BlockSize() {
		block := file.NewBlockID(it.block.Filename(), it.block.BlockNumber()-1)
		it.moveToBlock(block)
	}

	record := it.page.Bytes(it.currentPos)
	it.currentPos += len(record) + file.IntSize
	return record
}

// Close returns the iterator's scratch page to the pool. The iterator
// must not be used again afterwards.
func (it *Iterator) Close() {
	it.fm = nil
	it.block = file.BlockID{}
	iteratorPool.Put(it.page)
	it.page = nil
}

func (it *Iterator) moveToBlock(block file.BlockID) {
	it.fm.Read(block, it.page)
	it.boundary = it.page.Int(0)
	it.currentPos = it.boundary
	it.block = block
}
