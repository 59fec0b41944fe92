package file

import "fmt"

// EOF is the sentinel block number used by the transaction layer to
// lock "the end of a file" when serializing Size against Append,
// never a block that is actually read or written.
const EOF = -1

// BlockID identifies a fixed-size block within a named file on disk.
// It is a value type: two BlockIDs naming the same file and block
// number compare equal and share a cache key for map/lock-table use.
type BlockID struct {
	filename    string
	blockNumber int
	stringId    string
}

func NewBlockID(filename string, blockNumber int) BlockID {
	return BlockID{
		filename:    filename,
		blockNumber: blockNumber,
		stringId:    fmt.Sprintf("f:%sb:%d", filename, blockNumber),
	}
}

func (bid BlockID) Filename() string {
	return bid.filename
}

func (bid BlockID) BlockNumber() int {
	return bid.blockNumber
}

func (bid BlockID) Equals(other BlockID) bool {
	return bid.filename == other.filename && bid.blockNumber == other.blockNumber
}

func (bid BlockID) String() string {
	return bid.stringId
}
