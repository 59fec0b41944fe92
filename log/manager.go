// Package log implements the write-ahead log: a single append-only
// file of fixed-size blocks, each block packed with variable-length
// records from its tail end towards its head, newest first.
package log

import (
	"sync"

	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/internal/applog"
	"github.com/rs/zerolog"
)

// Manager appends records to, and iterates records from, the WAL file.
// Every append is buffered in an in-memory page and only reaches disk
// on an explicit Flush (or when a new block is started); callers that
// need durability before proceeding (e.g. before treating a commit
// record as durable) must call Flush with the LSN they depend on.
type Manager struct {
	fm           *file.Manager
	logfile      string
	logpage      *file.Page
	currentBlock file.BlockID
	latestLSN    int
	lastSavedLSN int
	log          zerolog.Logger
	sync.Mutex
}

// NewLogManager opens (or creates) logfile within fm's directory,
// positioning at its last block, or creating a fresh first block if
// the file is empty.
func NewLogManager(fm *file.Manager, logfile string) *Manager {
	logpage := file.NewPageWithSlice(make([]byte, fm.BlockSize()))

	man := &Manager{
		fm:      fm,
		logfile: logfile,
		logpage: logpage,
		log:     applog.New("log"),
	}

	logsize := fm.Size(logfile)
	if logsize == 0 {
		man.currentBlock = man.appendNewBlock()
	} else {
		man.currentBlock = file.NewBlockID(logfile, logsize-1)
		fm.Read(man.currentBlock, logpage)
	}

	return man
}

// flush writes the in-memory log page to currentBlock and advances
// lastSavedLSN to the latest LSN appended so far. Caller must hold the lock.
func (man *Manager) flush() {
	man.fm.Write(man.currentBlock, man.logpage)
	man.lastSavedLSN = man.latestLSN
}

// Flush writes the current log page to disk unless lsn is below the
// last LSN already written.
func (man *Manager) Flush(lsn int) {
	man.Lock()
	defer man.Unlock()

	if lsn >= man.lastSavedLSN {
		man.flush()
	}
}

// Iterator flushes pending records, then returns an iterator over all
// log records from most-recent to oldest.
func (man *Manager) Iterator() *Iterator {
	man.Lock()
	defer man.Unlock()

	man.flush()
	p := iteratorPool.Get().(*file.Page)
	return newIterator(p, man.fm, man.currentBlock)
}

// Append adds a record to the current log page, starting a new block
// first if the record would not fit. Records are packed from the tail
// of the block towards its head; offset 0 of every block holds a
// "boundary" integer: the offset of the most recently appended record.
//
//	head of block -> | boundary | ... free space ... | newest record | ... | oldest record | <- tail
//	                  ^--------^
//	                  file.IntSize bytes
//
// Returns the LSN assigned to the appended record.
func (man *Manager) Append(record []byte) int {
	man.Lock()
	defer man.Unlock()

	boundary := man.logpage.Int(0)
	bytesNeeded := len(record) + file.IntSize

	if boundary-bytesNeeded < file.IntSize {
		man.flush()
		man.currentBlock = man.appendNewBlock()
		boundary = man.logpage.Int(0)
	}

	recpos := boundary - bytesNeeded
	man.logpage.SetBytes(recpos, record)
	man.logpage.SetInt(0, recpos)
	man.latestLSN++
	return man.latestLSN
}

// appendNewBlock appends a fresh block to the log file, writes its
// initial boundary (pointing past the end of the block, meaning
// "empty"), and persists it. Caller must hold the lock.
func (man *Manager) appendNewBlock() file.BlockID {
	block := man.fm.Append(man.logfile)
	man.logpage.SetInt(0, man.fm.BlockSize())
	man.fm.Write(block, man.logpage)
	man.log.Debug().Str("block", block.String()).Msg("appended new log block")
	return block
}
