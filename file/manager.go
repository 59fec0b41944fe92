package file

import (
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/arcdb/arc/internal/applog"
	"github.com/rs/zerolog"
)

// Manager reads and writes pages to disk blocks. It always reads and
// writes exactly blockSize bytes from a file, always at a block
// boundary, so every Read/Write/Append call incurs exactly one disk
// access.
type Manager struct {
	folder    string
	blockSize int
	isNew     bool
	// openFiles maps a file name to an open *os.File, opened O_RDWR|O_SYNC.
	openFiles map[string]*os.File
	log       zerolog.Logger
	sync.Mutex
}

// NewFileManager opens (creating if absent) the database directory at
// dir, using blockSize-byte blocks. Any leftover "tmp"-prefixed files
// from a previous crashed run are removed, matching the teacher's
// scratch-file cleanup convention for materialization temp files.
func NewFileManager(dir string, blockSize int) *Manager {
	log := applog.New("file")

	_, err := os.Stat(dir)
	isNew := os.IsNotExist(err)
	if isNew {
		if mkErr := os.MkdirAll(dir, os.ModeSticky|os.ModePerm); mkErr != nil {
			log.Fatal().Err(mkErr).Str("dir", dir).Msg("cannot create database directory")
		}
	} else if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("cannot stat database directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("cannot list database directory")
	}

	for _, v := range entries {
		if strings.HasPrefix(v.Name(), "tmp") {
			if rmErr := os.Remove(path.Join(dir, v.Name())); rmErr != nil {
				log.Warn().Err(rmErr).Str("file", v.Name()).Msg("failed to remove leftover temp file")
			}
		}
	}

	log.Info().Str("dir", dir).Int("blockSize", blockSize).Bool("new", isNew).Msg("file manager ready")

	return &Manager{
		folder:    dir,
		blockSize: blockSize,
		isNew:     isNew,
		openFiles: make(map[string]*os.File),
		log:       log,
	}
}

// IsNew reports whether the database directory did not exist before
// this Manager was constructed. The engine orchestrator uses this to
// decide between initializing a fresh catalog and running recovery.
func (manager *Manager) IsNew() bool {
	return manager.isNew
}

// Close closes every open file handle, returning the first error
// encountered, if any, after attempting to close them all.
func (manager *Manager) Close() error {
	manager.Lock()
	defer manager.Unlock()

	var firstErr error
	for name, f := range manager.openFiles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
			manager.log.Warn().Err(err).Str("file", name).Msg("failed to close data file")
		}
		delete(manager.openFiles, name)
	}
	return firstErr
}

func (manager *Manager) getFile(fname string) *os.File {
	f, ok := manager.openFiles[fname]
	if ok {
		return f
	}

	p := path.Join(manager.folder, fname)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_RDWR|os.O_SYNC, 0644)
	if err != nil {
		manager.log.Fatal().Err(err).Str("file", fname).Msg("cannot open data file")
	}
	manager.openFiles[fname] = f
	return f
}

func (manager *Manager) BlockSize() int {
	return manager.blockSize
}

// Read reads the contents of block blk into page p.
func (manager *Manager) Read(blk BlockID, p *Page) {
	manager.Lock()
	defer manager.Unlock()

	f := manager.getFile(blk.Filename())

	// io.EOF means we read past the current end of file; the page is
	// left zero-filled, which is the correct contents for a block that
	// has never been written.
	if _, err := f.ReadAt(p.contents(), int64(blk.BlockNumber())*int64(manager.blockSize)); err != nil && err != io.EOF {
		manager.log.Fatal().Err(err).Str("block", blk.String()).Msg("block read failed")
	}
}

// Write persists page p to block blk.
func (manager *Manager) Write(blk BlockID, p *Page) {
	manager.Lock()
	defer manager.Unlock()

	f := manager.getFile(blk.Filename())
	if _, err := f.WriteAt(p.contents(), int64(blk.BlockNumber())*int64(manager.blockSize)); err != nil {
		manager.log.Fatal().Err(err).Str("block", blk.String()).Msg("block write failed")
	}
}

// Size returns the number of blocks currently in filename.
func (manager *Manager) Size(filename string) int {
	manager.Lock()
	defer manager.Unlock()

	f := manager.getFile(filename)
	finfo, err := f.Stat()
	if err != nil {
		manager.log.Fatal().Err(err).Str("file", filename).Msg("cannot stat data file")
	}
	return int(finfo.Size() / int64(manager.blockSize))
}

// Append extends filename by one zero-filled block and returns its
// BlockID.
func (manager *Manager) Append(fname string) BlockID {
	manager.Lock()
	defer manager.Unlock()

	f := manager.getFile(fname)
	finfo, err := f.Stat()
	if err != nil {
		manager.log.Fatal().Err(err).Str("file", fname).Msg("cannot stat data file")
	}
	newBlkNum := int(finfo.Size() / int64(manager.blockSize))
	block := NewBlockID(fname, newBlkNum)

	buf := make([]byte, manager.blockSize)
	if _, err := f.WriteAt(buf, int64(newBlkNum)*int64(manager.blockSize)); err != nil {
		manager.log.Fatal().Err(err).Str("block", block.String()).Msg("block append failed")
	}
	return block
}
