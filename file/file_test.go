package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arcdb/arc/file"
)

func TestFileManagerReadWriteRoundTrip(t *testing.T) {
	const blockfile = "testblock"
	const blockSize = 400

	fman := file.NewFileManager(t.TempDir(), blockSize)

	block := file.NewBlockID(blockfile, 2)
	page := file.NewPageWithSize(fman.BlockSize())

	pos := 88
	const val = "abcdefghilmno"
	const intv = 352

	page.SetString(pos, val)
	pos2 := pos + file.MaxLength(len(val))
	page.SetInt(pos2, intv)

	fman.Write(block, page)

	p2 := file.NewPageWithSize(fman.BlockSize())
	fman.Read(block, p2)

	if got := p2.Int(pos2); got != intv {
		t.Fatalf("expected %d at offset %d. Got %d", intv, pos2, got)
	}

	if got := p2.String(pos); got != val {
		t.Fatalf("expected %q at offset %d. Got %q", val, pos, got)
	}
}

func TestFileManagerReadPastEOFIsZeroFilled(t *testing.T) {
	fman := file.NewFileManager(t.TempDir(), 400)
	block := file.NewBlockID("neverwritten", 0)

	p := file.NewPageWithSize(fman.BlockSize())
	fman.Read(block, p)

	if got := p.Int(0); got != 0 {
		t.Fatalf("expected zero-filled page, got int %d at offset 0", got)
	}
}

func TestFileManagerAppendGrowsSize(t *testing.T) {
	fman := file.NewFileManager(t.TempDir(), 400)
	const fname = "growing"

	if got := fman.Size(fname); got != 0 {
		t.Fatalf("expected empty file to have 0 blocks, got %d", got)
	}

	b0 := fman.Append(fname)
	b1 := fman.Append(fname)

	if b0.BlockNumber() != 0 || b1.BlockNumber() != 1 {
		t.Fatalf("expected sequential block numbers 0,1. Got %d,%d", b0.BlockNumber(), b1.BlockNumber())
	}

	if got := fman.Size(fname); got != 2 {
		t.Fatalf("expected 2 blocks after two appends, got %d", got)
	}
}

func TestNewFileManagerRemovesLeftoverTempFiles(t *testing.T) {
	dir := t.TempDir()

	fman := file.NewFileManager(dir, 400)
	fman.Append("tmpscratch0")

	// reopening must not choke on (and should clear) the leftover temp file
	file.NewFileManager(dir, 400)

	if _, err := os.Stat(filepath.Join(dir, "tmpscratch0")); !os.IsNotExist(err) {
		t.Fatalf("expected leftover temp file to be removed, stat error: %v", err)
	}
}
