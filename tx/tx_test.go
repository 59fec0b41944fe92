package tx_test

import (
	"testing"

	"github.com/arcdb/arc/buffer"
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
	"github.com/arcdb/arc/tx"
)

const testBlockSize = 400

func newTestEngine(t *testing.T, numBuffers int) (*file.Manager, *log.Manager, *buffer.Manager) {
	t.Helper()
	tx.ResetGlobalStateForTest()
	dir := t.TempDir()
	fm := file.NewFileManager(dir, testBlockSize)
	lm := log.NewLogManager(fm, "testlog")
	bm := buffer.NewBufferManager(fm, lm, numBuffers)
	return fm, lm, bm
}

func TestSetIntCommitPersists(t *testing.T) {
	fm, lm, bm := newTestEngine(t, 8)

	t1 := tx.NewTx(fm, lm, bm)
	block := file.NewBlockID("testfile", 1)
	if err := t1.Pin(block); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if err := t1.SetInt(block, 80, 1, false); err != nil {
		t.Fatalf("setint: %v", err)
	}
	t1.Commit()

	t2 := tx.NewTx(fm, lm, bm)
	if err := t2.Pin(block); err != nil {
		t.Fatalf("pin: %v", err)
	}
	got, err := t2.GetInt(block, 80)
	if err != nil {
		t.Fatalf("getint: %v", err)
	}
	if got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	t2.Commit()
}

func TestRollbackUndoesUncommittedWrite(t *testing.T) {
	fm, lm, bm := newTestEngine(t, 8)
	block := file.NewBlockID("testfile2", 1)

	t1 := tx.NewTx(fm, lm, bm)
	_ = t1.Pin(block)
	_ = t1.SetInt(block, 80, 9, true)
	t1.Commit()

	t2 := tx.NewTx(fm, lm, bm)
	_ = t2.Pin(block)
	_ = t2.SetInt(block, 80, 999, true)
	t2.Rollback()

	t3 := tx.NewTx(fm, lm, bm)
	_ = t3.Pin(block)
	got, err := t3.GetInt(block, 80)
	if err != nil {
		t.Fatalf("getint: %v", err)
	}
	if got != 9 {
		t.Fatalf("rollback did not restore prior value: got %d, want 9", got)
	}
	t3.Commit()
}

func TestXLockUpgradeFromSLock(t *testing.T) {
	fm, lm, bm := newTestEngine(t, 8)
	block := file.NewBlockID("testfile3", 1)

	tr := tx.NewTx(fm, lm, bm)
	_ = tr.Pin(block)
	if _, err := tr.GetInt(block, 0); err != nil {
		t.Fatalf("slock: %v", err)
	}
	if err := tr.SetInt(block, 0, 5, true); err != nil {
		t.Fatalf("upgrade to xlock: %v", err)
	}
	tr.Commit()
}

func TestConcurrentXLockTimesOut(t *testing.T) {
	fm, lm, bm := newTestEngine(t, 8)
	block := file.NewBlockID("testfile4", 1)

	holder := tx.NewTx(fm, lm, bm)
	_ = holder.Pin(block)
	if err := holder.SetInt(block, 0, 1, true); err != nil {
		t.Fatalf("holder xlock: %v", err)
	}

	waiter := tx.NewTx(fm, lm, bm)
	_ = waiter.Pin(block)
	_, err := waiter.GetInt(block, 0)
	if err != tx.ErrLockAcquisitionTimeout {
		t.Fatalf("expected ErrLockAcquisitionTimeout, got %v", err)
	}

	holder.Commit()
}

func TestAppendAndSizeTrackFileGrowth(t *testing.T) {
	fm, lm, bm := newTestEngine(t, 8)

	tr := tx.NewTx(fm, lm, bm)
	before, err := tr.Size("growfile")
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	blk, err := tr.Append("growfile")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if blk.BlockNumber() != before {
		t.Fatalf("appended block number %d, want %d", blk.BlockNumber(), before)
	}
	after, err := tr.Size("growfile")
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if after != before+1 {
		t.Fatalf("size after append = %d, want %d", after, before+1)
	}
	tr.Commit()
}

func TestRecoverUndoesActiveTransactionAfterCrash(t *testing.T) {
	fm, lm, bm := newTestEngine(t, 8)
	block := file.NewBlockID("crashfile", 1)

	base := tx.NewTx(fm, lm, bm)
	_ = base.Pin(block)
	_ = base.SetInt(block, 0, 1, true)
	base.Commit()

	// simulate a transaction that was active (never committed or
	// rolled back) when the system went down: its SETINT record is
	// on the log but no COMMIT/ROLLBACK follows it.
	crashed := tx.NewTx(fm, lm, bm)
	_ = crashed.Pin(block)
	_ = crashed.SetInt(block, 0, 999, true)
	bm.FlushAll(-1) // flush nothing; crashed tx leaves its log record behind uncommitted

	// a crash also loses the in-memory lock table, so the crashed
	// transaction's locks do not outlive it
	tx.ResetGlobalStateForTest()

	recoverer := tx.NewTx(fm, lm, bm)
	recoverer.Recover()
	_ = recoverer.Pin(block)
	got, err := recoverer.GetInt(block, 0)
	if err != nil {
		t.Fatalf("getint: %v", err)
	}
	if got != 1 {
		t.Fatalf("recover did not undo crashed transaction: got %d, want 1", got)
	}
	recoverer.Commit()
}
