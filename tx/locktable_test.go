package tx

import (
	"testing"
	"time"

	"github.com/arcdb/arc/file"
)

func TestLockTableMultipleSharedLocksCoexist(t *testing.T) {
	lt := NewLockTable()
	block := file.NewBlockID("f", 0)

	if err := lt.SLock(block); err != nil {
		t.Fatalf("first slock: %v", err)
	}
	if err := lt.SLock(block); err != nil {
		t.Fatalf("second slock: %v", err)
	}
}

func TestLockTableXLockExcludesSLock(t *testing.T) {
	lt := NewLockTable()
	block := file.NewBlockID("f", 0)

	if err := lt.XLock(block); err != nil {
		t.Fatalf("xlock: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- lt.SLock(block)
	}()

	select {
	case err := <-done:
		t.Fatalf("slock succeeded while xlock held, err=%v", err)
	case <-time.After(50 * time.Millisecond):
		// expected: blocked behind the exclusive lock
	}

	lt.Unlock(block)
	if err := <-done; err != nil {
		t.Fatalf("slock after unlock: %v", err)
	}
}

func TestLockTableUnlockReleasesExclusive(t *testing.T) {
	lt := NewLockTable()
	block := file.NewBlockID("f", 0)

	if err := lt.XLock(block); err != nil {
		t.Fatalf("xlock: %v", err)
	}
	lt.Unlock(block)

	if err := lt.XLock(block); err != nil {
		t.Fatalf("xlock after unlock: %v", err)
	}
}
