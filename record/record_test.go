package record_test

import (
	"io"
	"testing"

	"github.com/arcdb/arc/buffer"
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
	"github.com/arcdb/arc/record"
	"github.com/arcdb/arc/tx"
)

const testBlockSize = 400

func newTestEngine(t *testing.T, numBuffers int) tx.Transaction {
	t.Helper()
	tx.ResetGlobalStateForTest()
	dir := t.TempDir()
	fm := file.NewFileManager(dir, testBlockSize)
	lm := log.NewLogManager(fm, "testlog")
	bm := buffer.NewBufferManager(fm, lm, numBuffers)
	return tx.NewTx(fm, lm, bm)
}

func testSchema() record.Schema {
	schema := record.NewSchema()
	schema.AddIntField("A")
	schema.AddStringField("B", 9)
	return schema
}

func TestLayoutComputesSlotSizeFromSchema(t *testing.T) {
	layout := record.NewLayout(testSchema())
	// flag(4) + int A(4) + string B(4-byte length + 9) -> 4 + 4 + 13 = 21
	want := file.IntSize + file.IntSize + file.StrLength(9)
	if got := layout.SlotSize(); got != want {
		t.Fatalf("slot size = %d, want %d", got, want)
	}
}

func TestRecordPageFormatInsertAndDelete(t *testing.T) {
	trans := newTestEngine(t, 8)
	layout := record.NewLayout(testSchema())

	block, err := trans.Append("recordpagefile")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	rp := record.NewRecordPage(trans, block, layout)
	if err := rp.Format(); err != nil {
		t.Fatalf("format: %v", err)
	}

	slot, err := rp.InsertAfter(-1)
	if err != nil {
		t.Fatalf("insertafter: %v", err)
	}
	if slot != 0 {
		t.Fatalf("first inserted slot = %d, want 0", slot)
	}

	if err := rp.SetInt(slot, "A", 42); err != nil {
		t.Fatalf("setint: %v", err)
	}
	if err := rp.SetString(slot, "B", "hello"); err != nil {
		t.Fatalf("setstring: %v", err)
	}

	gotInt, err := rp.GetInt(slot, "A")
	if err != nil || gotInt != 42 {
		t.Fatalf("getint = %d, %v, want 42, nil", gotInt, err)
	}
	gotStr, err := rp.GetString(slot, "B")
	if err != nil || gotStr != "hello" {
		t.Fatalf("getstring = %q, %v, want hello, nil", gotStr, err)
	}

	if err := rp.Delete(slot); err != nil {
		t.Fatalf("delete: %v", err)
	}
	next, err := rp.NextAfter(-1)
	if err != nil {
		t.Fatalf("nextafter: %v", err)
	}
	if next != -1 {
		t.Fatalf("nextafter after delete = %d, want -1", next)
	}

	trans.Commit()
}

func TestTableScanFillsSlotsThenGrowsFile(t *testing.T) {
	trans := newTestEngine(t, 8)
	layout := record.NewLayout(testSchema())

	ts := record.NewTableScan(trans, "scanfile", layout)
	slotSize := layout.SlotSize()
	perBlock := testBlockSize / slotSize

	inserted := 0
	for i := 0; i < perBlock+3; i++ {
		if err := ts.Insert(); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if err := ts.SetInt("A", i); err != nil {
			t.Fatalf("setint %d: %v", i, err)
		}
		inserted++
	}

	size, err := trans.Size("scanfile.tbl")
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size < 2 {
		t.Fatalf("expected scan to spill into a second block, size=%d", size)
	}

	ts.BeforeFirst()
	count := 0
	for {
		if err := ts.Next(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("next: %v", err)
		}
		count++
	}
	if count != inserted {
		t.Fatalf("scanned %d records, want %d", count, inserted)
	}
	ts.Close()
	trans.Commit()
}

func TestTableScanRIDRoundTrip(t *testing.T) {
	trans := newTestEngine(t, 8)
	layout := record.NewLayout(testSchema())

	ts := record.NewTableScan(trans, "ridfile", layout)
	if err := ts.Insert(); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := ts.SetInt("A", 7); err != nil {
		t.Fatalf("setint: %v", err)
	}
	rid := ts.GetRID()

	ts.BeforeFirst()
	ts.MoveToRID(rid)
	got, err := ts.GetInt("A")
	if err != nil {
		t.Fatalf("getint: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}

	ts.Close()
	trans.Commit()
}
