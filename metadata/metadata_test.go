package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcdb/arc/buffer"
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
	"github.com/arcdb/arc/metadata"
	"github.com/arcdb/arc/record"
	"github.com/arcdb/arc/tx"
)

const testBlockSize = 400

func newTestEngine(t *testing.T) (*file.Manager, *log.Manager, *buffer.Manager) {
	t.Helper()
	tx.ResetGlobalStateForTest()
	dir := t.TempDir()
	fm := file.NewFileManager(dir, testBlockSize)
	lm := log.NewLogManager(fm, "testlog")
	bm := buffer.NewBufferManager(fm, lm, 8)
	return fm, lm, bm
}

func studentSchema() record.Schema {
	schema := record.NewSchema()
	schema.AddIntField("sid")
	schema.AddStringField("sname", 10)
	schema.AddIntField("gradyear")
	return schema
}

func TestTableManagerCreateAndReadBackLayout(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	tm := metadata.NewTableManager()
	require.NoError(t, tm.Init(trans))

	sch := studentSchema()
	require.NoError(t, tm.CreateTable("student", sch, trans))

	exists, err := tm.TableExists("student", trans)
	require.NoError(t, err)
	require.True(t, exists)

	missing, err := tm.TableExists("nosuchtable", trans)
	require.NoError(t, err)
	require.False(t, missing)

	layout, err := tm.Layout("student", trans)
	require.NoError(t, err)
	require.Equal(t, file.INTEGER, layout.Schema().Type("sid"))
	require.Equal(t, file.STRING, layout.Schema().Type("sname"))
	require.Equal(t, 10, layout.Schema().Length("sname"))

	trans.Commit()
}

func TestTableManagerUnknownTableReturnsErrTableNotFound(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	tm := metadata.NewTableManager()
	require.NoError(t, tm.Init(trans))

	_, err := tm.Layout("ghost", trans)
	require.ErrorIs(t, err, metadata.ErrTableNotFound)

	trans.Commit()
}

func TestViewManagerStoresAndReturnsDefinition(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	tm := metadata.NewTableManager()
	require.NoError(t, tm.Init(trans))
	vm := metadata.NewViewManager(tm)
	require.NoError(t, vm.Init(trans))

	require.NoError(t, vm.CreateView("sview", "select sname from student", trans))

	def, err := vm.ViewDefinition("sview", trans)
	require.NoError(t, err)
	require.Equal(t, "select sname from student", def)

	_, err = vm.ViewDefinition("noview", trans)
	require.ErrorIs(t, err, metadata.ErrViewNotFound)

	trans.Commit()
}

func TestStatManagerReflectsInsertedRecords(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	tm := metadata.NewTableManager()
	require.NoError(t, tm.Init(trans))
	require.NoError(t, tm.CreateTable("student", studentSchema(), trans))

	layout, err := tm.Layout("student", trans)
	require.NoError(t, err)

	ts := record.NewTableScan(trans, "student", layout)
	for i := 0; i < 5; i++ {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("sid", i))
		require.NoError(t, ts.SetString("sname", "s"))
		require.NoError(t, ts.SetInt("gradyear", 2024))
	}
	ts.Close()

	sm := metadata.NewStatManager(tm)
	require.NoError(t, sm.Init(trans))

	si, err := sm.StatInfo("student", layout, trans)
	require.NoError(t, err)
	require.Equal(t, 5, si.Records)
	require.GreaterOrEqual(t, si.Blocks, 1)

	trans.Commit()
}

func TestIndexManagerDeclaresIndexAndOpensStub(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	mgr := metadata.NewManager()
	require.NoError(t, mgr.Init(trans))
	require.NoError(t, mgr.CreateTable("student", studentSchema(), trans))

	require.NoError(t, mgr.CreateIndex("sidx", "student", "sid", trans))

	infos, err := mgr.IndexInfo("student", trans)
	require.NoError(t, err)
	require.Contains(t, infos, "sid")

	idx := infos["sid"].Open(trans)
	defer idx.Close()

	err = idx.BeforeFirst(file.ValueFromInt(1))
	require.ErrorIs(t, err, metadata.ErrIndexNotImplemented)

	_, err = idx.Next()
	require.ErrorIs(t, err, metadata.ErrIndexNotImplemented)

	trans.Commit()
}

func TestManagerInitCreatesCatalogTables(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	mgr := metadata.NewManager()
	require.NoError(t, mgr.Init(trans))

	exists, err := mgr.TableExists("tblcat", trans)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = mgr.TableExists("viewcat", trans)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = mgr.TableExists("idxcat", trans)
	require.NoError(t, err)
	require.True(t, exists)

	trans.Commit()
}
