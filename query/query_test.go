package query_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcdb/arc/buffer"
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
	"github.com/arcdb/arc/parse"
	"github.com/arcdb/arc/query"
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

func studentLayout() record.Layout {
	schema := record.NewSchema()
	schema.AddIntField("sid")
	schema.AddStringField("sname", 10)
	schema.AddIntField("gradyear")
	return record.NewLayout(schema)
}

func enrollLayout() record.Layout {
	schema := record.NewSchema()
	schema.AddIntField("eid")
	schema.AddIntField("studentid")
	schema.AddStringField("grade", 2)
	return record.NewLayout(schema)
}

func populateStudents(t *testing.T, trans tx.Transaction, rows []struct {
	sid      int
	sname    string
	gradyear int
}) {
	t.Helper()
	ts := record.NewTableScan(trans, "student", studentLayout())
	defer ts.Close()
	for _, r := range rows {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("sid", r.sid))
		require.NoError(t, ts.SetString("sname", r.sname))
		require.NoError(t, ts.SetInt("gradyear", r.gradyear))
	}
}

func parsePredicate(t *testing.T, sql string) parse.Predicate {
	t.Helper()
	p := parse.NewParser("select x from x where " + sql)
	cmd, err := p.Parse()
	require.NoError(t, err)
	q, ok := cmd.(parse.QueryData)
	require.True(t, ok)
	return q.Predicate()
}

func TestSelectScanFiltersByPredicate(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	populateStudents(t, trans, []struct {
		sid      int
		sname    string
		gradyear int
	}{
		{1, "joe", 2024},
		{2, "amy", 2025},
		{3, "max", 2024},
	})

	ts := record.NewTableScan(trans, "student", studentLayout())
	defer ts.Close()

	pred := parsePredicate(t, "gradyear = 2024")
	sel := query.NewSelect(query.NewTableScan(ts), pred)
	sel.BeforeFirst()

	var got []string
	for {
		err := sel.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		name, err := sel.GetString("sname")
		require.NoError(t, err)
		got = append(got, name)
	}
	require.Equal(t, []string{"joe", "max"}, got)

	trans.Commit()
}

func TestProjectScanHidesUnlistedFields(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	populateStudents(t, trans, []struct {
		sid      int
		sname    string
		gradyear int
	}{{1, "joe", 2024}})

	ts := record.NewTableScan(trans, "student", studentLayout())
	defer ts.Close()

	proj := query.NewProject(query.NewTableScan(ts), []string{"sname"})
	proj.BeforeFirst()
	require.NoError(t, proj.Next())

	require.True(t, proj.HasField("sname"))
	require.False(t, proj.HasField("sid"))

	_, err := proj.GetInt("sid")
	require.ErrorIs(t, err, query.ErrFieldNotProjected)

	name, err := proj.GetString("sname")
	require.NoError(t, err)
	require.Equal(t, "joe", name)

	trans.Commit()
}

func TestProductScanPairsEveryCombination(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	populateStudents(t, trans, []struct {
		sid      int
		sname    string
		gradyear int
	}{{1, "joe", 2024}, {2, "amy", 2025}})

	es := record.NewTableScan(trans, "enroll", enrollLayout())
	require.NoError(t, es.Insert())
	require.NoError(t, es.SetInt("eid", 100))
	require.NoError(t, es.SetInt("studentid", 1))
	require.NoError(t, es.SetString("grade", "A"))
	require.NoError(t, es.Insert())
	require.NoError(t, es.SetInt("eid", 101))
	require.NoError(t, es.SetInt("studentid", 2))
	require.NoError(t, es.SetString("grade", "B"))
	es.Close()

	ss := record.NewTableScan(trans, "student", studentLayout())
	defer ss.Close()
	es2 := record.NewTableScan(trans, "enroll", enrollLayout())
	defer es2.Close()

	prod, err := query.NewProduct(query.NewTableScan(ss), query.NewTableScan(es2))
	require.NoError(t, err)
	prod.BeforeFirst()

	count := 0
	for {
		err := prod.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 4, count)

	trans.Commit()
}

func TestSelectScanUpdatesThroughUnderlyingTableScan(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	populateStudents(t, trans, []struct {
		sid      int
		sname    string
		gradyear int
	}{{1, "joe", 2024}})

	ts := record.NewTableScan(trans, "student", studentLayout())
	defer ts.Close()

	pred := parsePredicate(t, "sid = 1")
	sel := query.NewSelect(query.NewTableScan(ts), pred)
	sel.BeforeFirst()
	require.NoError(t, sel.Next())
	require.NoError(t, sel.SetInt("gradyear", 2099))

	require.Equal(t, 2099, mustGetInt(t, ts, "gradyear"))

	trans.Commit()
}

func mustGetInt(t *testing.T, ts *record.TableScan, field string) int {
	t.Helper()
	v, err := ts.GetInt(field)
	require.NoError(t, err)
	return v
}
