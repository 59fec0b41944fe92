package plan_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcdb/arc/buffer"
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/log"
	"github.com/arcdb/arc/metadata"
	"github.com/arcdb/arc/parse"
	"github.com/arcdb/arc/plan"
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

func parseCommand(t *testing.T, src string) parse.Command {
	t.Helper()
	p := parse.NewParser(src)
	cmd, err := p.Parse()
	require.NoError(t, err)
	return cmd
}

func setupStudentEnroll(t *testing.T, mgr *metadata.Manager, trans tx.Transaction, up *plan.BasicUpdatePlanner) {
	t.Helper()
	ct := parseCommand(t, "create table student (sid int, sname varchar(10), gradyear int)").(parse.CreateTableData)
	_, err := up.ExecuteCreateTable(ct, trans)
	require.NoError(t, err)

	ce := parseCommand(t, "create table enroll (eid int, studentid int, grade varchar(2))").(parse.CreateTableData)
	_, err = up.ExecuteCreateTable(ce, trans)
	require.NoError(t, err)

	inserts := []string{
		"insert into student (sid, sname, gradyear) values (1, 'joe', 2024)",
		"insert into student (sid, sname, gradyear) values (2, 'amy', 2025)",
		"insert into enroll (eid, studentid, grade) values (100, 1, 'A')",
		"insert into enroll (eid, studentid, grade) values (101, 2, 'B')",
	}
	for _, src := range inserts {
		ins := parseCommand(t, src).(parse.InsertData)
		n, err := up.ExecuteInsert(ins, trans)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}
}

func TestBasicQueryPlannerSingleTableSelectProjectsAndFilters(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	mgr := metadata.NewManager()
	require.NoError(t, mgr.Init(trans))
	up := plan.NewBasicUpdatePlanner(mgr)
	setupStudentEnroll(t, mgr, trans, up)

	qp := plan.NewBasicQueryPlanner(mgr)
	qd := parseCommand(t, "select sname from student where gradyear = 2024").(parse.QueryData)

	p, err := qp.CreatePlan(qd, trans)
	require.NoError(t, err)

	s, err := p.Open()
	require.NoError(t, err)
	defer s.Close()

	s.BeforeFirst()
	require.NoError(t, s.Next())
	name, err := s.GetString("sname")
	require.NoError(t, err)
	require.Equal(t, "joe", name)
	require.ErrorIs(t, s.Next(), io.EOF)

	trans.Commit()
}

func TestBasicQueryPlannerJoinsAcrossTables(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	mgr := metadata.NewManager()
	require.NoError(t, mgr.Init(trans))
	up := plan.NewBasicUpdatePlanner(mgr)
	setupStudentEnroll(t, mgr, trans, up)

	qp := plan.NewBasicQueryPlanner(mgr)
	qd := parseCommand(t, "select sname, grade from student, enroll where sid = studentid").(parse.QueryData)

	p, err := qp.CreatePlan(qd, trans)
	require.NoError(t, err)

	s, err := p.Open()
	require.NoError(t, err)
	defer s.Close()

	s.BeforeFirst()
	seen := map[string]string{}
	for {
		err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		name, err := s.GetString("sname")
		require.NoError(t, err)
		grade, err := s.GetString("grade")
		require.NoError(t, err)
		seen[name] = grade
	}
	require.Equal(t, map[string]string{"joe": "A", "amy": "B"}, seen)

	trans.Commit()
}

func TestBasicQueryPlannerResolvesViewRecursively(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	mgr := metadata.NewManager()
	require.NoError(t, mgr.Init(trans))
	up := plan.NewBasicUpdatePlanner(mgr)
	setupStudentEnroll(t, mgr, trans, up)

	cv := parseCommand(t, "create view honorroll as select sname from student where gradyear = 2024").(parse.CreateViewData)
	_, err := up.ExecuteCreateView(cv, trans)
	require.NoError(t, err)

	qp := plan.NewBasicQueryPlanner(mgr)
	qd := parseCommand(t, "select sname from honorroll").(parse.QueryData)

	p, err := qp.CreatePlan(qd, trans)
	require.NoError(t, err)

	s, err := p.Open()
	require.NoError(t, err)
	defer s.Close()

	s.BeforeFirst()
	require.NoError(t, s.Next())
	name, err := s.GetString("sname")
	require.NoError(t, err)
	require.Equal(t, "joe", name)

	trans.Commit()
}

func TestProductPlanBlocksAccessedUsesAdditiveCost(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	mgr := metadata.NewManager()
	require.NoError(t, mgr.Init(trans))
	up := plan.NewBasicUpdatePlanner(mgr)
	setupStudentEnroll(t, mgr, trans, up)

	p1, err := plan.NewTablePlan(trans, "student", mgr)
	require.NoError(t, err)
	p2, err := plan.NewTablePlan(trans, "enroll", mgr)
	require.NoError(t, err)

	pp := plan.NewProductPlan(p1, p2)
	want := p1.BlocksAccessed() + p1.RecordsOutput()*p2.BlocksAccessed()
	require.Equal(t, want, pp.BlocksAccessed())

	trans.Commit()
}

func TestBasicUpdatePlannerDeletesMatchingRecords(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	mgr := metadata.NewManager()
	require.NoError(t, mgr.Init(trans))
	up := plan.NewBasicUpdatePlanner(mgr)
	setupStudentEnroll(t, mgr, trans, up)

	del := parseCommand(t, "delete from student where sid = 1").(parse.DeleteData)
	n, err := up.ExecuteDelete(del, trans)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	qp := plan.NewBasicQueryPlanner(mgr)
	qd := parseCommand(t, "select sid from student").(parse.QueryData)
	p, err := qp.CreatePlan(qd, trans)
	require.NoError(t, err)
	s, err := p.Open()
	require.NoError(t, err)
	defer s.Close()

	s.BeforeFirst()
	count := 0
	for {
		err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 1, count)

	trans.Commit()
}

func TestBasicUpdatePlannerModifiesMatchingRecords(t *testing.T) {
	fm, lm, bm := newTestEngine(t)
	trans := tx.NewTx(fm, lm, bm)

	mgr := metadata.NewManager()
	require.NoError(t, mgr.Init(trans))
	up := plan.NewBasicUpdatePlanner(mgr)
	setupStudentEnroll(t, mgr, trans, up)

	mod := parseCommand(t, "update student set gradyear = 2099 where sid = 2").(parse.ModifyData)
	n, err := up.ExecuteModify(mod, trans)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	qp := plan.NewBasicQueryPlanner(mgr)
	qd := parseCommand(t, "select sid, gradyear from student where sid = 2").(parse.QueryData)
	p, err := qp.CreatePlan(qd, trans)
	require.NoError(t, err)
	s, err := p.Open()
	require.NoError(t, err)
	defer s.Close()

	s.BeforeFirst()
	require.NoError(t, s.Next())
	gy, err := s.GetInt("gradyear")
	require.NoError(t, err)
	require.Equal(t, 2099, gy)

	trans.Commit()
}
