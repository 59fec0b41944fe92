package engine_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcdb/arc/engine"
	"github.com/arcdb/arc/internal/config"
	"github.com/arcdb/arc/parse"
	"github.com/arcdb/arc/tx"
)

func newTestDatabase(t *testing.T) *engine.Database {
	t.Helper()
	tx.ResetGlobalStateForTest()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "db")
	cfg.BlockSize = 400
	cfg.BufferPoolSize = 8
	db, err := engine.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestDatabaseEndToEndCreateInsertQuery(t *testing.T) {
	db := newTestDatabase(t)
	trans := db.NewTx()

	run := func(src string) engine.Result {
		t.Helper()
		p := parse.NewParser(src)
		cmd, err := p.Parse()
		require.NoError(t, err)
		res, err := db.Exec(trans, cmd)
		require.NoError(t, err)
		return res
	}

	run("create table student (sid int, sname varchar(10), gradyear int)")
	run("insert into student (sid, sname, gradyear) values (1, 'joe', 2024)")
	run("insert into student (sid, sname, gradyear) values (2, 'amy', 2025)")

	res := run("select sname from student where gradyear = 2024")
	qr, ok := res.(engine.QueryResult)
	require.True(t, ok)
	require.Len(t, qr.Rows, 1)
	require.Equal(t, "joe", qr.Rows[0][0].AsStringVal())

	trans.Commit()
}

func TestDatabaseRecoversAfterRestart(t *testing.T) {
	dir := t.TempDir()
	tx.ResetGlobalStateForTest()
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.BlockSize = 400
	cfg.BufferPoolSize = 8

	db, err := engine.Open(cfg)
	require.NoError(t, err)

	trans := db.NewTx()
	p := parse.NewParser("create table student (sid int, sname varchar(10), gradyear int)")
	cmd, err := p.Parse()
	require.NoError(t, err)
	_, err = db.Exec(trans, cmd)
	require.NoError(t, err)
	trans.Commit()
	db.Close()

	tx.ResetGlobalStateForTest()
	db2, err := engine.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(db2.Close)

	trans2 := db2.NewTx()
	exists, err := db2.Metadata().TableExists("student", trans2)
	require.NoError(t, err)
	require.True(t, exists)
	trans2.Commit()
}
