package server_test

import (
	"bufio"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arcdb/arc/engine"
	"github.com/arcdb/arc/internal/config"
	"github.com/arcdb/arc/server"
	"github.com/arcdb/arc/tx"
)

func startTestServer(t *testing.T) (addr string, stop func()) {
	t.Helper()
	tx.ResetGlobalStateForTest()

	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "db")
	cfg.BlockSize = 400
	cfg.BufferPoolSize = 8

	db, err := engine.Open(cfg)
	require.NoError(t, err)

	l, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	addr = l.Addr().String()
	l.Close()

	srv := server.New(db)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	go func() {
		close(started)
		srv.ListenAndServe(ctx, addr)
	}()
	<-started
	time.Sleep(50 * time.Millisecond)

	return addr, func() {
		cancel()
		db.Close()
	}
}

func dial(t *testing.T, addr string) (net.Conn, *bufio.Reader) {
	t.Helper()
	var conn net.Conn
	var err error
	for i := 0; i < 20; i++ {
		conn, err = net.Dial("tcp4", addr)
		if err == nil {
			break
		}
		time.Sleep(25 * time.Millisecond)
	}
	require.NoError(t, err)
	r := bufio.NewReader(conn)
	readUntilPrompt(t, r)
	return conn, r
}

func readUntilPrompt(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		require.NoError(t, err)
		sb.WriteByte(b)
		if strings.HasSuffix(sb.String(), "> ") {
			break
		}
	}
	return sb.String()
}

func sendStatement(t *testing.T, conn net.Conn, r *bufio.Reader, stmt string) string {
	t.Helper()
	_, err := conn.Write([]byte(stmt + ";"))
	require.NoError(t, err)
	return readUntilPrompt(t, r)
}

func TestServerExecutesStatementsOverTCP(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, r := dial(t, addr)
	defer conn.Close()

	sendStatement(t, conn, r, "create table student (sid int, sname varchar(10), gradyear int)")
	sendStatement(t, conn, r, "insert into student (sid, sname, gradyear) values (1, 'joe', 2024)")

	out := sendStatement(t, conn, r, "select sname from student where sid = 1")
	require.Contains(t, out, "joe")
}

func TestServerExplicitTransactionCanRollBack(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, r := dial(t, addr)
	defer conn.Close()

	sendStatement(t, conn, r, "create table student (sid int, sname varchar(10), gradyear int)")
	sendStatement(t, conn, r, "begin")
	sendStatement(t, conn, r, "insert into student (sid, sname, gradyear) values (9, 'temp', 2030)")
	sendStatement(t, conn, r, "rollback")

	out := sendStatement(t, conn, r, "select sid from student where sid = 9")
	require.Contains(t, out, "No records")
}

func TestServerExitClosesConnection(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, r := dial(t, addr)
	defer conn.Close()

	out := sendStatement(t, conn, r, "exit")
	require.Contains(t, out, "bye")
}
