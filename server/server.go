// Package server implements arcdb's line-oriented TCP protocol: every
// connection gets its own goroutine and, by default, a fresh
// transaction per statement (or one transaction per "begin"/"commit"
// session, on request).
package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arcdb/arc/engine"
	"github.com/arcdb/arc/internal/applog"
)

const greeting = "Hello! Welcome to arcdb.\n> "

// Server accepts TCP connections and dispatches each to its own
// session loop.
type Server struct {
	db  *engine.Database
	log zerolog.Logger
}

func New(db *engine.Database) *Server {
	return &Server{db: db, log: applog.New("server")}
}

// ListenAndServe accepts connections on addr until ctx is canceled or
// the listener itself fails.
func (srv *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp4", addr)
	if err != nil {
		return err
	}
	defer l.Close()

	srv.log.Info().Str("addr", addr).Msg("listening for connections")

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return err
			}
		}
		go srv.handleConn(conn)
	}
}

func (srv *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	sess := newSession(srv.db, srv.log)
	defer sess.close()

	fmt.Fprint(conn, greeting)

	reader := bufio.NewReader(conn)
	for {
		raw, err := reader.ReadString(';')
		if err != nil {
			if err != io.EOF {
				sess.log.Warn().Err(err).Msg("connection read error")
			}
			return
		}
		cmd := strings.TrimSpace(strings.TrimSuffix(raw, ";"))
		if cmd == "" {
			continue
		}

		out, err := sess.processInput(cmd)
		if err == io.EOF {
			fmt.Fprint(conn, out)
			fmt.Fprint(conn, "> ")
			return
		}
		if err != nil {
			fmt.Fprintf(conn, "ERROR: %s\n> ", err)
			continue
		}

		fmt.Fprint(conn, out)
		fmt.Fprint(conn, "\n> ")
	}
}
