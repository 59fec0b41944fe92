package server

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arcdb/arc/engine"
	"github.com/arcdb/arc/internal/metrics"
	"github.com/arcdb/arc/parse"
	"github.com/arcdb/arc/tx"
)

// toStringer adapts a plain string to fmt.Stringer, for the
// session-level replies ("OK", "bye!") that aren't an engine.Result.
type toStringer string

func (s toStringer) String() string { return string(s) }

// timedResult wraps a statement's result with how long it took to
// execute, the way a client expects a "(12.34 ms)" trailer.
type timedResult struct {
	res      fmt.Stringer
	duration time.Duration
}

func (tr timedResult) String() string {
	return fmt.Sprintf("%s\n(%.2f ms)", tr.res.String(), float64(tr.duration)/float64(time.Millisecond))
}

type sessionState uint8

const (
	sessionStateReady sessionState = iota
	sessionStateInTx
)

// session holds one TCP connection's transaction-management state: by
// default each statement runs and commits (or rolls back) in its own
// transaction, but "begin"/"commit"/"rollback" put the session into an
// explicit multi-statement transaction until the matching
// commit/rollback.
type session struct {
	id        uuid.UUID
	db        *engine.Database
	state     sessionState
	currentTx tx.Transaction
	log       zerolog.Logger
}

func newSession(db *engine.Database, log zerolog.Logger) *session {
	id := uuid.New()
	metrics.ActiveSessions.Inc()
	return &session{
		id:  id,
		db:  db,
		log: log.With().Str("session", id.String()).Logger(),
	}
}

func (s *session) close() {
	if s.state == sessionStateInTx {
		s.currentTx.Rollback()
	}
	metrics.ActiveSessions.Dec()
}

func (s *session) beginTx() error {
	if s.state == sessionStateInTx {
		return fmt.Errorf("transaction already in progress")
	}
	s.state = sessionStateInTx
	s.currentTx = s.db.NewTx()
	return nil
}

func (s *session) commitTx() error {
	if s.state != sessionStateInTx {
		return fmt.Errorf("no transaction in progress")
	}
	s.currentTx.Commit()
	metrics.TransactionsCommitted.Inc()
	s.state = sessionStateReady
	s.currentTx = nil
	return nil
}

func (s *session) rollbackTx() error {
	if s.state != sessionStateInTx {
		return fmt.Errorf("no transaction in progress")
	}
	s.currentTx.Rollback()
	metrics.TransactionsRolledBack.Inc()
	s.state = sessionStateReady
	s.currentTx = nil
	return nil
}

// processInput parses and runs one semicolon-terminated statement,
// returning io.EOF alongside a farewell message when the client sends
// "exit".
func (s *session) processInput(cmd string) (fmt.Stringer, error) {
	switch cmd {
	case "exit":
		return toStringer("bye!\n"), io.EOF
	case "begin":
		if err := s.beginTx(); err != nil {
			return nil, err
		}
		return toStringer("OK\n"), nil
	case "commit":
		if err := s.commitTx(); err != nil {
			return nil, err
		}
		return toStringer("OK\n"), nil
	case "rollback":
		if err := s.rollbackTx(); err != nil {
			return nil, err
		}
		return toStringer("OK\n"), nil
	default:
		start := time.Now()

		p := parse.NewParser(cmd)
		data, err := p.Parse()
		if err != nil {
			return nil, err
		}

		autoCommit := s.state != sessionStateInTx
		var trans tx.Transaction
		if autoCommit {
			trans = s.db.NewTx()
		} else {
			trans = s.currentTx
		}

		res, err := s.db.Exec(trans, data)
		if err != nil {
			if autoCommit {
				trans.Rollback()
				metrics.TransactionsRolledBack.Inc()
			}
			return nil, err
		}

		if autoCommit {
			trans.Commit()
			metrics.TransactionsCommitted.Inc()
		}

		return timedResult{res: res, duration: time.Since(start)}, nil
	}
}
