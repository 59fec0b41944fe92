// Package engine orchestrates the storage/transaction layers and the
// catalog/query/plan layers into a single bootable database: it opens
// (or creates) the data directory, runs catalog initialization or
// crash recovery, and dispatches parsed statements to the appropriate
// planner.
package engine

import (
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/arcdb/arc/buffer"
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/internal/applog"
	"github.com/arcdb/arc/internal/config"
	"github.com/arcdb/arc/internal/metrics"
	"github.com/arcdb/arc/log"
	"github.com/arcdb/arc/metadata"
	"github.com/arcdb/arc/parse"
	"github.com/arcdb/arc/plan"
	"github.com/arcdb/arc/tx"
)

const defaultLogFileName = "arcdb.log"

// Database bootstraps the file, log and buffer managers, brings up
// the metadata catalog (creating it fresh or recovering it from the
// write-ahead log), and exposes Exec as the single entry point for
// running a parsed statement inside a caller-supplied transaction.
type Database struct {
	fm  *file.Manager
	lm  *log.Manager
	bm  *buffer.Manager
	mgr *metadata.Manager
	log zerolog.Logger
}

// Open boots a Database rooted at cfg.DataDir. A brand-new data
// directory gets its catalog initialized; an existing one is recovered
// first, undoing whatever was in flight when the process last stopped.
func Open(cfg config.Config) (*Database, error) {
	logger := applog.New("engine")

	fm := file.NewFileManager(cfg.DataDir, cfg.BlockSize)
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = defaultLogFileName
	}
	lm := log.NewLogManager(fm, logFile)
	bm := buffer.NewBufferManager(fm, lm, cfg.BufferPoolSize)

	tx.SetLockWaitTimeout(time.Duration(cfg.LockTimeoutMs) * time.Millisecond)
	metrics.BufferPoolSize.Set(float64(cfg.BufferPoolSize))

	trans := tx.NewTx(fm, lm, bm)

	mgr := metadata.NewManager()
	if fm.IsNew() {
		logger.Info().Msg("initializing new database")
		if err := mgr.Init(trans); err != nil {
			return nil, err
		}
	} else {
		logger.Info().Msg("recovering existing database")
		trans.Recover()
	}
	trans.Commit()

	return &Database{fm: fm, lm: lm, bm: bm, mgr: mgr, log: logger}, nil
}

// Close releases the database's open files.
func (db *Database) Close() {
	if err := db.fm.Close(); err != nil {
		db.log.Warn().Err(err).Msg("error closing data files")
	}
}

// NewTx begins a fresh transaction against this database.
func (db *Database) NewTx() tx.Transaction {
	metrics.TransactionsStarted.Inc()
	return tx.NewTx(db.fm, db.lm, db.bm)
}

// Metadata returns the catalog manager, for callers (such as tests)
// that need direct catalog access outside of a parsed statement.
func (db *Database) Metadata() *metadata.Manager {
	return db.mgr
}

// ErrUnknownCommand is returned by Exec for a parse.Command whose
// Type() matches none of the three known kinds — unreachable with the
// current parser, but checked explicitly rather than silently
// swallowed, the same fix applied to the basic query planner's
// view/table dispatch.
var ErrUnknownCommand = errors.New("engine: unrecognized command type")

// Exec runs cmd against trans, planning it with the basic query or
// update planner as appropriate, and reports buffer pool occupancy to
// metrics afterward.
func (db *Database) Exec(trans tx.Transaction, cmd parse.Command) (Result, error) {
	defer func() { metrics.BufferPoolAvailable.Set(float64(db.bm.Available())) }()

	switch cmd.Type() {
	case parse.CommandQuery:
		metrics.StatementsExecuted.WithLabelValues("query").Inc()
		return db.runQuery(trans, cmd.(parse.QueryData))
	case parse.CommandDML:
		metrics.StatementsExecuted.WithLabelValues("dml").Inc()
		return db.execDML(trans, cmd)
	case parse.CommandDDL:
		metrics.StatementsExecuted.WithLabelValues("ddl").Inc()
		return db.execDDL(trans, cmd)
	default:
		return nil, ErrUnknownCommand
	}
}

func (db *Database) runQuery(trans tx.Transaction, q parse.QueryData) (Result, error) {
	planner := plan.NewBasicQueryPlanner(db.mgr)

	p, err := planner.CreatePlan(q, trans)
	if err != nil {
		return nil, err
	}

	s, err := p.Open()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	schema := p.Schema()
	rows := QueryResult{Columns: q.Fields()}
	for _, f := range q.Fields() {
		rows.Types = append(rows.Types, schema.Type(f))
	}

	s.BeforeFirst()
	for {
		if err := s.Next(); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		var row []file.Value
		for _, f := range q.Fields() {
			v, err := s.GetVal(f)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		rows.Rows = append(rows.Rows, row)
	}

	return rows, nil
}

func (db *Database) execDML(trans tx.Transaction, cmd parse.Command) (Result, error) {
	up := plan.NewBasicUpdatePlanner(db.mgr)

	var (
		n   int
		err error
	)
	switch data := cmd.(type) {
	case parse.InsertData:
		n, err = up.ExecuteInsert(data, trans)
	case parse.DeleteData:
		n, err = up.ExecuteDelete(data, trans)
	case parse.ModifyData:
		n, err = up.ExecuteModify(data, trans)
	default:
		return nil, ErrUnknownCommand
	}
	if err != nil {
		return nil, err
	}
	return StatementResult{Affected: n}, nil
}

func (db *Database) execDDL(trans tx.Transaction, cmd parse.Command) (Result, error) {
	up := plan.NewBasicUpdatePlanner(db.mgr)

	var err error
	switch data := cmd.(type) {
	case parse.CreateTableData:
		_, err = up.ExecuteCreateTable(data, trans)
	case parse.CreateViewData:
		_, err = up.ExecuteCreateView(data, trans)
	case parse.CreateIndexData:
		_, err = up.ExecuteCreateIndex(data, trans)
	default:
		return nil, ErrUnknownCommand
	}
	if err != nil {
		return nil, err
	}
	return StatementResult{}, nil
}
