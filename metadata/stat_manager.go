package metadata

import (
	"io"
	"sync"

	"github.com/arcdb/arc/record"
	"github.com/arcdb/arc/tx"
)

// StatInfo holds naive, uncached-precision table statistics: how many
// blocks and records a table occupies. Distinct-value estimates are a
// crude stub, not real histogram-backed cardinality estimation.
type StatInfo struct {
	Blocks  int
	Records int
}

// DistinctValues is a deliberately crude estimate (1 + records/3),
// standing in for a real per-field value-distribution
// histogram that this engine does not maintain.
func (si StatInfo) DistinctValues(fieldName string) int {
	return 1 + si.Records/3
}

// StatManager tracks per-table StatInfo, recomputed by a full table
// scan. To bound the cost of a statistics request, the full catalog is
// rescanned only every 100 calls; between refreshes, StatInfo answers
// from its in-memory cache.
type StatManager struct {
	tm *TableManager
	mu sync.Mutex

	tableStats map[string]StatInfo
	calls      int
}

func NewStatManager(tm *TableManager) *StatManager {
	return &StatManager{tm: tm, tableStats: map[string]StatInfo{}}
}

func (sm *StatManager) Init(trans tx.Transaction) error {
	return sm.refreshStatistics(trans)
}

// StatInfo returns tname's statistics, refreshing every table's
// statistics first if this is the 100th call since the last refresh.
func (sm *StatManager) StatInfo(tname string, layout record.Layout, trans tx.Transaction) (StatInfo, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.calls++
	if sm.calls >= 100 {
		if err := sm.refreshStatistics(trans); err != nil {
			return StatInfo{}, err
		}
	}

	if si, ok := sm.tableStats[tname]; ok {
		return si, nil
	}

	si, err := sm.calcTableStats(tname, layout, trans)
	if err != nil {
		return StatInfo{}, err
	}
	sm.tableStats[tname] = si
	return si, nil
}

func (sm *StatManager) refreshStatistics(trans tx.Transaction) error {
	sm.calls = 0
	stats := map[string]StatInfo{}

	tcat, err := sm.tm.Layout("tblcat", trans)
	if err != nil {
		return err
	}

	ts := record.NewTableScan(trans, "tblcat", tcat)
	defer ts.Close()

	for {
		err := ts.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		tname, err := ts.GetString("tblname")
		if err != nil {
			return err
		}

		layout, err := sm.tm.Layout(tname, trans)
		if err != nil {
			return err
		}

		si, err := sm.calcTableStats(tname, layout, trans)
		if err != nil {
			return err
		}
		stats[tname] = si
	}

	sm.tableStats = stats
	return nil
}

func (sm *StatManager) calcTableStats(tname string, layout record.Layout, trans tx.Transaction) (StatInfo, error) {
	var recs, blocks int

	ts := record.NewTableScan(trans, tname, layout)
	defer ts.Close()

	for {
		err := ts.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return StatInfo{}, err
		}
		recs++
		blocks = ts.GetRID().Blocknum() + 1
	}

	return StatInfo{Blocks: blocks, Records: recs}, nil
}
