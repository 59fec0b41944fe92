package metadata

import (
	"github.com/arcdb/arc/record"
	"github.com/arcdb/arc/tx"
)

// Manager is the single entry point the query/plan layer uses to
// reach the catalog: table definitions, view definitions, statistics
// and (stubbed) index declarations, each delegated to its own
// sub-manager.
type Manager struct {
	Tables *TableManager
	Views  *ViewManager
	Stats  *StatManager
	Idx    *IndexManager
}

func NewManager() *Manager {
	tm := NewTableManager()
	sm := NewStatManager(tm)
	return &Manager{
		Tables: tm,
		Views:  NewViewManager(tm),
		Stats:  sm,
		Idx:    NewIndexManager(tm, sm),
	}
}

// Init creates the catalog tables. Called exactly once, the first
// time the database's data directory is created.
func (m *Manager) Init(trans tx.Transaction) error {
	if err := m.Tables.Init(trans); err != nil {
		return err
	}
	if err := m.Views.Init(trans); err != nil {
		return err
	}
	if err := m.Stats.Init(trans); err != nil {
		return err
	}
	return m.Idx.Init(trans)
}

func (m *Manager) CreateTable(tblname string, sch record.Schema, trans tx.Transaction) error {
	return m.Tables.CreateTable(tblname, sch, trans)
}

func (m *Manager) Layout(tblname string, trans tx.Transaction) (record.Layout, error) {
	return m.Tables.Layout(tblname, trans)
}

func (m *Manager) TableExists(tblname string, trans tx.Transaction) (bool, error) {
	return m.Tables.TableExists(tblname, trans)
}

func (m *Manager) CreateView(vname string, vdef string, trans tx.Transaction) error {
	return m.Views.CreateView(vname, vdef, trans)
}

func (m *Manager) ViewDefinition(vname string, trans tx.Transaction) (string, error) {
	return m.Views.ViewDefinition(vname, trans)
}

func (m *Manager) StatInfo(tname string, layout record.Layout, trans tx.Transaction) (StatInfo, error) {
	return m.Stats.StatInfo(tname, layout, trans)
}

func (m *Manager) CreateIndex(idxname string, tblname string, fldname string, trans tx.Transaction) error {
	return m.Idx.CreateIndex(idxname, tblname, fldname, trans)
}

func (m *Manager) IndexInfo(tblname string, trans tx.Transaction) (map[string]*IndexInfo, error) {
	return m.Idx.IndexInfo(tblname, trans)
}
