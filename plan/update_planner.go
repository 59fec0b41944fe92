package plan

import (
	"io"

	"github.com/arcdb/arc/metadata"
	"github.com/arcdb/arc/parse"
	"github.com/arcdb/arc/query"
	"github.com/arcdb/arc/tx"
)

// UpdatePlanner executes the DML/DDL commands the parser produces,
// returning the number of affected records for DML (always 0 for
// DDL, which changes the catalog rather than rows).
type UpdatePlanner interface {
	ExecuteInsert(data parse.InsertData, trans tx.Transaction) (int, error)
	ExecuteDelete(data parse.DeleteData, trans tx.Transaction) (int, error)
	ExecuteModify(data parse.ModifyData, trans tx.Transaction) (int, error)
	ExecuteCreateTable(data parse.CreateTableData, trans tx.Transaction) (int, error)
	ExecuteCreateView(data parse.CreateViewData, trans tx.Transaction) (int, error)
	ExecuteCreateIndex(data parse.CreateIndexData, trans tx.Transaction) (int, error)
}

// BasicUpdatePlanner executes DML by reusing the query planner's
// machinery: a DELETE or UPDATE is a TablePlan wrapped in a
// SelectPlan for its WHERE predicate, opened, then walked record by
// record applying the requested mutation.
type BasicUpdatePlanner struct {
	mgr *metadata.Manager
}

func NewBasicUpdatePlanner(mgr *metadata.Manager) *BasicUpdatePlanner {
	return &BasicUpdatePlanner{mgr: mgr}
}

// iterateAndExecute walks every record of tableName satisfying pred,
// invoking exec on each, and reports how many records were visited.
func (up *BasicUpdatePlanner) iterateAndExecute(trans tx.Transaction, tableName string, pred parse.Predicate, exec func(query.UpdateScan) error) (int, error) {
	tp, err := NewTablePlan(trans, tableName, up.mgr)
	if err != nil {
		return 0, err
	}

	var p Plan = tp
	p = NewSelectPlan(p, pred)

	s, err := p.Open()
	if err != nil {
		return 0, err
	}
	us, ok := s.(query.UpdateScan)
	if !ok {
		return 0, query.ErrNotUpdatable
	}
	defer us.Close()

	count := 0
	for {
		if err := us.Next(); err == io.EOF {
			break
		} else if err != nil {
			return count, err
		}
		if err := exec(us); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (up *BasicUpdatePlanner) ExecuteModify(data parse.ModifyData, trans tx.Transaction) (int, error) {
	exec := func(us query.UpdateScan) error {
		val, err := data.NewValue().Evaluate(us)
		if err != nil {
			return err
		}
		return us.SetVal(data.FieldName(), val)
	}
	return up.iterateAndExecute(trans, data.TableName(), data.Predicate(), exec)
}

func (up *BasicUpdatePlanner) ExecuteDelete(data parse.DeleteData, trans tx.Transaction) (int, error) {
	exec := func(us query.UpdateScan) error {
		return us.Delete()
	}
	return up.iterateAndExecute(trans, data.TableName(), data.Predicate(), exec)
}

func (up *BasicUpdatePlanner) ExecuteInsert(data parse.InsertData, trans tx.Transaction) (int, error) {
	tp, err := NewTablePlan(trans, data.TableName(), up.mgr)
	if err != nil {
		return 0, err
	}

	s, err := tp.Open()
	if err != nil {
		return 0, err
	}
	us, ok := s.(query.UpdateScan)
	if !ok {
		return 0, query.ErrNotUpdatable
	}
	defer us.Close()

	if err := us.Insert(); err != nil {
		return 0, err
	}
	for i, fieldName := range data.Fields() {
		if err := us.SetVal(fieldName, data.Values()[i]); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

func (up *BasicUpdatePlanner) ExecuteCreateTable(data parse.CreateTableData, trans tx.Transaction) (int, error) {
	return 0, up.mgr.CreateTable(data.TableName(), data.Schema(), trans)
}

func (up *BasicUpdatePlanner) ExecuteCreateView(data parse.CreateViewData, trans tx.Transaction) (int, error) {
	return 0, up.mgr.CreateView(data.ViewName(), data.ViewDef(), trans)
}

func (up *BasicUpdatePlanner) ExecuteCreateIndex(data parse.CreateIndexData, trans tx.Transaction) (int, error) {
	return 0, up.mgr.CreateIndex(data.IndexName(), data.TableName(), data.FieldName(), trans)
}
