package plan

import (
	"errors"

	"github.com/arcdb/arc/metadata"
	"github.com/arcdb/arc/parse"
	"github.com/arcdb/arc/tx"
)

var ErrEmptyTableList = errors.New("plan: query names no tables")

// QueryPlanner builds a Plan for a parsed SELECT statement.
type QueryPlanner interface {
	CreatePlan(data parse.QueryData, trans tx.Transaction) (Plan, error)
}

// BasicQueryPlanner builds the simplest possible correct plan for a
// query, with no cost-based choice of join order or access path:
//  1. build a plan for each table named in the FROM list — a TablePlan
//     for a stored table, or this same algorithm recursed onto a
//     view's stored definition;
//  2. take the product of those plans, left to right;
//  3. wrap the product in a SelectPlan for the WHERE predicate;
//  4. wrap that in a ProjectPlan for the SELECT field list.
type BasicQueryPlanner struct {
	mgr *metadata.Manager
}

func NewBasicQueryPlanner(mgr *metadata.Manager) *BasicQueryPlanner {
	return &BasicQueryPlanner{mgr: mgr}
}

func (bqp *BasicQueryPlanner) CreatePlan(data parse.QueryData, trans tx.Transaction) (Plan, error) {
	if len(data.Tables()) == 0 {
		return nil, ErrEmptyTableList
	}

	var plans []Plan
	for _, tableName := range data.Tables() {
		p, err := bqp.planForTable(tableName, trans)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	p := plans[0]
	for _, next := range plans[1:] {
		p = NewProductPlan(p, next)
	}

	p = NewSelectPlan(p, data.Predicate())
	return NewProjectPlan(p, data.Fields()), nil
}

// planForTable decides whether tableName names a view (recurse on its
// stored definition) or a stored table (a leaf TablePlan), returning
// any other catalog error rather than silently treating it as "not a
// view, must be a table".
func (bqp *BasicQueryPlanner) planForTable(tableName string, trans tx.Transaction) (Plan, error) {
	viewDef, err := bqp.mgr.ViewDefinition(tableName, trans)
	switch {
	case err == nil:
		parser := parse.NewParser(viewDef)
		cmd, err := parser.Parse()
		if err != nil {
			return nil, err
		}
		viewData, ok := cmd.(parse.QueryData)
		if !ok {
			return nil, parse.ErrInvalidSyntax
		}
		return bqp.CreatePlan(viewData, trans)
	case errors.Is(err, metadata.ErrViewNotFound):
		return NewTablePlan(trans, tableName, bqp.mgr)
	default:
		return nil, err
	}
}
