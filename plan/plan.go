package plan

import (
	"github.com/arcdb/arc/metadata"
	"github.com/arcdb/arc/parse"
	"github.com/arcdb/arc/query"
	"github.com/arcdb/arc/record"
	"github.com/arcdb/arc/tx"
)

// Plan estimates the cost of a query tree without touching any table
// data: it reasons over the catalog's statistics instead. The basic
// query planner builds exactly one plan per query and opens it into an
// actual Scan; it does not compare alternative plans by cost.
type Plan interface {
	Open() (query.Scan, error)
	BlocksAccessed() int
	RecordsOutput() int
	DistinctValues(fieldName string) int
	Schema() record.Schema
}

// TablePlan estimates cost directly from the catalog's statistics for
// a single stored table.
type TablePlan struct {
	trans     tx.Transaction
	tableName string
	layout    record.Layout
	info      metadata.StatInfo
}

// NewTablePlan builds a TablePlan for tableName, pulling its layout
// and current statistics from mgr.
func NewTablePlan(trans tx.Transaction, tableName string, mgr *metadata.Manager) (*TablePlan, error) {
	layout, err := mgr.Layout(tableName, trans)
	if err != nil {
		return nil, err
	}
	info, err := mgr.StatInfo(tableName, layout, trans)
	if err != nil {
		return nil, err
	}
	return &TablePlan{trans: trans, tableName: tableName, layout: layout, info: info}, nil
}

func (p *TablePlan) Open() (query.Scan, error) {
	ts := record.NewTableScan(p.trans, p.tableName, p.layout)
	return query.NewTableScan(ts), nil
}

func (p *TablePlan) BlocksAccessed() int { return p.info.Blocks }

func (p *TablePlan) RecordsOutput() int { return p.info.Records }

func (p *TablePlan) DistinctValues(fieldName string) int { return p.info.DistinctValues(fieldName) }

func (p *TablePlan) Schema() record.Schema { return *p.layout.Schema() }

// SelectPlan estimates the cost of a Select scan. Its record estimate
// is the underlying plan's record count reduced by the predicate's
// ReductionFactor; its distinct-value estimate special-cases a field
// the predicate equates with a constant (exactly 1 distinct value) or
// with another field (the smaller of the two plans' estimates).
type SelectPlan struct {
	plan      Plan
	predicate parse.Predicate
}

func NewSelectPlan(p Plan, pred parse.Predicate) *SelectPlan {
	return &SelectPlan{plan: p, predicate: pred}
}

func (p *SelectPlan) Open() (query.Scan, error) {
	sub, err := p.plan.Open()
	if err != nil {
		return nil, err
	}
	return query.NewSelect(sub, p.predicate), nil
}

func (p *SelectPlan) BlocksAccessed() int { return p.plan.BlocksAccessed() }

func (p *SelectPlan) RecordsOutput() int {
	rf := p.predicate.ReductionFactor(p)
	if rf == 0 {
		return 0
	}
	return p.plan.RecordsOutput() / rf
}

func (p *SelectPlan) DistinctValues(fieldName string) int {
	if _, ok := p.predicate.EquatesWithConstant(fieldName); ok {
		return 1
	}
	other, ok := p.predicate.EquatesWithField(fieldName)
	if !ok {
		return p.plan.DistinctValues(fieldName)
	}
	a := p.plan.DistinctValues(fieldName)
	b := p.plan.DistinctValues(other)
	if a < b {
		return a
	}
	return b
}

func (p *SelectPlan) Schema() record.Schema { return p.plan.Schema() }

// ProjectPlan restricts its underlying plan's schema to a declared
// field list; its cost estimates pass straight through since
// projection touches no more blocks or records than its input.
type ProjectPlan struct {
	plan   Plan
	schema record.Schema
}

func NewProjectPlan(p Plan, fields []string) *ProjectPlan {
	schema := record.NewSchema()
	for _, f := range fields {
		schema.Add(f, p.Schema())
	}
	return &ProjectPlan{plan: p, schema: schema}
}

func (p *ProjectPlan) Open() (query.Scan, error) {
	s, err := p.plan.Open()
	if err != nil {
		return nil, err
	}
	return query.NewProject(s, p.schema.Fields()), nil
}

func (p *ProjectPlan) BlocksAccessed() int { return p.plan.BlocksAccessed() }

func (p *ProjectPlan) RecordsOutput() int { return p.plan.RecordsOutput() }

func (p *ProjectPlan) DistinctValues(fieldName string) int {
	return p.plan.DistinctValues(fieldName)
}

func (p *ProjectPlan) Schema() record.Schema { return p.schema }

// ProductPlan estimates the cost of a cartesian product, joining p1's
// and p2's schemas.
//
// BlocksAccessed uses the standard nested-loop-join cost formula:
// p1.BlocksAccessed() + p1.RecordsOutput()*p2.BlocksAccessed() — one
// full scan of p1, plus one full scan of p2 for every record p1
// produces.
type ProductPlan struct {
	p1, p2 Plan
	schema record.Schema
}

func NewProductPlan(p1 Plan, p2 Plan) *ProductPlan {
	schema := record.NewJoinedSchema(p1.Schema(), p2.Schema())
	return &ProductPlan{p1: p1, p2: p2, schema: schema}
}

func (p *ProductPlan) Open() (query.Scan, error) {
	s1, err := p.p1.Open()
	if err != nil {
		return nil, err
	}
	s2, err := p.p2.Open()
	if err != nil {
		return nil, err
	}
	return query.NewProduct(s1, s2)
}

func (p *ProductPlan) BlocksAccessed() int {
	return p.p1.BlocksAccessed() + p.p1.RecordsOutput()*p.p2.BlocksAccessed()
}

func (p *ProductPlan) RecordsOutput() int {
	return p.p1.RecordsOutput() * p.p2.RecordsOutput()
}

func (p *ProductPlan) DistinctValues(fieldName string) int {
	if p.p1.Schema().HasField(fieldName) {
		return p.p1.DistinctValues(fieldName)
	}
	return p.p2.DistinctValues(fieldName)
}

func (p *ProductPlan) Schema() record.Schema { return p.schema }
