package parse

import "github.com/arcdb/arc/record"

// CreateTableData is a parsed CREATE TABLE statement.
type CreateTableData struct {
	tableName string
	schema    record.Schema
}

func NewCreateTableData(table string, schema record.Schema) CreateTableData {
	return CreateTableData{tableName: table, schema: schema}
}

func (CreateTableData) Type() CommandType { return CommandDDL }

func (c CreateTableData) TableName() string    { return c.tableName }
func (c CreateTableData) Schema() record.Schema { return c.schema }

// CreateViewData is a parsed CREATE VIEW statement.
type CreateViewData struct {
	viewName string
	query    QueryData
}

func NewCreateViewData(view string, query QueryData) CreateViewData {
	return CreateViewData{viewName: view, query: query}
}

func (CreateViewData) Type() CommandType { return CommandDDL }

func (c CreateViewData) ViewName() string { return c.viewName }

// ViewDef renders the parsed query back into the canonical text stored
// in the view catalog (not the original source text: CREATE VIEW ...
// AS SELECT a, b FROM t always stores the same normalized form no
// matter how the input was spaced or cased).
func (c CreateViewData) ViewDef() string {
	return queryDataString(c.query)
}

// CreateIndexData is a parsed CREATE INDEX statement. Per the stub
// index decision, this data is recorded in the catalog but never
// drives the construction of a working index.
type CreateIndexData struct {
	indexName string
	tableName string
	fieldName string
}

func NewCreateIndexData(index string, table string, field string) CreateIndexData {
	return CreateIndexData{indexName: index, tableName: table, fieldName: field}
}

func (CreateIndexData) Type() CommandType { return CommandDDL }

func (c CreateIndexData) IndexName() string { return c.indexName }
func (c CreateIndexData) TableName() string { return c.tableName }
func (c CreateIndexData) FieldName() string { return c.fieldName }
