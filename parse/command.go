package parse

import "github.com/arcdb/arc/file"

// CommandType distinguishes the broad category a parsed statement
// falls into, mirroring the three-way split the transaction/engine
// layer needs: a query returns rows, a DML statement mutates existing
// rows, a DDL statement changes the catalog.
type CommandType int

const (
	CommandQuery CommandType = iota
	CommandDML
	CommandDDL
)

// Command is the result of parsing any supported statement.
type Command interface {
	Type() CommandType
}

// QueryData is a parsed SELECT statement.
type QueryData struct {
	fields    []string
	tables    []string
	predicate Predicate
}

func NewQueryData(fields []string, tables []string, predicate Predicate) QueryData {
	return QueryData{fields: fields, tables: tables, predicate: predicate}
}

func (QueryData) Type() CommandType { return CommandQuery }

func (q QueryData) Fields() []string    { return q.fields }
func (q QueryData) Tables() []string    { return q.tables }
func (q QueryData) Predicate() Predicate { return q.predicate }

// InsertData is a parsed INSERT statement.
type InsertData struct {
	tableName string
	fields    []string
	values    []file.Value
}

func NewInsertData(table string, fields []string, values []file.Value) InsertData {
	return InsertData{tableName: table, fields: fields, values: values}
}

func (InsertData) Type() CommandType { return CommandDML }

func (i InsertData) TableName() string   { return i.tableName }
func (i InsertData) Fields() []string    { return i.fields }
func (i InsertData) Values() []file.Value { return i.values }

// DeleteData is a parsed DELETE statement.
type DeleteData struct {
	tableName string
	predicate Predicate
}

func NewDeleteData(table string, predicate Predicate) DeleteData {
	return DeleteData{tableName: table, predicate: predicate}
}

func (DeleteData) Type() CommandType { return CommandDML }

func (d DeleteData) TableName() string  { return d.tableName }
func (d DeleteData) Predicate() Predicate { return d.predicate }

// ModifyData is a parsed UPDATE statement.
type ModifyData struct {
	tableName string
	fieldName string
	newValue  Expression
	predicate Predicate
}

func NewModifyData(table string, field string, newValue Expression, predicate Predicate) ModifyData {
	return ModifyData{tableName: table, fieldName: field, newValue: newValue, predicate: predicate}
}

func (ModifyData) Type() CommandType { return CommandDML }

func (m ModifyData) TableName() string    { return m.tableName }
func (m ModifyData) FieldName() string    { return m.fieldName }
func (m ModifyData) NewValue() Expression { return m.newValue }
func (m ModifyData) Predicate() Predicate { return m.predicate }
