package parse

import (
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/record"
)

// Grammar for the SQL subset this engine supports:
//
// <Field>       := Identifier
// <Constant>    := String | Number
// <Expression>  := <Field> | <Constant>
// <Term>        := <Expression> = <Expression>
// <Predicate>   := <Term> [AND <Predicate>]
// <Query>       := SELECT <SelectList> FROM <TableList> [WHERE <Predicate>]
// <SelectList>  := <Field> [, <SelectList>]
// <TableList>   := Identifier [, <TableList>]
// <UpdateCmd>   := <Insert> | <Delete> | <Modify> | <Create>
// <Create>      := <CreateTable> | <CreateView> | <CreateIndex>
// <Insert>      := INSERT INTO Identifier ( <FieldList> ) VALUES ( <ConstList> )
// <FieldList>   := <Field> [, <FieldList>]
// <ConstList>   := <Constant> [, <ConstList>]
// <Delete>      := DELETE FROM Identifier [WHERE <Predicate>]
// <Modify>      := UPDATE Identifier SET <Field> = <Expression> [WHERE <Predicate>]
// <CreateTable> := CREATE TABLE Identifier ( <FieldDefs> )
// <FieldDefs>   := <FieldDef> [, <FieldDefs>]
// <FieldDef>    := Identifier <TypeDef>
// <TypeDef>     := INT | VARCHAR ( Number )
// <CreateView>  := CREATE VIEW Identifier AS <Query>
// <CreateIndex> := CREATE INDEX Identifier ON Identifier ( <Field> )

// Parser turns SQL source text into a Command.
type Parser struct {
	lx *lexer
}

func NewParser(src string) *Parser {
	return &Parser{lx: newLexer(src)}
}

// Parse dispatches on the lookahead keyword to parse a query, a DML
// statement or a DDL statement.
func (p *Parser) Parse() (Command, error) {
	switch {
	case p.lx.matchKeyword("select"):
		q, err := p.Query()
		return q, err
	case p.lx.matchKeyword("insert"), p.lx.matchKeyword("update"), p.lx.matchKeyword("delete"):
		return p.updateCmd()
	default:
		return p.ddl()
	}
}

func (p *Parser) updateCmd() (Command, error) {
	switch {
	case p.lx.matchKeyword("insert"):
		return p.insert()
	case p.lx.matchKeyword("update"):
		return p.modify()
	case p.lx.matchKeyword("delete"):
		return p.delete_()
	}
	return nil, ErrInvalidSyntax
}

func (p *Parser) field() (string, error) {
	return p.lx.eatIdentifier()
}

func (p *Parser) constant() (file.Value, error) {
	if p.lx.matchStringConstant() {
		s, err := p.lx.eatStringConstant()
		if err != nil {
			return file.Value{}, err
		}
		// strip the surrounding quotes the tokenizer kept
		return file.ValueFromString(s[1 : len(s)-1]), nil
	}
	v, err := p.lx.eatIntConstant()
	if err != nil {
		return file.Value{}, err
	}
	return file.ValueFromInt(v), nil
}

func (p *Parser) expression() (Expression, error) {
	if p.lx.matchIdentifier() {
		f, err := p.field()
		if err != nil {
			return Expression{}, err
		}
		return NewExpressionWithField(f), nil
	}
	c, err := p.constant()
	if err != nil {
		return Expression{}, err
	}
	return NewExpressionWithVal(c), nil
}

func (p *Parser) term() (Term, error) {
	lhs, err := p.expression()
	if err != nil {
		return Term{}, err
	}
	if err := p.lx.eatTokenType(tokenEqual); err != nil {
		return Term{}, err
	}
	rhs, err := p.expression()
	if err != nil {
		return Term{}, err
	}
	return NewTerm(lhs, rhs), nil
}

func (p *Parser) predicate() (Predicate, error) {
	t, err := p.term()
	if err != nil {
		return Predicate{}, err
	}
	pred := NewPredicateWithTerm(t)
	if !p.lx.matchKeyword("and") {
		return pred, nil
	}
	if err := p.lx.eatKeyword("and"); err != nil {
		return Predicate{}, err
	}
	rest, err := p.predicate()
	if err != nil {
		return Predicate{}, err
	}
	pred.ConjoinWith(rest)
	return pred, nil
}

// Query parses <Query> := SELECT <SelectList> FROM <TableList> [WHERE <Predicate>]
func (p *Parser) Query() (QueryData, error) {
	if err := p.lx.eatKeyword("select"); err != nil {
		return QueryData{}, err
	}
	fields, err := p.selectList()
	if err != nil {
		return QueryData{}, err
	}
	if err := p.lx.eatKeyword("from"); err != nil {
		return QueryData{}, err
	}
	tables, err := p.tableList()
	if err != nil {
		return QueryData{}, err
	}
	if !p.lx.matchKeyword("where") {
		return NewQueryData(fields, tables, NewPredicate()), nil
	}
	if err := p.lx.eatKeyword("where"); err != nil {
		return QueryData{}, err
	}
	pred, err := p.predicate()
	if err != nil {
		return QueryData{}, err
	}
	return NewQueryData(fields, tables, pred), nil
}

func (p *Parser) selectList() ([]string, error) {
	var list []string
	f, err := p.field()
	if err != nil {
		return nil, err
	}
	list = append(list, f)
	if !p.lx.matchTokenType(tokenComma) {
		return list, nil
	}
	if err := p.lx.eatTokenType(tokenComma); err != nil {
		return nil, err
	}
	rest, err := p.selectList()
	if err != nil {
		return nil, err
	}
	return append(list, rest...), nil
}

func (p *Parser) tableList() ([]string, error) {
	var list []string
	t, err := p.lx.eatIdentifier()
	if err != nil {
		return nil, err
	}
	list = append(list, t)
	if !p.lx.matchTokenType(tokenComma) {
		return list, nil
	}
	if err := p.lx.eatTokenType(tokenComma); err != nil {
		return nil, err
	}
	rest, err := p.tableList()
	if err != nil {
		return nil, err
	}
	return append(list, rest...), nil
}

// delete_ parses <Delete> := DELETE FROM Identifier [WHERE <Predicate>]
func (p *Parser) delete_() (DeleteData, error) {
	if err := p.lx.eatKeyword("delete"); err != nil {
		return DeleteData{}, err
	}
	if err := p.lx.eatKeyword("from"); err != nil {
		return DeleteData{}, err
	}
	table, err := p.lx.eatIdentifier()
	if err != nil {
		return DeleteData{}, err
	}
	if !p.lx.matchKeyword("where") {
		return NewDeleteData(table, NewPredicate()), nil
	}
	if err := p.lx.eatKeyword("where"); err != nil {
		return DeleteData{}, err
	}
	pred, err := p.predicate()
	if err != nil {
		return DeleteData{}, err
	}
	return NewDeleteData(table, pred), nil
}

// insert parses <Insert> := INSERT INTO Identifier ( <FieldList> ) VALUES ( <ConstList> )
func (p *Parser) insert() (InsertData, error) {
	if err := p.lx.eatKeyword("insert"); err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatKeyword("into"); err != nil {
		return InsertData{}, err
	}
	table, err := p.lx.eatIdentifier()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatTokenType(tokenLeftParen); err != nil {
		return InsertData{}, err
	}
	fields, err := p.fieldList()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatTokenType(tokenRightParen); err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatKeyword("values"); err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatTokenType(tokenLeftParen); err != nil {
		return InsertData{}, err
	}
	values, err := p.constantList()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lx.eatTokenType(tokenRightParen); err != nil {
		return InsertData{}, err
	}
	return NewInsertData(table, fields, values), nil
}

func (p *Parser) fieldList() ([]string, error) {
	var list []string
	f, err := p.field()
	if err != nil {
		return nil, err
	}
	list = append(list, f)
	if !p.lx.matchTokenType(tokenComma) {
		return list, nil
	}
	if err := p.lx.eatTokenType(tokenComma); err != nil {
		return nil, err
	}
	rest, err := p.fieldList()
	if err != nil {
		return nil, err
	}
	return append(list, rest...), nil
}

func (p *Parser) constantList() ([]file.Value, error) {
	var list []file.Value
	c, err := p.constant()
	if err != nil {
		return nil, err
	}
	list = append(list, c)
	if !p.lx.matchTokenType(tokenComma) {
		return list, nil
	}
	if err := p.lx.eatTokenType(tokenComma); err != nil {
		return nil, err
	}
	rest, err := p.constantList()
	if err != nil {
		return nil, err
	}
	return append(list, rest...), nil
}

// modify parses <Modify> := UPDATE Identifier SET <Field> = <Expression> [WHERE <Predicate>]
func (p *Parser) modify() (ModifyData, error) {
	if err := p.lx.eatKeyword("update"); err != nil {
		return ModifyData{}, err
	}
	table, err := p.lx.eatIdentifier()
	if err != nil {
		return ModifyData{}, err
	}
	if err := p.lx.eatKeyword("set"); err != nil {
		return ModifyData{}, err
	}
	field, err := p.field()
	if err != nil {
		return ModifyData{}, err
	}
	if err := p.lx.eatTokenType(tokenEqual); err != nil {
		return ModifyData{}, err
	}
	expr, err := p.expression()
	if err != nil {
		return ModifyData{}, err
	}
	if !p.lx.matchKeyword("where") {
		return NewModifyData(table, field, expr, NewPredicate()), nil
	}
	if err := p.lx.eatKeyword("where"); err != nil {
		return ModifyData{}, err
	}
	pred, err := p.predicate()
	if err != nil {
		return ModifyData{}, err
	}
	return NewModifyData(table, field, expr, pred), nil
}

func (p *Parser) ddl() (Command, error) {
	if err := p.lx.eatKeyword("create"); err != nil {
		return nil, err
	}
	switch {
	case p.lx.matchKeyword("table"):
		return p.createTable()
	case p.lx.matchKeyword("index"):
		return p.createIndex()
	case p.lx.matchKeyword("view"):
		return p.createView()
	}
	return nil, ErrInvalidSyntax
}

// createTable parses <CreateTable> := CREATE TABLE Identifier ( <FieldDefs> )
func (p *Parser) createTable() (CreateTableData, error) {
	if err := p.lx.eatKeyword("table"); err != nil {
		return CreateTableData{}, err
	}
	table, err := p.lx.eatIdentifier()
	if err != nil {
		return CreateTableData{}, err
	}
	if err := p.lx.eatTokenType(tokenLeftParen); err != nil {
		return CreateTableData{}, err
	}
	schema, err := p.fieldDefs()
	if err != nil {
		return CreateTableData{}, err
	}
	if err := p.lx.eatTokenType(tokenRightParen); err != nil {
		return CreateTableData{}, err
	}
	return NewCreateTableData(table, schema), nil
}

func (p *Parser) fieldDefs() (record.Schema, error) {
	schema, err := p.fieldDef()
	if err != nil {
		return record.Schema{}, err
	}
	if p.lx.matchTokenType(tokenComma) {
		if err := p.lx.eatTokenType(tokenComma); err != nil {
			return record.Schema{}, err
		}
		rest, err := p.fieldDefs()
		if err != nil {
			return record.Schema{}, err
		}
		schema.AddAll(rest)
	}
	return schema, nil
}

func (p *Parser) fieldDef() (record.Schema, error) {
	field, err := p.field()
	if err != nil {
		return record.Schema{}, err
	}
	return p.fieldType(field)
}

func (p *Parser) fieldType(field string) (record.Schema, error) {
	schema := record.NewSchema()
	if p.lx.matchKeyword("int") {
		if err := p.lx.eatKeyword("int"); err != nil {
			return record.Schema{}, err
		}
		schema.AddIntField(field)
		return schema, nil
	}
	if err := p.lx.eatKeyword("varchar"); err != nil {
		return record.Schema{}, err
	}
	if err := p.lx.eatTokenType(tokenLeftParen); err != nil {
		return record.Schema{}, err
	}
	length, err := p.lx.eatIntConstant()
	if err != nil {
		return record.Schema{}, err
	}
	if err := p.lx.eatTokenType(tokenRightParen); err != nil {
		return record.Schema{}, err
	}
	schema.AddStringField(field, length)
	return schema, nil
}

// createIndex parses <CreateIndex> := CREATE INDEX Identifier ON Identifier ( <Field> )
func (p *Parser) createIndex() (CreateIndexData, error) {
	if err := p.lx.eatKeyword("index"); err != nil {
		return CreateIndexData{}, err
	}
	idx, err := p.lx.eatIdentifier()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lx.eatKeyword("on"); err != nil {
		return CreateIndexData{}, err
	}
	table, err := p.lx.eatIdentifier()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lx.eatTokenType(tokenLeftParen); err != nil {
		return CreateIndexData{}, err
	}
	field, err := p.lx.eatIdentifier()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lx.eatTokenType(tokenRightParen); err != nil {
		return CreateIndexData{}, err
	}
	return NewCreateIndexData(idx, table, field), nil
}

// createView parses <CreateView> := CREATE VIEW Identifier AS <Query>
//
// The teacher's copy of this grammar rule eats ON instead of AS here,
// contradicting its own documented grammar comment; this parses AS as
// the rule actually specifies.
func (p *Parser) createView() (CreateViewData, error) {
	if err := p.lx.eatKeyword("view"); err != nil {
		return CreateViewData{}, err
	}
	view, err := p.lx.eatIdentifier()
	if err != nil {
		return CreateViewData{}, err
	}
	if err := p.lx.eatKeyword("as"); err != nil {
		return CreateViewData{}, err
	}
	query, err := p.Query()
	if err != nil {
		return CreateViewData{}, err
	}
	return NewCreateViewData(view, query), nil
}
