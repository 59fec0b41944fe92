package parse

import "github.com/arcdb/arc/file"

// Scan is the minimal surface an Expression needs to evaluate a field
// reference: whatever scan/query operator currently positions the
// cursor on a record.
type Scan interface {
	GetVal(fieldName string) (file.Value, error)
}

// Schema is the minimal surface an Expression needs to check whether
// a field reference is meaningful for a given table/query schema.
type Schema interface {
	HasField(fieldName string) bool
}

// Expression is either a literal constant or a field reference. Unlike
// the zero-value-sentinel trick (comparing against an empty
// file.Value to tell the two apart, which wrongly treats a literal
// zero or empty string as "absent"), isField is an explicit
// discriminant so a constant 0 or '' is never mistaken for a missing
// value.
type Expression struct {
	isField bool
	val     file.Value
	fname   string
}

func NewExpressionWithVal(v file.Value) Expression {
	return Expression{val: v}
}

func NewExpressionWithField(fname string) Expression {
	return Expression{isField: true, fname: fname}
}

func (e Expression) IsFieldName() bool {
	return e.isField
}

func (e Expression) AsConstant() file.Value {
	return e.val
}

func (e Expression) AsFieldName() string {
	return e.fname
}

func (e Expression) Evaluate(s Scan) (file.Value, error) {
	if e.isField {
		return s.GetVal(e.fname)
	}
	return e.val, nil
}

func (e Expression) AppliesTo(schema Schema) bool {
	if e.isField {
		return schema.HasField(e.fname)
	}
	return true
}

func (e Expression) String() string {
	if e.isField {
		return e.fname
	}
	return e.val.String()
}
