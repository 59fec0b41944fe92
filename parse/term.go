package parse

import (
	"fmt"
	"math"

	"github.com/arcdb/arc/file"
)

// Plan is the minimal surface a Term needs to estimate its own
// selectivity: an estimated count of distinct values for a field.
type Plan interface {
	DistinctValues(fieldName string) int
}

// Term is an equality comparison between two Expressions.
type Term struct {
	lhs Expression
	rhs Expression
}

func NewTerm(lhs Expression, rhs Expression) Term {
	return Term{lhs: lhs, rhs: rhs}
}

func (t Term) IsSatisfied(s Scan) (bool, error) {
	lv, err := t.lhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	rv, err := t.rhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	return lv.Equals(rv), nil
}

// ReductionFactor estimates the factor by which this term reduces a
// plan's record count, used by SelectPlan to estimate its output size
// (a single heuristic number, not a histogram-backed estimate).
func (t Term) ReductionFactor(p Plan) int {
	if t.lhs.IsFieldName() && t.rhs.IsFieldName() {
		l := p.DistinctValues(t.lhs.AsFieldName())
		r := p.DistinctValues(t.rhs.AsFieldName())
		if l > r {
			return l
		}
		return r
	}
	if t.lhs.IsFieldName() {
		return p.DistinctValues(t.lhs.AsFieldName())
	}
	if t.rhs.IsFieldName() {
		return p.DistinctValues(t.rhs.AsFieldName())
	}
	if t.lhs.AsConstant().Equals(t.rhs.AsConstant()) {
		return 1
	}
	return math.MaxInt32
}

func (t Term) AppliesTo(schema Schema) bool {
	return t.lhs.AppliesTo(schema) && t.rhs.AppliesTo(schema)
}

// EquatesWithConstant reports whether this term equates fieldName
// with a literal constant, returning that constant's value.
func (t Term) EquatesWithConstant(fieldName string) (file.Value, bool) {
	if t.lhs.IsFieldName() && t.lhs.fname == fieldName && !t.rhs.IsFieldName() {
		return t.rhs.AsConstant(), true
	}
	if t.rhs.IsFieldName() && t.rhs.fname == fieldName && !t.lhs.IsFieldName() {
		return t.lhs.AsConstant(), true
	}
	return file.Value{}, false
}

// EquatesWithField reports whether this term equates fieldName with
// another field, returning that other field's name.
func (t Term) EquatesWithField(fieldName string) (string, bool) {
	if t.lhs.IsFieldName() && t.lhs.fname == fieldName && t.rhs.IsFieldName() {
		return t.rhs.AsFieldName(), true
	}
	if t.rhs.IsFieldName() && t.rhs.fname == fieldName && t.lhs.IsFieldName() {
		return t.lhs.AsFieldName(), true
	}
	return "", false
}

func (t Term) String() string {
	return fmt.Sprintf("%s = %s", t.lhs, t.rhs)
}
