package parse

import (
	"strings"

	"github.com/arcdb/arc/file"
)

// Predicate is a conjunction (logical AND) of Terms. SimpleDB's
// grammar supports no OR, no negation and no comparisons besides
// equality, so a Predicate reduces to a flat list of equality Terms
// that must all hold.
type Predicate struct {
	terms []Term
}

func NewPredicate() Predicate {
	return Predicate{}
}

func NewPredicateWithTerm(t Term) Predicate {
	return Predicate{terms: []Term{t}}
}

// ConjoinWith appends other's terms to this predicate.
func (p *Predicate) ConjoinWith(other Predicate) {
	p.terms = append(p.terms, other.terms...)
}

func (p Predicate) IsSatisfied(s Scan) (bool, error) {
	for _, t := range p.terms {
		ok, err := t.IsSatisfied(s)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (p Predicate) ReductionFactor(plan Plan) int {
	factor := 1
	for _, t := range p.terms {
		factor *= t.ReductionFactor(plan)
	}
	return factor
}

// SelectSubPredicate returns the terms of this predicate that apply
// entirely within schema, for pushing a select down below a product.
func (p Predicate) SelectSubPredicate(schema Schema) (Predicate, bool) {
	var result Predicate
	for _, t := range p.terms {
		if t.AppliesTo(schema) {
			result.terms = append(result.terms, t)
		}
	}
	return result, len(result.terms) > 0
}

// JoinSubPredicate returns the terms that apply to the joined schema
// but to neither first nor second alone, i.e. the terms that actually
// express the join condition between the two.
func (p Predicate) JoinSubPredicate(joined Schema, first Schema, second Schema) (Predicate, bool) {
	var result Predicate
	for _, t := range p.terms {
		if !t.AppliesTo(first) && !t.AppliesTo(second) && t.AppliesTo(joined) {
			result.terms = append(result.terms, t)
		}
	}
	return result, len(result.terms) > 0
}

func (p Predicate) EquatesWithConstant(fieldName string) (file.Value, bool) {
	for _, t := range p.terms {
		if v, ok := t.EquatesWithConstant(fieldName); ok {
			return v, true
		}
	}
	return file.Value{}, false
}

func (p Predicate) EquatesWithField(fieldName string) (string, bool) {
	for _, t := range p.terms {
		if v, ok := t.EquatesWithField(fieldName); ok {
			return v, true
		}
	}
	return "", false
}

func (p Predicate) String() string {
	var sb strings.Builder
	for i, t := range p.terms {
		sb.WriteString(t.String())
		if i != len(p.terms)-1 {
			sb.WriteString(" and ")
		}
	}
	return sb.String()
}
