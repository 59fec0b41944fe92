package parse

import "strings"

// queryDataString renders a QueryData the way it is stored in the view
// catalog: a normalized "select f1, f2 from t1, t2 where ..." string.
func queryDataString(q QueryData) string {
	var sb strings.Builder
	sb.WriteString("select ")
	for i, f := range q.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f)
	}
	sb.WriteString(" from ")
	for i, t := range q.tables {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t)
	}
	if len(q.predicate.terms) == 0 {
		return sb.String()
	}
	sb.WriteString(" where ")
	sb.WriteString(q.predicate.String())
	return sb.String()
}
