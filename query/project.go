package query

import (
	"errors"

	"github.com/arcdb/arc/file"
)

var ErrFieldNotProjected = errors.New("query: field not in projection list")

// Project is the relational-algebra projection operator: it wraps a
// scan and exposes only a declared subset of its fields. Project is
// never updatable, even when its underlying scan is, since inserting
// through a projected view would leave the dropped fields undefined.
type Project struct {
	scan   Scan
	fields map[string]struct{}
}

// NewProject builds a Project operator over scan restricted to fields.
func NewProject(scan Scan, fields []string) *Project {
	m := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		m[f] = struct{}{}
	}
	return &Project{scan: scan, fields: m}
}

func (p *Project) BeforeFirst() {
	p.scan.BeforeFirst()
}

func (p *Project) Close() {
	p.scan.Close()
}

func (p *Project) Next() error {
	return p.scan.Next()
}

func (p *Project) HasField(fieldName string) bool {
	_, ok := p.fields[fieldName]
	return ok
}

func (p *Project) GetInt(fieldName string) (int, error) {
	if !p.HasField(fieldName) {
		return 0, ErrFieldNotProjected
	}
	return p.scan.GetInt(fieldName)
}

func (p *Project) GetString(fieldName string) (string, error) {
	if !p.HasField(fieldName) {
		return "", ErrFieldNotProjected
	}
	return p.scan.GetString(fieldName)
}

func (p *Project) GetVal(fieldName string) (file.Value, error) {
	if !p.HasField(fieldName) {
		return file.Value{}, ErrFieldNotProjected
	}
	return p.scan.GetVal(fieldName)
}
