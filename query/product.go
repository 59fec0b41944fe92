package query

import (
	"io"

	"github.com/arcdb/arc/file"
)

// Product is the relational-algebra cartesian-product operator: it
// pairs every record of first with every record of second. Product is
// never updatable — a product has no single underlying stored row to
// modify.
type Product struct {
	first  Scan
	second Scan
}

// NewProduct builds a Product scan over first and second, positioning
// first on its leading record.
func NewProduct(first Scan, second Scan) (*Product, error) {
	first.BeforeFirst()
	if err := first.Next(); err != nil && err != io.EOF {
		return nil, err
	}
	return &Product{first: first, second: second}, nil
}

func (p *Product) BeforeFirst() {
	p.first.BeforeFirst()
	p.first.Next()
	p.second.BeforeFirst()
}

func (p *Product) Close() {
	p.first.Close()
	p.second.Close()
}

// Next moves the current record to the next record of second. Once
// second is exhausted, it is rewound and first is advanced instead;
// Product is exhausted once first itself returns io.EOF.
func (p *Product) Next() error {
	if err := p.second.Next(); err == nil {
		return nil
	} else if err != io.EOF {
		return err
	}
	p.second.BeforeFirst()
	if err := p.second.Next(); err != nil {
		return err
	}
	return p.first.Next()
}

func (p *Product) GetInt(fieldName string) (int, error) {
	if p.first.HasField(fieldName) {
		return p.first.GetInt(fieldName)
	}
	return p.second.GetInt(fieldName)
}

func (p *Product) GetString(fieldName string) (string, error) {
	if p.first.HasField(fieldName) {
		return p.first.GetString(fieldName)
	}
	return p.second.GetString(fieldName)
}

func (p *Product) GetVal(fieldName string) (file.Value, error) {
	if p.first.HasField(fieldName) {
		return p.first.GetVal(fieldName)
	}
	return p.second.GetVal(fieldName)
}

func (p *Product) HasField(fieldName string) bool {
	return p.first.HasField(fieldName) || p.second.HasField(fieldName)
}
