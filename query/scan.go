package query

import (
	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/record"
)

// Scan is the interface every relational-algebra operator (select,
// project, product) and every leaf table scan implements: the
// algebra is expressed purely in terms of this interface, so any
// operator can wrap any other.
type Scan interface {
	BeforeFirst()
	Next() error
	GetInt(fieldName string) (int, error)
	GetString(fieldName string) (string, error)
	GetVal(fieldName string) (file.Value, error)
	HasField(fieldName string) bool
	Close()
}

// UpdateScan is a Scan that also supports in-place modification,
// implemented by leaf scans over an actual stored table and by Select,
// which passes update calls through to its underlying scan (its
// setters, Insert and Delete return ErrNotUpdatable when that scan is
// not updatable). Product and Project never implement it.
type UpdateScan interface {
	Scan
	SetInt(fieldName string, val int) error
	SetString(fieldName string, val string) error
	SetVal(fieldName string, val file.Value) error
	Insert() error
	Delete() error
	GetRID() record.RID
	MoveToRID(rid record.RID)
}

// tableScanAdapter lets *record.TableScan satisfy UpdateScan without
// record importing query (record is CORE and must not depend on the
// supplemented query layer above it).
type tableScanAdapter struct {
	*record.TableScan
}

// NewTableScan opens an UpdateScan over a stored table.
func NewTableScan(ts *record.TableScan) UpdateScan {
	return tableScanAdapter{ts}
}
