package metadata

import (
	"errors"

	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/record"
	"github.com/arcdb/arc/tx"
)

// ErrIndexNotImplemented is returned by every Index operation. Index
// support is cataloged (an index can be declared via CREATE INDEX and
// recorded in "idxcat") but never actually built or queried: there is
// no working index implementation in this engine, only this stub. A
// caller that reaches an index operation must fail loudly rather than
// silently no-op, since a silent no-op index would make query results
// look complete while actually skipping data.
var ErrIndexNotImplemented = errors.New("metadata: index access not implemented")

// Index is the interface a real index (e.g. a static hash index or a
// B-tree) would implement: locate every RID whose indexed field
// equals a search key, or insert/delete an entry. HashIndex is the
// only implementation, and it always returns ErrIndexNotImplemented.
type Index interface {
	BeforeFirst(searchKey file.Value) error
	Next() (bool, error)
	DataRID() (record.RID, error)
	Insert(v file.Value, rid record.RID) error
	Delete(v file.Value, rid record.RID) error
	Close()
}

// hashIndexBuckets is the fixed bucket count a working static hash
// index would hash into (kept only as a sizing constant for the stub,
// not used by any actual hashing here, since HashIndex never hashes
// anything).
const hashIndexBuckets = 100

// HashIndex stands in for a static hash index: NewHashIndex wires up
// the metadata (name, layout) a real index would need, but every
// operation is unimplemented.
type HashIndex struct {
	tx     tx.Transaction
	name   string
	layout record.Layout
}

func NewHashIndex(t tx.Transaction, name string, layout record.Layout) *HashIndex {
	return &HashIndex{tx: t, name: name, layout: layout}
}

func (h *HashIndex) BeforeFirst(searchKey file.Value) error {
	return ErrIndexNotImplemented
}

func (h *HashIndex) Next() (bool, error) {
	return false, ErrIndexNotImplemented
}

func (h *HashIndex) DataRID() (record.RID, error) {
	return record.RID{}, ErrIndexNotImplemented
}

func (h *HashIndex) Insert(v file.Value, rid record.RID) error {
	return ErrIndexNotImplemented
}

func (h *HashIndex) Delete(v file.Value, rid record.RID) error {
	return ErrIndexNotImplemented
}

func (h *HashIndex) Close() {}

// idxLayout builds a hash/B-tree-style index record layout: a block
// number, a slot id, and the copied data value being indexed.
func idxLayout(tableSchema record.Schema, fieldName string) record.Layout {
	schema := record.NewSchema()
	schema.AddIntField("block")
	schema.AddIntField("id")
	switch tableSchema.Type(fieldName) {
	case file.INTEGER:
		schema.AddIntField("dataval")
	case file.STRING:
		schema.AddStringField("dataval", tableSchema.Length(fieldName))
	}
	return record.NewLayout(schema)
}

// IndexInfo describes one declared index: which table and field it
// covers, and the layout its index-record blocks would use if it were
// ever built.
type IndexInfo struct {
	idxName     string
	fieldName   string
	tableSchema record.Schema
	idxLayout   record.Layout
	stats       StatInfo
}

func NewIndexInfo(idxName string, fieldName string, tableSchema record.Schema, stats StatInfo) *IndexInfo {
	return &IndexInfo{
		idxName:     idxName,
		fieldName:   fieldName,
		tableSchema: tableSchema,
		idxLayout:   idxLayout(tableSchema, fieldName),
		stats:       stats,
	}
}

// Open returns the (stub) index over this field.
func (ii *IndexInfo) Open(t tx.Transaction) Index {
	return NewHashIndex(t, ii.idxName, ii.idxLayout)
}
