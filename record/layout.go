package record

import "github.com/arcdb/arc/file"

// Layout maps a Schema onto a slot's byte layout: each field's byte
// offset within a slot, and the slot's total size (the 4-byte
// empty/used flag plus every field's encoded width).
type Layout struct {
	schema       Schema
	fieldIndexes map[string]int
	offsets      map[string]int
	slotsize     int
}

func NewLayout(schema Schema) Layout {
	offsets := make(map[string]int, len(schema.fields))
	fieldIndexes := make(map[string]int, len(schema.fields))

	s := file.IntSize
	for _, f := range schema.fields {
		fieldIndexes[f] = schema.info[f].Index
		offsets[f] = s
		s += lenInBytes(schema, f)
	}

	return Layout{
		schema:       schema,
		fieldIndexes: fieldIndexes,
		offsets:      offsets,
		slotsize:     s,
	}
}

// NewLayoutFromMetadata rebuilds a Layout from catalog-stored offsets
// and slot size, rather than recomputing them from schema (the
// metadata package reads these back from the tblcat/fldcat tables
// instead of recomputing them, so that a table's on-disk layout never
// shifts after it was created).
func NewLayoutFromMetadata(schema Schema, offsets map[string]int, slotsize int) Layout {
	fieldIndexes := make(map[string]int, len(schema.fields))
	for _, f := range schema.fields {
		fieldIndexes[f] = schema.info[f].Index
	}

	return Layout{
		schema:       schema,
		fieldIndexes: fieldIndexes,
		offsets:      offsets,
		slotsize:     slotsize,
	}
}

func lenInBytes(schema Schema, field string) int {
	switch schema.ftype(field) {
	case file.INTEGER:
		return file.IntSize
	case file.STRING:
		return file.StrLength(schema.flen(field))
	}
	panic("unsupported field type")
}

func (l Layout) Schema() *Schema {
	return &l.schema
}

func (l Layout) Offset(fname string) int {
	return l.offsets[fname]
}

func (l Layout) FieldIndex(fname string) int {
	idx, ok := l.fieldIndexes[fname]
	if !ok {
		return -1
	}
	return idx
}

func (l Layout) FieldsCount() int {
	return len(l.schema.fields)
}

func (l Layout) SlotSize() int {
	return l.slotsize
}
