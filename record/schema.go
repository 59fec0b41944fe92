package record

import "github.com/arcdb/arc/file"

// fieldInfo is one field's entry in a Schema: its type, and for STRING
// fields the maximum declared character length (ignored for INTEGER).
type fieldInfo struct {
	Type   file.FieldType
	Length int
	Index  int
}

// Schema is a table's record schema: the name and type of every
// field, plus the declared maximum length of every string field. A
// Layout is derived from a Schema to compute byte offsets; the schema
// itself carries no notion of storage layout.
type Schema struct {
	idx    int
	fields []string
	info   map[string]fieldInfo
}

func NewSchema() Schema {
	return Schema{
		fields: make([]string, 0),
		info:   map[string]fieldInfo{},
	}
}

// NewJoinedSchema returns a schema containing the union of first's and
// second's fields, used to describe the output of a Product scan.
func NewJoinedSchema(first Schema, second Schema) Schema {
	schema := NewSchema()
	schema.addAll(first)
	schema.addAll(second)
	return schema
}

func (s *Schema) ftype(name string) file.FieldType {
	return s.info[name].Type
}

func (s *Schema) flen(name string) int {
	return s.info[name].Length
}

func (s *Schema) addField(name string, typ file.FieldType, length int) {
	s.fields = append(s.fields, name)
	s.info[name] = fieldInfo{
		Type:   typ,
		Length: length,
		Index:  s.idx,
	}
	s.idx++
}

// AddIntField adds a fixed 4-byte integer field to the schema.
func (s *Schema) AddIntField(name string) {
	s.addField(name, file.INTEGER, 0)
}

// AddStringField adds a string field holding up to length characters.
// For example, a field declared VARCHAR(9) is added with length 9.
func (s *Schema) AddStringField(name string, length int) {
	s.addField(name, file.STRING, length)
}

// Add copies fname's type and (for strings) declared length from
// schema into s.
func (s *Schema) Add(fname string, schema Schema) {
	t := schema.ftype(fname)
	l := schema.flen(fname)
	s.addField(fname, t, l)
}

// AddField adds a field of the given type and declared length
// directly, for reconstructing a schema from catalog metadata where
// type and length are already known.
func (s *Schema) AddField(name string, typ file.FieldType, length int) {
	s.addField(name, typ, length)
}

// addAll copies every field of schema into s, preserving declared
// string lengths.
func (s *Schema) addAll(schema Schema) {
	for _, f := range schema.fields {
		s.Add(f, schema)
	}
}

// AddAll copies every field of schema into s, preserving declared
// string lengths. Used by the parser to merge field definitions
// parsed one at a time in a comma-separated list.
func (s *Schema) AddAll(schema Schema) {
	s.addAll(schema)
}

// Fields returns the schema's field names in declaration order.
func (s Schema) Fields() []string {
	return s.fields
}

func (s Schema) HasField(fname string) bool {
	_, ok := s.info[fname]
	return ok
}

// Type returns the declared type of fname.
func (s Schema) Type(fname string) file.FieldType {
	return s.ftype(fname)
}

// Length returns the declared maximum character length of string
// field fname (meaningless for an INTEGER field).
func (s Schema) Length(fname string) int {
	return s.flen(fname)
}
