package metadata

import (
	"errors"
	"fmt"
	"io"

	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/record"
	"github.com/arcdb/arc/tx"
)

// NameMaxLen is the maximum length of a table or field name stored in
// the catalog.
const NameMaxLen = 16

// ErrTableNotFound is returned when a table name has no entry in the
// table catalog.
var ErrTableNotFound = errors.New("metadata: table not found in catalog")

// TableManager stores and retrieves table metadata: every table's
// slot size (in "tblcat") and every field's type, length and offset
// within its table (in "fldcat"). These two tables are themselves
// ordinary tables, described by a Layout computed the same way any
// other table's is, which is what lets the catalog bootstrap itself.
type TableManager struct {
	tcat record.Layout
	fcat record.Layout
}

func NewTableManager() *TableManager {
	tcats := record.NewSchema()
	tcats.AddStringField("tblname", NameMaxLen)
	tcats.AddIntField("slotsize")
	tcat := record.NewLayout(tcats)

	fcats := record.NewSchema()
	fcats.AddStringField("tblname", NameMaxLen)
	fcats.AddStringField("fldname", NameMaxLen)
	fcats.AddIntField("type")
	fcats.AddIntField("length")
	fcats.AddIntField("offset")
	fcat := record.NewLayout(fcats)

	return &TableManager{tcat: tcat, fcat: fcat}
}

// Init creates the catalog tables themselves. Called once, when the
// database directory is freshly created.
func (tm *TableManager) Init(trans tx.Transaction) error {
	if err := tm.CreateTable("tblcat", *tm.tcat.Schema(), trans); err != nil {
		return err
	}
	return tm.CreateTable("fldcat", *tm.fcat.Schema(), trans)
}

// TableExists reports whether tblname has a tblcat entry.
func (tm *TableManager) TableExists(tblname string, trans tx.Transaction) (bool, error) {
	ts := record.NewTableScan(trans, "tblcat", tm.tcat)
	defer ts.Close()

	for {
		err := ts.Next()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		name, err := ts.GetString("tblname")
		if err != nil {
			return false, err
		}
		if name == tblname {
			return true, nil
		}
	}
}

// CreateTable computes sch's Layout and records it: one row in
// "tblcat" for the table's slot size, and one row per field in
// "fldcat" for that field's type, length and offset.
func (tm *TableManager) CreateTable(tblname string, sch record.Schema, trans tx.Transaction) error {
	layout := record.NewLayout(sch)

	tcat := record.NewTableScan(trans, "tblcat", tm.tcat)
	if err := tcat.Insert(); err != nil {
		tcat.Close()
		return err
	}
	if err := tcat.SetString("tblname", tblname); err != nil {
		tcat.Close()
		return err
	}
	if err := tcat.SetInt("slotsize", layout.SlotSize()); err != nil {
		tcat.Close()
		return err
	}
	tcat.Close()

	fcat := record.NewTableScan(trans, "fldcat", tm.fcat)
	defer fcat.Close()

	for _, fname := range sch.Fields() {
		if err := fcat.Insert(); err != nil {
			return err
		}
		if err := fcat.SetString("tblname", tblname); err != nil {
			return err
		}
		if err := fcat.SetString("fldname", fname); err != nil {
			return err
		}
		if err := fcat.SetInt("type", int(sch.Type(fname))); err != nil {
			return err
		}
		if err := fcat.SetInt("length", sch.Length(fname)); err != nil {
			return err
		}
		if err := fcat.SetInt("offset", layout.Offset(fname)); err != nil {
			return err
		}
	}

	return nil
}

// Layout reconstructs tblname's Layout from the catalog. Returns
// ErrTableNotFound if tblname was never created.
func (tm *TableManager) Layout(tblname string, trans tx.Transaction) (record.Layout, error) {
	var empty record.Layout

	size := -1
	tcat := record.NewTableScan(trans, "tblcat", tm.tcat)
	for {
		err := tcat.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			tcat.Close()
			return empty, err
		}
		tname, err := tcat.GetString("tblname")
		if err != nil {
			tcat.Close()
			return empty, err
		}
		if tname == tblname {
			size, err = tcat.GetInt("slotsize")
			if err != nil {
				tcat.Close()
				return empty, err
			}
			break
		}
	}
	tcat.Close()

	if size < 0 {
		return empty, fmt.Errorf("%w: %q", ErrTableNotFound, tblname)
	}

	schema := record.NewSchema()
	offsets := map[string]int{}

	fcat := record.NewTableScan(trans, "fldcat", tm.fcat)
	defer fcat.Close()

	for {
		err := fcat.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return empty, err
		}

		tname, err := fcat.GetString("tblname")
		if err != nil {
			return empty, err
		}
		if tname != tblname {
			continue
		}

		fldname, err := fcat.GetString("fldname")
		if err != nil {
			return empty, err
		}
		fldtype, err := fcat.GetInt("type")
		if err != nil {
			return empty, err
		}
		fldlen, err := fcat.GetInt("length")
		if err != nil {
			return empty, err
		}
		offset, err := fcat.GetInt("offset")
		if err != nil {
			return empty, err
		}

		offsets[fldname] = offset
		schema.AddField(fldname, file.FieldType(fldtype), fldlen)
	}

	return record.NewLayoutFromMetadata(schema, offsets, size), nil
}
