package metadata

import (
	"io"

	"github.com/arcdb/arc/record"
	"github.com/arcdb/arc/tx"
)

// IndexManager stores index declarations (which field of which table
// is indexed, and under what index name) in an "idxcat" table, the
// same way TableManager stores table declarations. Declaring an index
// never builds one: every IndexInfo this manager hands back opens
// only the HashIndex stub.
type IndexManager struct {
	tm *TableManager
	sm *StatManager
}

func NewIndexManager(tm *TableManager, sm *StatManager) *IndexManager {
	return &IndexManager{tm: tm, sm: sm}
}

func (im *IndexManager) Init(trans tx.Transaction) error {
	schema := record.NewSchema()
	schema.AddStringField("indexname", NameMaxLen)
	schema.AddStringField("tablename", NameMaxLen)
	schema.AddStringField("fieldname", NameMaxLen)
	return im.tm.CreateTable("idxcat", schema, trans)
}

// CreateIndex records that idxname indexes tblname.fldname.
func (im *IndexManager) CreateIndex(idxname string, tblname string, fldname string, trans tx.Transaction) error {
	layout, err := im.tm.Layout("idxcat", trans)
	if err != nil {
		return err
	}

	ts := record.NewTableScan(trans, "idxcat", layout)
	defer ts.Close()

	if err := ts.Insert(); err != nil {
		return err
	}
	if err := ts.SetString("indexname", idxname); err != nil {
		return err
	}
	if err := ts.SetString("tablename", tblname); err != nil {
		return err
	}
	return ts.SetString("fieldname", fldname)
}

// IndexInfo returns every indexed field of tblname, keyed by field
// name.
func (im *IndexManager) IndexInfo(tblname string, trans tx.Transaction) (map[string]*IndexInfo, error) {
	result := map[string]*IndexInfo{}

	layout, err := im.tm.Layout("idxcat", trans)
	if err != nil {
		return nil, err
	}

	tblLayout, err := im.tm.Layout(tblname, trans)
	if err != nil {
		return nil, err
	}
	tblSchema := *tblLayout.Schema()

	ts := record.NewTableScan(trans, "idxcat", layout)
	defer ts.Close()

	for {
		err := ts.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		tname, err := ts.GetString("tablename")
		if err != nil {
			return nil, err
		}
		if tname != tblname {
			continue
		}

		idxname, err := ts.GetString("indexname")
		if err != nil {
			return nil, err
		}
		fldname, err := ts.GetString("fieldname")
		if err != nil {
			return nil, err
		}

		stats, err := im.sm.StatInfo(tblname, tblLayout, trans)
		if err != nil {
			return nil, err
		}

		result[fldname] = NewIndexInfo(idxname, fldname, tblSchema, stats)
	}

	return result, nil
}
