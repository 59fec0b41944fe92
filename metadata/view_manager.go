package metadata

import (
	"errors"
	"io"

	"github.com/arcdb/arc/record"
	"github.com/arcdb/arc/tx"
)

// MaxViewDef is the maximum stored length of a view's SQL definition
// text.
const MaxViewDef = 100

// ErrViewNotFound is returned when a view name has no entry in the
// view catalog.
var ErrViewNotFound = errors.New("metadata: view not found in catalog")

// ViewManager stores view definitions (the view's name and its
// defining SELECT text, verbatim) as ordinary rows in a "viewcat"
// table managed through TableManager like any other table.
type ViewManager struct {
	tm *TableManager
}

func NewViewManager(tm *TableManager) *ViewManager {
	return &ViewManager{tm: tm}
}

func (vm *ViewManager) Init(trans tx.Transaction) error {
	schema := record.NewSchema()
	schema.AddStringField("viewname", NameMaxLen)
	schema.AddStringField("viewdef", MaxViewDef)
	return vm.tm.CreateTable("viewcat", schema, trans)
}

// CreateView stores vdef as vname's definition.
func (vm *ViewManager) CreateView(vname string, vdef string, trans tx.Transaction) error {
	layout, err := vm.tm.Layout("viewcat", trans)
	if err != nil {
		return err
	}

	ts := record.NewTableScan(trans, "viewcat", layout)
	defer ts.Close()

	if err := ts.Insert(); err != nil {
		return err
	}
	if err := ts.SetString("viewname", vname); err != nil {
		return err
	}
	return ts.SetString("viewdef", vdef)
}

// ViewDefinition returns vname's stored definition text, or
// ErrViewNotFound if no such view exists.
func (vm *ViewManager) ViewDefinition(vname string, trans tx.Transaction) (string, error) {
	layout, err := vm.tm.Layout("viewcat", trans)
	if err != nil {
		return "", err
	}

	ts := record.NewTableScan(trans, "viewcat", layout)
	defer ts.Close()

	for {
		err := ts.Next()
		if err == io.EOF {
			return "", ErrViewNotFound
		}
		if err != nil {
			return "", err
		}

		name, err := ts.GetString("viewname")
		if err != nil {
			return "", err
		}
		if name == vname {
			return ts.GetString("viewdef")
		}
	}
}
