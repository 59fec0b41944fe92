package query

import (
	"errors"

	"github.com/arcdb/arc/file"
	"github.com/arcdb/arc/parse"
	"github.com/arcdb/arc/record"
)

var ErrNotUpdatable = errors.New("query: underlying scan does not support update")

// Select is the relational-algebra selection operator: it wraps a
// scan and a predicate, and iterates only over records for which the
// predicate holds. Select scans pass update calls through to the
// underlying scan when it is itself a UpdateScan.
type Select struct {
	scan      Scan
	predicate parse.Predicate
}

// NewSelect builds a Select operator over scan restricted by pred.
func NewSelect(scan Scan, pred parse.Predicate) *Select {
	return &Select{scan: scan, predicate: pred}
}

func (s *Select) BeforeFirst() {
	s.scan.BeforeFirst()
}

func (s *Select) Close() {
	s.scan.Close()
}

func (s *Select) GetInt(fieldName string) (int, error) {
	return s.scan.GetInt(fieldName)
}

func (s *Select) GetString(fieldName string) (string, error) {
	return s.scan.GetString(fieldName)
}

func (s *Select) GetVal(fieldName string) (file.Value, error) {
	return s.scan.GetVal(fieldName)
}

func (s *Select) HasField(fieldName string) bool {
	return s.scan.HasField(fieldName)
}

// Next advances to the next record of the underlying scan that
// satisfies the predicate, returning io.EOF once none remain.
func (s *Select) Next() error {
	for {
		if err := s.scan.Next(); err != nil {
			return err
		}
		ok, err := s.predicate.IsSatisfied(s.scan)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
}

func (s *Select) updateScan() (UpdateScan, error) {
	u, ok := s.scan.(UpdateScan)
	if !ok {
		return nil, ErrNotUpdatable
	}
	return u, nil
}

func (s *Select) SetInt(fieldName string, val int) error {
	u, err := s.updateScan()
	if err != nil {
		return err
	}
	return u.SetInt(fieldName, val)
}

func (s *Select) SetString(fieldName string, val string) error {
	u, err := s.updateScan()
	if err != nil {
		return err
	}
	return u.SetString(fieldName, val)
}

func (s *Select) SetVal(fieldName string, val file.Value) error {
	u, err := s.updateScan()
	if err != nil {
		return err
	}
	return u.SetVal(fieldName, val)
}

func (s *Select) Insert() error {
	u, err := s.updateScan()
	if err != nil {
		return err
	}
	return u.Insert()
}

func (s *Select) Delete() error {
	u, err := s.updateScan()
	if err != nil {
		return err
	}
	return u.Delete()
}

func (s *Select) GetRID() record.RID {
	u, err := s.updateScan()
	if err != nil {
		panic(err)
	}
	return u.GetRID()
}

func (s *Select) MoveToRID(rid record.RID) {
	u, err := s.updateScan()
	if err != nil {
		panic(err)
	}
	u.MoveToRID(rid)
}
