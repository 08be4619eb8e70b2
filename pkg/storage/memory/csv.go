package memory

import (
	"costdb/pkg/tuple"
	"costdb/pkg/types"
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// LoadCSV appends every record of r to f. Each record must have one column
// per schema field; values are parsed according to the field types. When
// hasHeader is set the first record is checked against the schema's field
// names and skipped.
func LoadCSV(r io.Reader, f *File, hasHeader bool) (int, error) {
	td := f.TupleDesc()
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = td.NumFields()
	reader.TrimLeadingSpace = true

	loaded := 0
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return loaded, nil
		}
		line++
		if err != nil {
			return loaded, errors.Wrapf(err, "read csv record %d", line)
		}

		if hasHeader && line == 1 {
			if err := checkHeader(td, record); err != nil {
				return 0, err
			}
			continue
		}

		t := tuple.NewTuple(td)
		for i, raw := range record {
			field, err := types.ParseField(td.Types[i], raw)
			if err != nil {
				return loaded, errors.Wrapf(err, "csv record %d, column %d", line, i)
			}
			if err := t.SetField(i, field); err != nil {
				return loaded, errors.Wrapf(err, "csv record %d, column %d", line, i)
			}
		}

		if err := f.AddTuple(t); err != nil {
			return loaded, errors.Wrapf(err, "csv record %d", line)
		}
		loaded++
	}
}

func checkHeader(td *tuple.TupleDescription, header []string) error {
	for i, name := range header {
		want, _ := td.GetFieldName(i)
		if want != "" && !strings.EqualFold(strings.TrimSpace(name), want) {
			return errors.Errorf("csv header column %d is %q, schema expects %q", i, name, want)
		}
	}
	return nil
}
