package datasets

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrMalformed reports a dataset file that cannot be parsed
var ErrMalformed = errors.New("malformed dataset")

// ReadCSV reads one sample per record. The column labelColumn holds the label,
// a negative value counts from the end (-1 is the last column), every other
// column is a number. Lines starting with # are skipped. A first record whose
// feature columns are not numbers is treated as a header.
func ReadCSV(r io.Reader, labelColumn int) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var d Dataset
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return d, nil
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "read csv"), ErrMalformed)
		}
		col := labelColumn
		if col < 0 {
			col += len(rec)
		}
		if col < 0 || col >= len(rec) {
			return nil, errors.Wrapf(ErrMalformed, "record %d has no label column %d", line, labelColumn)
		}
		s := Sample{Label: strings.TrimSpace(rec[col]), Features: make([]float64, 0, len(rec)-1)}
		for i, field := range rec {
			if i == col {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				if line == 1 {
					s.Features = nil
					break
				}
				return nil, errors.Wrapf(ErrMalformed, "record %d column %d: %q is not a number", line, i, field)
			}
			s.Features = append(s.Features, v)
		}
		if s.Features == nil {
			continue
		}
		d = append(d, s)
	}
}

// ReadCSVFile reads a CSV dataset from a file
func ReadCSVFile(name string, labelColumn int) (Dataset, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", name)
	}
	defer f.Close()
	return ReadCSV(f, labelColumn)
}
