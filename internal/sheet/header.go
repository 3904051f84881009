package sheet

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"booklet/internal/services"
)

// ReadHeader returns the first row of the spreadsheet at path. A blank first
// line is an empty header, as in Parse.
func ReadHeader(path string, delimiter rune) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, stageName, "open", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if delimiter != 0 {
		reader.Comma = delimiter
	} else {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, services.Wrap(services.ErrValidation, stageName, "read header", path+" is empty", nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, stageName, "read header", path, err)
	}
	if line, _ := reader.FieldPos(0); line > 1 {
		return []string{""}, nil
	}
	return header, nil
}

// CheckPerformer reports whether header has a usable column for performer,
// with the same errors extraction would raise.
func CheckPerformer(name string, header []string, performer string) error {
	return checkPerformerColumn(name, performer, findPerformer(header, performer), header)
}
