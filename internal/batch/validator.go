package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrEmpty          = errors.New("the file has no recipient rows")
	ErrMissingColumns = errors.New(`could not find "name" and "email" columns, check the file headers`)
	ErrNoValidRows    = errors.New("no valid rows with both a name and an email were found")
)

// ReadCSV parses tabular text into raw records, header row included.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	// Rows may have trailing blanks or be short, the validator tolerates both.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	return records, nil
}

// ValidateRecords turns raw records (header row first) into recipients.
// Headers are matched case-insensitively after trimming; columns other than
// name and email are ignored. Rows whose trimmed name or email is empty are
// dropped rather than failing the batch, and two rows with the same email
// stay two distinct recipients.
func ValidateRecords(records [][]string) ([]Recipient, error) {
	if len(records) == 0 || len(records) == 1 {
		return nil, ErrEmpty
	}

	nameCol, emailCol := -1, -1
	for i, header := range records[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "name":
			if nameCol == -1 {
				nameCol = i
			}
		case "email":
			if emailCol == -1 {
				emailCol = i
			}
		}
	}
	if nameCol == -1 || emailCol == -1 {
		return nil, ErrMissingColumns
	}

	field := func(row []string, col int) string {
		if col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	var recipients []Recipient
	for i, row := range records[1:] {
		rec := Recipient{
			ID:     i,
			Name:   field(row, nameCol),
			Email:  field(row, emailCol),
			Status: StatusPending,
		}
		if rec.Name == "" || rec.Email == "" {
			continue
		}
		recipients = append(recipients, rec)
	}

	if len(recipients) == 0 {
		return nil, ErrNoValidRows
	}

	return recipients, nil
}
