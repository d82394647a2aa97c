package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Vesslan01/secsweep/internal/record"
)

// rosterHeader is the literal header row of a user roster export.
var rosterHeader = []string{"username", "last_login_days", "status"}

// LoadRoster reads a user roster CSV (username,last_login_days,status).
//
// The header row is skipped when present. Rows that cannot be parsed
// into a User are returned as RowErrors alongside the good rows; row
// order is preserved and duplicate usernames are kept. A missing file
// or an unreadable stream is a fatal error.
func LoadRoster(path string) ([]record.User, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("roster %s: %w", path, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("roster %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // field count is validated per row below
	r.TrimLeadingSpace = true

	var (
		users   []record.User
		rowErrs []RowError
		line    int
	)
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("%w: %v", ErrMalformedRow, err)})
			continue
		}
		if line == 1 && isRosterHeader(fields) {
			continue
		}
		u, err := parseRosterRow(fields)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		users = append(users, u)
	}
	return users, rowErrs, nil
}

func isRosterHeader(fields []string) bool {
	if len(fields) != len(rosterHeader) {
		return false
	}
	for i, want := range rosterHeader {
		if strings.TrimSpace(fields[i]) != want {
			return false
		}
	}
	return true
}

func parseRosterRow(fields []string) (record.User, error) {
	if len(fields) != 3 {
		return record.User{}, fmt.Errorf("%w: want 3 fields, got %d", ErrMalformedRow, len(fields))
	}
	username := strings.TrimSpace(fields[0])
	if username == "" {
		return record.User{}, fmt.Errorf("%w: empty username", ErrMalformedRow)
	}
	days, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return record.User{}, fmt.Errorf("%w: last_login_days %q is not an integer", ErrMalformedRow, fields[1])
	}
	if days < 0 {
		return record.User{}, fmt.Errorf("%w: last_login_days %d is negative", ErrMalformedRow, days)
	}
	status, err := record.ParseStatus(strings.ToLower(strings.TrimSpace(fields[2])))
	if err != nil {
		return record.User{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return record.User{Username: username, LastLoginDays: days, Status: status}, nil
}
