package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vesslan01/secsweep/internal/record"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRoster(t *testing.T) {
	path := writeFile(t, "users.csv",
		"username,last_login_days,status\n"+
			"alice,200,disabled\n"+
			"bob,95,active\n"+
			"carol,10,active\n")

	users, rowErrs, err := LoadRoster(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrs)
	}
	want := []record.User{
		{Username: "alice", LastLoginDays: 200, Status: record.StatusDisabled},
		{Username: "bob", LastLoginDays: 95, Status: record.StatusActive},
		{Username: "carol", LastLoginDays: 10, Status: record.StatusActive},
	}
	if len(users) != len(want) {
		t.Fatalf("got %d users, want %d", len(users), len(want))
	}
	for i := range want {
		if users[i] != want[i] {
			t.Errorf("users[%d] = %+v, want %+v", i, users[i], want[i])
		}
	}
}

func TestLoadRosterNoHeader(t *testing.T) {
	path := writeFile(t, "users.csv", "alice,200,disabled\n")
	users, rowErrs, err := LoadRoster(path)
	if err != nil || len(rowErrs) != 0 {
		t.Fatalf("unexpected errors: %v %v", err, rowErrs)
	}
	if len(users) != 1 || users[0].Username != "alice" {
		t.Errorf("got %+v", users)
	}
}

func TestLoadRosterBadRows(t *testing.T) {
	cases := []struct {
		name string
		row  string
	}{
		{"too few fields", "alice,200"},
		{"non-integer days", "alice,soon,active"},
		{"negative days", "alice,-3,active"},
		{"unknown status", "alice,10,locked"},
		{"empty username", ",10,active"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "users.csv", tc.row+"\nbob,5,active\n")
			users, rowErrs, err := LoadRoster(path)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if len(rowErrs) != 1 {
				t.Fatalf("got %d row errors, want 1: %v", len(rowErrs), rowErrs)
			}
			if !errors.Is(rowErrs[0], ErrMalformedRow) {
				t.Errorf("row error is not ErrMalformedRow: %v", rowErrs[0])
			}
			if rowErrs[0].Line != 1 {
				t.Errorf("row error line = %d, want 1", rowErrs[0].Line)
			}
			// The good row after the bad one still loads.
			if len(users) != 1 || users[0].Username != "bob" {
				t.Errorf("got users %+v, want just bob", users)
			}
		})
	}
}

func TestLoadRosterDuplicatesPreserved(t *testing.T) {
	path := writeFile(t, "users.csv", "alice,200,disabled\nalice,5,active\n")
	users, _, err := LoadRoster(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2 (duplicates are not collapsed)", len(users))
	}
}

func TestLoadRosterMissing(t *testing.T) {
	_, _, err := LoadRoster(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
