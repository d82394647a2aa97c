package source

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Vesslan01/secsweep/internal/record"
)

// LoadProcessList reads a collector dump: {"processes": [{"name":..}]}.
// Shape errors mirror the event feed: the top-level key is required.
func LoadProcessList(path string) ([]record.Process, []RowError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("process list %s: %w", path, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("process list %s: %w", path, err)
	}

	var doc struct {
		Processes *[]record.Process `json:"processes"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("process list %s: %w: %v", path, ErrMalformedShape, err)
	}
	if doc.Processes == nil {
		return nil, nil, fmt.Errorf("process list %s: %w: missing top-level \"processes\" array", path, ErrMalformedShape)
	}

	var (
		procs   []record.Process
		rowErrs []RowError
	)
	for i, p := range *doc.Processes {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			rowErrs = append(rowErrs, RowError{Line: i + 1, Err: fmt.Errorf("%w: empty process name", ErrMalformedRow)})
			continue
		}
		procs = append(procs, record.Process{Name: name})
	}
	return procs, rowErrs, nil
}

// ListProcesses enumerates live process names via ps. Enumeration
// failure means the record source is empty by definition, so the
// error is fatal for the sweep that needs it.
func ListProcesses(ctx context.Context) ([]record.Process, error) {
	out, err := exec.CommandContext(ctx, "ps", "-eo", "comm=").Output()
	if err != nil {
		return nil, fmt.Errorf("process enumeration: %w", err)
	}
	var procs []record.Process
	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSpace(line)
		if name != "" {
			procs = append(procs, record.Process{Name: name})
		}
	}
	return procs, nil
}

// LoadServices reads a Windows service export (Export-Csv: Name,Status).
// Header matching is case-insensitive since Export-Csv capitalizes, but
// service name values keep their exact casing.
func LoadServices(path string) ([]record.Service, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("service list %s: %w", path, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("service list %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("service list %s: %w: empty file", path, ErrMalformedShape)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("service list %s: %w: %v", path, ErrMalformedShape, err)
	}
	nameCol, statusCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			nameCol = i
		case "status":
			statusCol = i
		}
	}
	if nameCol < 0 {
		return nil, nil, fmt.Errorf("service list %s: %w: no Name column", path, ErrMalformedShape)
	}

	var (
		services []record.Service
		rowErrs  []RowError
		line     = 1
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
		if nameCol >= len(fields) {
			rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("%w: missing Name field", ErrMalformedRow)})
			continue
		}
		name := strings.TrimSpace(fields[nameCol])
		if name == "" {
			rowErrs = append(rowErrs, RowError{Line: line, Err: fmt.Errorf("%w: empty service name", ErrMalformedRow)})
			continue
		}
		status := ""
		if statusCol >= 0 && statusCol < len(fields) {
			status = strings.TrimSpace(fields[statusCol])
		}
		services = append(services, record.Service{Name: name, Status: status})
	}
	return services, rowErrs, nil
}
