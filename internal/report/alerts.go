package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// alertsDoc is the alerts.json envelope.
type alertsDoc struct {
	RunID       string            `json:"run_id"`
	GeneratedAt string            `json:"generated_at"`
	Paths       map[string]string `json:"paths"`
	Alerts      []Alert           `json:"alerts"`
}

// WriteAlerts renders the run as alerts.json for downstream tooling.
func (res *Result) WriteAlerts(path string, paths map[string]string) error {
	doc := alertsDoc{
		RunID:       res.RunID,
		GeneratedAt: res.GeneratedAt.Format(time.RFC3339),
		Paths:       paths,
		Alerts:      res.Alerts,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("alerts %s: %w", path, err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("alerts %s: %w", path, err)
	}
	return nil
}

// WriteReport renders the human-readable final report: summary counts,
// every alert, and the input files the run actually used.
func (res *Result) WriteReport(path string, paths map[string]string) error {
	var b strings.Builder
	b.WriteString("=== FINAL SECURITY REPORT ===\n")
	fmt.Fprintf(&b, "Run: %s\n", res.RunID)
	fmt.Fprintf(&b, "Generated: %s\n\n", res.GeneratedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("=== SUMMARY ===\n")
	for _, sev := range severityOrder {
		fmt.Fprintf(&b, "%s: %d\n", sev, res.Summary.Count(sev))
	}
	b.WriteString("\n=== ALERTS ===\n")
	if len(res.Alerts) == 0 {
		b.WriteString("No findings.\n")
	}
	for _, a := range res.Alerts {
		fmt.Fprintf(&b, "%s: %s\n", a.Severity, a.Message)
	}
	b.WriteString("\n=== FILES USED ===\n")
	for _, k := range sortedStringKeys(paths) {
		fmt.Fprintf(&b, "%s: %s\n", k, paths[k])
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

func sortedStringKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
