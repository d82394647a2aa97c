package report

// severityOrder fixes the section ordering in rendered summaries.
var severityOrder = []string{"CRITICAL", "HIGH", "MEDIUM", "WARNING", "LOW", "OK", "ERROR", "INFO"}

// Summary is the per-severity fold over a run's alerts. It is built
// once at the end of a run and never mutated afterwards.
type Summary struct {
	Total      int
	BySeverity map[string]int
}

func summarize(alerts []Alert) Summary {
	s := Summary{Total: len(alerts), BySeverity: make(map[string]int, len(severityOrder))}
	for _, sev := range severityOrder {
		s.BySeverity[sev] = 0
	}
	for _, a := range alerts {
		s.BySeverity[a.Severity]++
	}
	return s
}

// Count returns the number of alerts at the given severity.
func (s Summary) Count(severity string) int {
	return s.BySeverity[severity]
}
