package source

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var ipPattern = regexp.MustCompile(`(\d{1,3}(?:\.\d{1,3}){3})`)

// AuthSummary is the immutable result of one pass over an auth log:
// indicator tallies plus per-source-IP failed-line counts. The fold
// happens inside ScanAuthLog; callers never see partial state.
type AuthSummary struct {
	Lines        int
	Failed       int
	Errors       int
	Unauthorized int
	FailsByIP    map[string]int
}

// Indicators reports whether any keyword indicator was seen at all.
func (s AuthSummary) Indicators() bool {
	return s.Failed > 0 || s.Errors > 0 || s.Unauthorized > 0
}

// IPsByCount returns the observed IPs ordered by descending fail
// count, ties broken by IP string for stable output.
func (s AuthSummary) IPsByCount() []string {
	ips := make([]string, 0, len(s.FailsByIP))
	for ip := range s.FailsByIP {
		ips = append(ips, ip)
	}
	sort.Slice(ips, func(i, j int) bool {
		if s.FailsByIP[ips[i]] != s.FailsByIP[ips[j]] {
			return s.FailsByIP[ips[i]] > s.FailsByIP[ips[j]]
		}
		return ips[i] < ips[j]
	})
	return ips
}

// ScanAuthLog folds an auth log into an AuthSummary. Keyword matches
// are case-insensitive; an IP is counted only on lines containing
// "failed". A missing file is reported as ErrNotFound so the caller
// can decide whether the log is optional for its run.
func ScanAuthLog(path string) (AuthSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return AuthSummary{}, fmt.Errorf("auth log %s: %w", path, ErrNotFound)
		}
		return AuthSummary{}, fmt.Errorf("auth log %s: %w", path, err)
	}
	defer f.Close()

	sum := AuthSummary{FailsByIP: make(map[string]int)}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		sum.Lines++
		low := strings.ToLower(line)
		if strings.Contains(low, "failed") {
			sum.Failed++
			if m := ipPattern.FindString(line); m != "" {
				sum.FailsByIP[m]++
			}
		}
		if strings.Contains(low, "error") {
			sum.Errors++
		}
		if strings.Contains(low, "unauthorized") {
			sum.Unauthorized++
		}
	}
	if err := sc.Err(); err != nil {
		return AuthSummary{}, fmt.Errorf("auth log %s: %w", path, err)
	}
	return sum, nil
}
