package classify

import (
	"fmt"

	"github.com/Vesslan01/secsweep/internal/record"
)

// BruteForcePolicy classifies source IPs by failed-login line count
// from an auth log scan.
type BruteForcePolicy struct {
	// CriticalAt is the fail count at which an IP is treated as a
	// brute-force indicator.
	CriticalAt int
}

// DefaultBruteForceThreshold matches the collector scripts' cutoff.
const DefaultBruteForceThreshold = 5

// Classify returns exactly one verdict for the IP's aggregate.
func (p BruteForcePolicy) Classify(ip string, fails int) record.Verdict {
	threshold := p.CriticalAt
	if threshold <= 0 {
		threshold = DefaultBruteForceThreshold
	}
	switch {
	case fails >= threshold:
		return record.Verdict{Subject: ip, Tier: record.TierCritical, Reason: fmt.Sprintf("brute-force indicator (%d fails)", fails)}
	case fails >= 1:
		return record.Verdict{Subject: ip, Tier: record.TierMedium, Reason: fmt.Sprintf("suspicious failed logins (%d fails)", fails)}
	default:
		return record.Verdict{Subject: ip, Tier: record.TierOK, Reason: "no failed logins"}
	}
}
