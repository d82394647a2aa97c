package classify

import "github.com/Vesslan01/secsweep/internal/record"

// FailedLoginPolicy classifies a user by their aggregated failed_login
// count. A disabled account with any failed attempt dominates the
// count-based rules: someone is knocking on a door that should be shut.
type FailedLoginPolicy struct{}

// Classify returns exactly one verdict for the user's aggregate.
func (FailedLoginPolicy) Classify(username string, status record.Status, failCount int) record.Verdict {
	switch {
	case status == record.StatusDisabled && failCount >= 1:
		return record.Verdict{Subject: username, Tier: record.TierCritical, Reason: "disabled + failed logins"}
	case failCount >= 3:
		return record.Verdict{Subject: username, Tier: record.TierHigh, Reason: "3+ failed attempts"}
	case failCount >= 1:
		return record.Verdict{Subject: username, Tier: record.TierMedium, Reason: "failed attempts"}
	default:
		return record.Verdict{Subject: username, Tier: record.TierLow, Reason: "no failed attempts"}
	}
}
